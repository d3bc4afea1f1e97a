package repository

import (
	"context"
	"database/sql"

	"github.com/collegefest/champboard/internal/models"
)

// ==================== Cultural Event Methods ====================

const culturalEventColumns = `id, name, description, venue, start_time, end_time, solo, created_at`

// ListCulturalEvents returns all cultural events ordered by start time
func (r *Repository) ListCulturalEvents(ctx context.Context) ([]models.CulturalEvent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+culturalEventColumns+` FROM cultural_events ORDER BY start_time, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CulturalEvent
	for rows.Next() {
		e, err := scanCulturalEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetCulturalEvent retrieves a cultural event by id
func (r *Repository) GetCulturalEvent(ctx context.Context, id string) (*models.CulturalEvent, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+culturalEventColumns+` FROM cultural_events WHERE id = ?`), id)
	e, err := scanCulturalEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateCulturalEvent inserts a cultural event. Winners are added separately.
func (r *Repository) CreateCulturalEvent(ctx context.Context, e models.CulturalEvent) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`INSERT INTO cultural_events (`+culturalEventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		e.ID, e.Name, e.Description, e.Venue, e.StartTime.UTC(), e.EndTime.UTC(), e.Solo, e.CreatedAt.UTC())
	return translate(err)
}

// UpdateCulturalEvent overwrites a cultural event's fields
func (r *Repository) UpdateCulturalEvent(ctx context.Context, e models.CulturalEvent) error {
	return r.execOne(ctx, r.db, `
		UPDATE cultural_events
		SET name = ?, description = ?, venue = ?, start_time = ?, end_time = ?, solo = ?
		WHERE id = ?`,
		e.Name, e.Description, e.Venue, e.StartTime.UTC(), e.EndTime.UTC(), e.Solo, e.ID)
}

// DeleteCulturalEvent deletes the event; winners cascade.
func (r *Repository) DeleteCulturalEvent(ctx context.Context, id string) error {
	return r.execOne(ctx, r.db, `DELETE FROM cultural_events WHERE id = ?`, id)
}

func scanCulturalEvent(s scanner) (models.CulturalEvent, error) {
	var e models.CulturalEvent
	if err := s.Scan(&e.ID, &e.Name, &e.Description, &e.Venue, &e.StartTime, &e.EndTime, &e.Solo, &e.CreatedAt); err != nil {
		return e, err
	}
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

// ==================== Cultural Winner Methods ====================

const winnerColumns = `id, event_id, position, department_id, points, created_at`

// ListWinners returns an event's winners ordered by position
func (r *Repository) ListWinners(ctx context.Context, eventID string) ([]models.CulturalWinner, error) {
	return r.queryWinners(ctx, `SELECT `+winnerColumns+` FROM cultural_winners WHERE event_id = ? ORDER BY position, department_id`, eventID)
}

// ListAllWinners returns winners across all cultural events
func (r *Repository) ListAllWinners(ctx context.Context) ([]models.CulturalWinner, error) {
	return r.queryWinners(ctx, `SELECT `+winnerColumns+` FROM cultural_winners ORDER BY event_id, position`)
}

// GetWinner retrieves a winner by id
func (r *Repository) GetWinner(ctx context.Context, id string) (*models.CulturalWinner, error) {
	winners, err := r.queryWinners(ctx, `SELECT `+winnerColumns+` FROM cultural_winners WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(winners) == 0 {
		return nil, ErrNotFound
	}
	return &winners[0], nil
}

// CreateWinner inserts a winner; a taken position yields ErrDuplicate.
func (r *Repository) CreateWinner(ctx context.Context, w models.CulturalWinner) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`INSERT INTO cultural_winners (`+winnerColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		w.ID, w.EventID, w.Position, w.DepartmentID, w.Points, w.CreatedAt.UTC())
	return translate(err)
}

// UpdateWinner overwrites a winner's position, department and points
func (r *Repository) UpdateWinner(ctx context.Context, w models.CulturalWinner) error {
	return r.execOne(ctx, r.db,
		`UPDATE cultural_winners SET position = ?, department_id = ?, points = ? WHERE id = ?`,
		w.Position, w.DepartmentID, w.Points, w.ID)
}

// DeleteWinner deletes a winner
func (r *Repository) DeleteWinner(ctx context.Context, id string) error {
	return r.execOne(ctx, r.db, `DELETE FROM cultural_winners WHERE id = ?`, id)
}

func (r *Repository) queryWinners(ctx context.Context, query string, args ...any) ([]models.CulturalWinner, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CulturalWinner
	for rows.Next() {
		var w models.CulturalWinner
		if err := rows.Scan(&w.ID, &w.EventID, &w.Position, &w.DepartmentID, &w.Points, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.CreatedAt = w.CreatedAt.UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}
