package repository

import (
	"context"
	"database/sql"

	"github.com/collegefest/champboard/internal/models"
)

// ==================== Sport Event Methods ====================

const sportEventColumns = `id, name, gender, venue, start_time, end_time, solo, additional_data_name, created_at`

// ListSportEvents returns all sport events ordered by start time
func (r *Repository) ListSportEvents(ctx context.Context) ([]models.SportEvent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sportEventColumns+` FROM sport_events ORDER BY start_time, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SportEvent
	for rows.Next() {
		e, err := scanSportEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetSportEvent retrieves a sport event by id
func (r *Repository) GetSportEvent(ctx context.Context, id string) (*models.SportEvent, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+sportEventColumns+` FROM sport_events WHERE id = ?`), id)
	e, err := scanSportEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateSportEvent inserts the event and one zero score record per
// department in a single transaction.
func (r *Repository) CreateSportEvent(ctx context.Context, e models.SportEvent, departmentIDs []string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.rebind(`
			INSERT INTO sport_events (`+sportEventColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			e.ID, e.Name, string(e.Gender), e.Venue, e.StartTime.UTC(), e.EndTime.UTC(), e.Solo, e.AdditionalDataName, e.CreatedAt.UTC()); err != nil {
			return translate(err)
		}

		stmt, err := tx.PrepareContext(ctx, r.rebind(`
			INSERT INTO scores (event_id, department_id, created_at, updated_at)
			VALUES (?, ?, ?, ?)`))
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, dept := range departmentIDs {
			if _, err := stmt.ExecContext(ctx, e.ID, dept, e.CreatedAt.UTC(), e.CreatedAt.UTC()); err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

// UpdateSportEvent overwrites the event's descriptive fields
func (r *Repository) UpdateSportEvent(ctx context.Context, e models.SportEvent) error {
	return r.execOne(ctx, r.db, `
		UPDATE sport_events
		SET name = ?, gender = ?, venue = ?, start_time = ?, end_time = ?, solo = ?, additional_data_name = ?
		WHERE id = ?`,
		e.Name, string(e.Gender), e.Venue, e.StartTime.UTC(), e.EndTime.UTC(), e.Solo, e.AdditionalDataName, e.ID)
}

// DeleteSportEvent deletes the event; scores and fixtures cascade.
func (r *Repository) DeleteSportEvent(ctx context.Context, id string) error {
	return r.execOne(ctx, r.db, `DELETE FROM sport_events WHERE id = ?`, id)
}

func scanSportEvent(s scanner) (models.SportEvent, error) {
	var e models.SportEvent
	var gender string
	if err := s.Scan(&e.ID, &e.Name, &gender, &e.Venue, &e.StartTime, &e.EndTime, &e.Solo, &e.AdditionalDataName, &e.CreatedAt); err != nil {
		return e, err
	}
	e.Gender = models.Gender(gender)
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

// ==================== Score Methods ====================

const scoreSelect = `
	SELECT s.event_id, s.department_id, s.wins, s.losses, s.draws, s.matches, s.points,
		e.additional_data_name, s.additional_data_value, s.created_at, s.updated_at
	FROM scores s
	JOIN sport_events e ON e.id = s.event_id`

// ListScores returns every score record of one event, in storage order.
// Ranking is the caller's job.
func (r *Repository) ListScores(ctx context.Context, eventID string) ([]models.ScoreRecord, error) {
	return r.queryScores(ctx, scoreSelect+` WHERE s.event_id = ? ORDER BY s.department_id`, eventID)
}

// ListAllScores returns score records across all events
func (r *Repository) ListAllScores(ctx context.Context) ([]models.ScoreRecord, error) {
	return r.queryScores(ctx, scoreSelect+` ORDER BY s.event_id, s.department_id`)
}

// UpdateScore replaces the scoring fields of an existing record. A nil
// additional value leaves the stored one alone. It never inserts.
func (r *Repository) UpdateScore(ctx context.Context, eventID, departmentID string, wins, losses, draws, matches int, points float64, additional *float64) error {
	var extra sql.NullFloat64
	if additional != nil {
		extra = sql.NullFloat64{Float64: *additional, Valid: true}
	}
	return r.execOne(ctx, r.db, `
		UPDATE scores
		SET wins = ?, losses = ?, draws = ?, matches = ?, points = ?,
			additional_data_value = COALESCE(?, additional_data_value), updated_at = ?
		WHERE event_id = ? AND department_id = ?`,
		wins, losses, draws, matches, points, extra, now(), eventID, departmentID)
}

func (r *Repository) queryScores(ctx context.Context, query string, args ...any) ([]models.ScoreRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ScoreRecord
	for rows.Next() {
		var (
			s         models.ScoreRecord
			extraName string
			extra     sql.NullFloat64
		)
		if err := rows.Scan(&s.EventID, &s.DepartmentID, &s.Wins, &s.Losses, &s.Draws, &s.Matches, &s.Points,
			&extraName, &extra, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if extraName != "" {
			s.AdditionalData = &models.AdditionalData{Name: extraName, Value: extra.Float64}
		}
		s.CreatedAt = s.CreatedAt.UTC()
		s.UpdatedAt = s.UpdatedAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}
