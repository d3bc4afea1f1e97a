package repository

import (
	"context"

	"github.com/collegefest/champboard/internal/models"
)

// ==================== Fixture Methods ====================

const fixtureColumns = `id, event_id, department_1, department_2, start_time, end_time, score, created_at`

// ListFixtures returns an event's fixtures ordered by start time
func (r *Repository) ListFixtures(ctx context.Context, eventID string) ([]models.Fixture, error) {
	return r.queryFixtures(ctx, `SELECT `+fixtureColumns+` FROM fixtures WHERE event_id = ? ORDER BY start_time, id`, eventID)
}

// ListAllFixtures returns every fixture ordered by start time
func (r *Repository) ListAllFixtures(ctx context.Context) ([]models.Fixture, error) {
	return r.queryFixtures(ctx, `SELECT `+fixtureColumns+` FROM fixtures ORDER BY start_time, id`)
}

// GetFixture retrieves a fixture by id
func (r *Repository) GetFixture(ctx context.Context, id string) (*models.Fixture, error) {
	rows, err := r.queryFixtures(ctx, `SELECT `+fixtureColumns+` FROM fixtures WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// CreateFixture inserts a fixture
func (r *Repository) CreateFixture(ctx context.Context, f models.Fixture) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`INSERT INTO fixtures (`+fixtureColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		f.ID, f.EventID, f.Department1, f.Department2, f.StartTime.UTC(), f.EndTime.UTC(), f.Score, f.CreatedAt.UTC())
	return translate(err)
}

// UpdateFixture overwrites a fixture's teams, times and score
func (r *Repository) UpdateFixture(ctx context.Context, f models.Fixture) error {
	return r.execOne(ctx, r.db, `
		UPDATE fixtures
		SET department_1 = ?, department_2 = ?, start_time = ?, end_time = ?, score = ?
		WHERE id = ?`,
		f.Department1, f.Department2, f.StartTime.UTC(), f.EndTime.UTC(), f.Score, f.ID)
}

// DeleteFixture deletes a fixture
func (r *Repository) DeleteFixture(ctx context.Context, id string) error {
	return r.execOne(ctx, r.db, `DELETE FROM fixtures WHERE id = ?`, id)
}

func (r *Repository) queryFixtures(ctx context.Context, query string, args ...any) ([]models.Fixture, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Fixture
	for rows.Next() {
		var f models.Fixture
		if err := rows.Scan(&f.ID, &f.EventID, &f.Department1, &f.Department2, &f.StartTime, &f.EndTime, &f.Score, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.StartTime = f.StartTime.UTC()
		f.EndTime = f.EndTime.UTC()
		f.CreatedAt = f.CreatedAt.UTC()
		out = append(out, f)
	}
	return out, rows.Err()
}

