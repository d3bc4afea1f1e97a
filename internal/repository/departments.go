package repository

import (
	"context"
	"database/sql"

	"github.com/collegefest/champboard/internal/models"
)

// ==================== Department Methods ====================

const departmentColumns = `id, label, sort_order, active, created_at`

// ListDepartments returns every department, retired ones included.
func (r *Repository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDepartment retrieves a department by id
func (r *Repository) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+departmentColumns+` FROM departments WHERE id = ?`), id)
	d, err := scanDepartment(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// InsertDepartmentIfMissing seeds a department, leaving an existing row
// (and any label change made since) untouched.
func (r *Repository) InsertDepartmentIfMissing(ctx context.Context, d models.Department) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.rebind(`
		INSERT INTO departments (id, label, sort_order, active, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`),
		d.ID, d.Label, d.SortOrder, d.Active, now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateDepartment inserts a department and gives it a zero score record in
// every existing sport event, atomically. It returns the number of score
// records created.
func (r *Repository) CreateDepartment(ctx context.Context, d models.Department) (int64, error) {
	var backfilled int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.rebind(`
			INSERT INTO departments (id, label, sort_order, active, created_at)
			VALUES (?, ?, ?, ?, ?)`),
			d.ID, d.Label, d.SortOrder, d.Active, now()); err != nil {
			return translate(err)
		}
		n, err := r.backfill(ctx, tx, d.ID)
		backfilled = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return backfilled, nil
}

// UpdateDepartment changes label, sort order and active flag. The id is immutable.
func (r *Repository) UpdateDepartment(ctx context.Context, d models.Department) error {
	return r.execOne(ctx, r.db,
		`UPDATE departments SET label = ?, sort_order = ?, active = ? WHERE id = ?`,
		d.Label, d.SortOrder, d.Active, d.ID)
}

// BackfillScores creates zero score records for departmentID in every sport
// event that lacks one.
func (r *Repository) BackfillScores(ctx context.Context, departmentID string) (int64, error) {
	return r.backfill(ctx, r.db, departmentID)
}

func (r *Repository) backfill(ctx context.Context, ex execer, departmentID string) (int64, error) {
	ts := now()
	// Placeholders in a SELECT list get no type from the target columns on postgres.
	res, err := ex.ExecContext(ctx, r.rebind(`
		INSERT INTO scores (event_id, department_id, created_at, updated_at)
		SELECT e.id, ?, `+r.timestampParam()+`, `+r.timestampParam()+` FROM sport_events e
		WHERE NOT EXISTS (
			SELECT 1 FROM scores s WHERE s.event_id = e.id AND s.department_id = ?
		)`),
		departmentID, ts, ts, departmentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDepartment(s scanner) (models.Department, error) {
	var d models.Department
	if err := s.Scan(&d.ID, &d.Label, &d.SortOrder, &d.Active, &d.CreatedAt); err != nil {
		return d, err
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return d, nil
}
