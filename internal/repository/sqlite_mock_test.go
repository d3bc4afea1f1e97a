package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db}, mock
}

// TestListDepartments_ScanError tests row scanning error
func TestListDepartments_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "label", "sort_order", "active", "created_at"}).
		AddRow("CSE", "CSE", "not-a-number", true, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM departments").WillReturnRows(rows)

	if _, err := repo.ListDepartments(context.Background()); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

func TestListDepartments_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM departments").WillReturnError(errors.New("connection lost"))

	if _, err := repo.ListDepartments(context.Background()); err == nil {
		t.Error("expected query error, got nil")
	}
}

// TestListScores_ScanError tests row scanning error
func TestListScores_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"event_id", "department_id", "wins", "losses", "draws", "matches", "points", "additional_data_name", "additional_data_value", "created_at", "updated_at"}).
		AddRow("ev-1", "CSE", "three", 0, 0, 0, 0.0, "", nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM scores").WillReturnRows(rows)

	if _, err := repo.ListScores(context.Background(), "ev-1"); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

func TestListScores_RowError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"event_id", "department_id", "wins", "losses", "draws", "matches", "points", "additional_data_name", "additional_data_value", "created_at", "updated_at"}).
		AddRow("ev-1", "CSE", 1, 0, 0, 1, 3.0, "", nil, time.Now(), time.Now()).
		RowError(0, errors.New("row failed"))
	mock.ExpectQuery("SELECT (.+) FROM scores").WillReturnRows(rows)

	if _, err := repo.ListScores(context.Background(), "ev-1"); err == nil {
		t.Error("expected row error, got nil")
	}
}

func TestListFixtures_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "event_id", "department_1", "department_2", "start_time", "end_time", "score", "created_at"}).
		AddRow("fx-1", "ev-1", "CSE", "ECE", "not-a-time", time.Now(), "", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM fixtures").WillReturnRows(rows)

	if _, err := repo.ListFixtures(context.Background(), "ev-1"); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

func TestListWinners_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"id", "event_id", "position", "department_id", "points", "created_at"}).
		AddRow("w-1", "ce-1", "first", "CSE", 10.0, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM cultural_winners").WillReturnRows(rows)

	if _, err := repo.ListWinners(context.Background(), "ce-1"); err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

func TestAllSettings_ScanError(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"key"}).AddRow("site_title")
	mock.ExpectQuery("SELECT key, value FROM settings").WillReturnRows(rows)

	if _, err := repo.AllSettings(context.Background()); err == nil {
		t.Error("expected error from column mismatch, got nil")
	}
}

// TestUpdateScore_RowsAffectedError covers a driver that cannot report affected rows
func TestUpdateScore_RowsAffectedError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE scores").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unavailable")))

	err := repo.UpdateScore(context.Background(), "ev-1", "CSE", 1, 0, 0, 1, 3, nil)
	if err == nil || err == ErrNotFound {
		t.Errorf("expected rows affected error, got %v", err)
	}
}

func TestUpdateScore_ZeroRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE scores").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateScore(context.Background(), "ev-1", "CSE", 1, 0, 0, 1, 3, nil); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSportEvent_ScoreInsertFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sport_events").WillReturnResult(sqlmock.NewResult(1, 1))
	prep := mock.ExpectPrepare("INSERT INTO scores")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	e := newSportEvent("ev-1")
	if err := repo.CreateSportEvent(context.Background(), e, []string{"CSE", "ECE"}); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateDepartment_BeginError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("busy"))

	if _, err := repo.CreateDepartment(context.Background(), testDepartment()); err == nil {
		t.Error("expected begin error, got nil")
	}
}

func TestCreateDepartment_BackfillErrorRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO departments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO scores").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if _, err := repo.CreateDepartment(context.Background(), testDepartment()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetSetting_ExecError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO settings").WillReturnError(errors.New("read-only"))

	if err := repo.SetSetting(context.Background(), "site_title", "x"); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestPostgresDialect_RebindsPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()
	repo := &Repository{db: db, dialect: Postgres}

	mock.ExpectQuery(`SELECT value FROM settings WHERE key = $1`).
		WithArgs("site_title").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("Fest"))

	v, err := repo.GetSetting(context.Background(), "site_title")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if v != "Fest" {
		t.Errorf("expected Fest, got %q", v)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"sqlite untouched", SQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{"postgres numbered", Postgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{"postgres no params", Postgres, "SELECT 1", "SELECT 1"},
		{"postgres cast", Postgres, "SELECT CAST(? AS TIMESTAMP)", "SELECT CAST($1 AS TIMESTAMP)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rebind(tt.dialect, tt.in); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"sqlite unique", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, ErrDuplicate},
		{"sqlite primary key", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, ErrDuplicate},
		{"postgres unique", &pq.Error{Code: "23505"}, ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.err); got != tt.want {
				t.Errorf("translate() = %v, want %v", got, tt.want)
			}
		})
	}

	fk := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}
	if got := translate(fk); got == ErrDuplicate {
		t.Error("foreign key violation must not map to ErrDuplicate")
	}
	other := &pq.Error{Code: "23503"}
	if got := translate(other); got == ErrDuplicate {
		t.Error("postgres foreign key violation must not map to ErrDuplicate")
	}
}
