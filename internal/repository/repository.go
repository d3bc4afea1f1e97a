package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect is the SQL flavour of the underlying database.
type Dialect int

const (
	// SQLite is the zero value so a bare &Repository{db: db} behaves like sqlite.
	SQLite Dialect = iota
	Postgres
)

// Repository provides data access methods
type Repository struct {
	db      *sql.DB
	dialect Dialect
}

// New opens a sqlite database at dbPath and migrates it.
func New(dbPath string) (*Repository, error) {
	return Open("sqlite3", dbPath)
}

// Open connects using driver ("sqlite3" or "postgres") and migrates.
func Open(driver, dsn string) (*Repository, error) {
	var dialect Dialect
	switch driver {
	case "sqlite3":
		dialect = SQLite
	case "postgres":
		dialect = Postgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if dialect == SQLite {
		// Enable foreign key constraints
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
		// SQLite works best with single connection, and :memory: needs it
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
	}

	repo := &Repository{db: db, dialect: dialect}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Dialect reports which SQL flavour the repository speaks.
func (r *Repository) Dialect() Dialect {
	return r.dialect
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS departments (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sport_events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			gender TEXT NOT NULL,
			venue TEXT NOT NULL DEFAULT '',
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP NOT NULL,
			solo BOOLEAN NOT NULL DEFAULT FALSE,
			additional_data_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			event_id TEXT NOT NULL REFERENCES sport_events(id) ON DELETE CASCADE,
			department_id TEXT NOT NULL REFERENCES departments(id),
			wins INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			draws INTEGER NOT NULL DEFAULT 0,
			matches INTEGER NOT NULL DEFAULT 0,
			points DOUBLE PRECISION NOT NULL DEFAULT 0,
			additional_data_value DOUBLE PRECISION,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (event_id, department_id)
		)`,
		`CREATE TABLE IF NOT EXISTS fixtures (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL REFERENCES sport_events(id) ON DELETE CASCADE,
			department_1 TEXT NOT NULL REFERENCES departments(id),
			department_2 TEXT NOT NULL REFERENCES departments(id),
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP NOT NULL,
			score TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cultural_events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			venue TEXT NOT NULL DEFAULT '',
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP NOT NULL,
			solo BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS cultural_winners (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL REFERENCES cultural_events(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			department_id TEXT NOT NULL REFERENCES departments(id),
			points DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (event_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_department ON scores(department_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fixtures_event ON fixtures(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_winners_event ON cultural_winners(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_winners_department ON cultural_winners(department_id)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// rebind rewrites '?' placeholders into the dialect's form. Queries in this
// package never contain a literal '?'.
func (r *Repository) rebind(query string) string {
	return Rebind(r.dialect, query)
}

// Rebind rewrites '?' placeholders for dialect.
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// timestampParam is a placeholder usable where postgres cannot infer a type.
func (r *Repository) timestampParam() string {
	if r.dialect == Postgres {
		return "CAST(? AS TIMESTAMP)"
	}
	return "?"
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn in a transaction, rolling back on error.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// execOne runs a statement that must touch exactly one row.
func (r *Repository) execOne(ctx context.Context, ex execer, query string, args ...any) error {
	res, err := ex.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// translate maps driver constraint errors to repository errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func isUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func now() time.Time {
	return time.Now().UTC()
}
