package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL backend behind a DB.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB wraps sql.DB for either Postgres (pgx) or SQLite.
type DB struct {
	Client  *sql.DB
	Dialect Dialect
}

// NewDB opens the database named by url and applies the schema.
// postgres:// and postgresql:// URLs use pgx; anything else is a SQLite file path,
// optionally prefixed with sqlite://.
func NewDB(url string) (*DB, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		dialect = Postgres
		db, err = sql.Open("pgx", url)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	default:
		dialect = SQLite
		path := strings.TrimPrefix(url, "sqlite://")
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		db, err = sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{Client: db, Dialect: dialect}
	if err := d.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

var schemas = map[Dialect][]string{
	Postgres: {
		`CREATE TABLE IF NOT EXISTS students (
			id       BIGSERIAL PRIMARY KEY,
			name     TEXT NOT NULL,
			roll_no  TEXT NOT NULL UNIQUE,
			hostel   TEXT NOT NULL DEFAULT '',
			batch    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id           BIGSERIAL PRIMARY KEY,
			student_id   BIGINT NOT NULL REFERENCES students(id),
			date         TEXT NOT NULL,
			snacks_taken BOOLEAN NOT NULL DEFAULT TRUE,
			recorded_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS students (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT NOT NULL,
			roll_no  TEXT NOT NULL UNIQUE,
			hostel   TEXT NOT NULL DEFAULT '',
			batch    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS attendance (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id   INTEGER NOT NULL REFERENCES students(id),
			date         TEXT NOT NULL,
			snacks_taken INTEGER NOT NULL DEFAULT 1,
			recorded_at  TIMESTAMP NOT NULL,
			UNIQUE (student_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date)`,
	},
}

func (d *DB) migrate(ctx context.Context) error {
	for _, stmt := range schemas[d.Dialect] {
		if _, err := d.Client.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Healthy reports whether the database answers a ping.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	return d.Client.PingContext(ctx) == nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure from
// either backend.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
