package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBSQLiteCreatesSchema(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, SQLite, db.Dialect)
	assert.True(t, db.Healthy(context.Background()))

	// migration is idempotent
	require.NoError(t, db.migrate(context.Background()))
}

func TestUniqueConstraintsAreDetected(t *testing.T) {
	db, err := NewDB("sqlite://" + filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	_, err = db.Client.ExecContext(ctx, `INSERT INTO students (name, roll_no) VALUES ('A', '1')`)
	require.NoError(t, err)
	_, err = db.Client.ExecContext(ctx, `INSERT INTO students (name, roll_no) VALUES ('B', '1')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	_, err = db.Client.ExecContext(ctx,
		`INSERT INTO attendance (student_id, date, snacks_taken, recorded_at) VALUES (1, '2024-01-01', 1, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	_, err = db.Client.ExecContext(ctx,
		`INSERT INTO attendance (student_id, date, snacks_taken, recorded_at) VALUES (1, '2024-01-01', 1, CURRENT_TIMESTAMP)`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("disk full")))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestNilHandlesAreSafe(t *testing.T) {
	var db *DB
	assert.False(t, db.Healthy(context.Background()))
	assert.NoError(t, db.Close())

	r := NewRedis("")
	assert.Nil(t, r)
	assert.False(t, r.Healthy(context.Background()))
	assert.NoError(t, r.Close())
}
