package attendance

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"messattendance/internal/store"
)

func newTestRepo(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	db, err := store.NewDB(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db.Client), db.Client
}

func seedStudents(t *testing.T, repo *Repository, rolls ...string) {
	t.Helper()
	for _, roll := range rolls {
		st := &Student{Name: "Student " + roll, RollNo: roll, Hostel: "H1", Batch: "B1"}
		require.NoError(t, repo.InsertStudent(context.Background(), st))
	}
}

func countRecords(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM attendance`).Scan(&n))
	return n
}
