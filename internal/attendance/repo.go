package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"messattendance/internal/store"
)

// Repository persists students and attendance records.
//
// Queries use $n placeholders in ascending order of first use so the same
// text runs on Postgres and SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertStudent writes a new student and fills in its ID.
// A taken roll number yields ErrDuplicateRoll.
func (r *Repository) InsertStudent(ctx context.Context, st *Student) error {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (name, roll_no, hostel, batch)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, st.Name, st.RollNo, st.Hostel, st.Batch)
	if err := row.Scan(&st.ID); err != nil {
		if store.IsUniqueViolation(err) {
			return ErrDuplicateRoll
		}
		return fmt.Errorf("insert student %s: %w", st.RollNo, err)
	}
	return nil
}

// StudentByRoll returns the student with rollNo, or nil when there is none.
func (r *Repository) StudentByRoll(ctx context.Context, rollNo string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, roll_no, hostel, batch
		FROM students WHERE roll_no = $1
	`, rollNo)
	var st Student
	if err := row.Scan(&st.ID, &st.Name, &st.RollNo, &st.Hostel, &st.Batch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup student %s: %w", rollNo, err)
	}
	return &st, nil
}

// ListStudents returns the whole roster in roll order.
func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, roll_no, hostel, batch FROM students`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var st Student
		if err := rows.Scan(&st.ID, &st.Name, &st.RollNo, &st.Hostel, &st.Batch); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortStudents(students)
	return students, nil
}

// InsertRecord writes a check-in. The UNIQUE(student_id, date) constraint is
// the only duplicate guard; a violation yields errAlreadyRecorded.
func (r *Repository) InsertRecord(ctx context.Context, rec *Record) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (student_id, date, snacks_taken, recorded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, rec.StudentID, rec.Date, rec.SnacksTaken, rec.RecordedAt)
	if err := row.Scan(&rec.ID); err != nil {
		if store.IsUniqueViolation(err) {
			return errAlreadyRecorded
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

// CountStudents returns the roster size.
func (r *Repository) CountStudents(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}

// CountTaken returns how many distinct students checked in on date.
func (r *Repository) CountTaken(ctx context.Context, date string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT student_id) FROM attendance WHERE date = $1`, date,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attendance on %s: %w", date, err)
	}
	return n, nil
}

// DailyCounts returns per-day check-in counts, most recent day first.
func (r *Repository) DailyCounts(ctx context.Context, limit int) ([]DailyCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, COUNT(*)
		FROM attendance
		GROUP BY date
		ORDER BY date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	var res []DailyCount
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		res = append(res, dc)
	}
	return res, rows.Err()
}

// Presence left-joins the roster against the records of date so that every
// student appears exactly once.
func (r *Repository) Presence(ctx context.Context, date string) ([]PresenceRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.roll_no, s.name, s.hostel, s.batch,
		       CASE WHEN a.id IS NULL THEN 0 ELSE 1 END AS taken
		FROM students s
		LEFT JOIN attendance a
		  ON a.student_id = s.id AND a.date = $1
	`, date)
	if err != nil {
		return nil, fmt.Errorf("presence on %s: %w", date, err)
	}
	defer rows.Close()

	var res []PresenceRow
	for rows.Next() {
		var (
			pr    PresenceRow
			taken int
		)
		if err := rows.Scan(&pr.RollNo, &pr.Name, &pr.Hostel, &pr.Batch, &taken); err != nil {
			return nil, err
		}
		pr.Taken = taken == 1
		res = append(res, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortPresence(res)
	return res, nil
}
