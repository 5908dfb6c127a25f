package attendance

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// importColumns must all be present in an import header, in any order and case.
var importColumns = []string{"name", "roll_no", "hostel", "batch"}

// RosterService manages the student list.
type RosterService struct {
	repo *Repository
}

// NewRosterService creates a roster service.
func NewRosterService(repo *Repository) *RosterService {
	return &RosterService{repo: repo}
}

// AddStudent registers one student. Name and roll number are required; a roll
// number that already exists yields ErrDuplicateRoll.
func (s *RosterService) AddStudent(ctx context.Context, name, rollNo, hostel, batch string) (Student, error) {
	st := Student{
		Name:   strings.TrimSpace(name),
		RollNo: strings.TrimSpace(rollNo),
		Hostel: strings.TrimSpace(hostel),
		Batch:  strings.TrimSpace(batch),
	}
	if st.Name == "" || st.RollNo == "" {
		return Student{}, ErrMissingInput
	}
	if err := s.repo.InsertStudent(ctx, &st); err != nil {
		return Student{}, err
	}
	return st, nil
}

// ListStudents returns the roster in roll order.
func (s *RosterService) ListStudents(ctx context.Context) ([]Student, error) {
	return s.repo.ListStudents(ctx)
}

// ImportStudents adds students from CSV content one row at a time.
//
// The header is checked before any row is read; a header without all of
// name, roll_no, hostel and batch rejects the whole file with ErrInvalidFormat.
// Rows lacking a name or roll number, and rows whose roll number already
// exists, are skipped. Rows inserted before a later failure stay inserted, and
// the returned summary counts them.
func (s *RosterService) ImportStudents(ctx context.Context, r io.Reader) (ImportSummary, error) {
	var sum ImportSummary

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return sum, ErrInvalidFormat
		}
		return sum, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	for _, c := range importColumns {
		if _, ok := cols[c]; !ok {
			return sum, ErrInvalidFormat
		}
	}

	field := func(rec []string, name string) string {
		if i := cols[name]; i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return sum, nil
		}
		if err != nil {
			return sum, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}

		st := Student{
			Name:   field(rec, "name"),
			RollNo: field(rec, "roll_no"),
			Hostel: field(rec, "hostel"),
			Batch:  field(rec, "batch"),
		}
		if st.Name == "" || st.RollNo == "" {
			sum.Skipped++
			continue
		}
		switch err := s.repo.InsertStudent(ctx, &st); {
		case err == nil:
			sum.Added++
		case errors.Is(err, ErrDuplicateRoll):
			sum.Skipped++
		default:
			line, _ := cr.FieldPos(0)
			return sum, fmt.Errorf("import line %d: %w", line, err)
		}
	}
}
