package attendance

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Outcome is the result of a check-in attempt. Only storage failures are
// reported as errors; every Outcome is a normal answer for the front desk.
type Outcome int

const (
	Marked Outcome = iota + 1
	AlreadyMarked
	NotFound
	MissingInput
)

func (o Outcome) String() string {
	switch o {
	case Marked:
		return "marked"
	case AlreadyMarked:
		return "already_marked"
	case NotFound:
		return "not_found"
	case MissingInput:
		return "missing_input"
	default:
		return "unknown"
	}
}

// CheckIn describes what happened to one check-in attempt.
type CheckIn struct {
	Outcome Outcome
	RollNo  string
	Date    string
	// Student is set for Marked and AlreadyMarked.
	Student *Student
}

// CheckInService records daily snack check-ins.
type CheckInService struct {
	repo *Repository
	now  func() time.Time
}

// NewCheckInService creates a service backed by a repository.
func NewCheckInService(repo *Repository) *CheckInService {
	return &CheckInService{repo: repo, now: time.Now}
}

// MarkAttendance records that the student with rollNo took snacks on date
// (today when empty). Repeating the call for the same roll and date, even
// concurrently, leaves exactly one record and answers AlreadyMarked.
func (s *CheckInService) MarkAttendance(ctx context.Context, rollNo, date string) (CheckIn, error) {
	now := s.now()
	res := CheckIn{RollNo: strings.TrimSpace(rollNo), Date: date}
	if res.Date == "" {
		res.Date = Day(now)
	}
	if res.RollNo == "" {
		res.Outcome = MissingInput
		return res, nil
	}

	st, err := s.repo.StudentByRoll(ctx, res.RollNo)
	if err != nil {
		return CheckIn{}, err
	}
	if st == nil {
		res.Outcome = NotFound
		return res, nil
	}
	res.Student = st

	rec := &Record{StudentID: st.ID, Date: res.Date, SnacksTaken: true, RecordedAt: now}
	switch err := s.repo.InsertRecord(ctx, rec); {
	case err == nil:
		res.Outcome = Marked
	case errors.Is(err, errAlreadyRecorded):
		res.Outcome = AlreadyMarked
	default:
		return CheckIn{}, err
	}
	return res, nil
}
