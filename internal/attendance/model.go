package attendance

import (
	"errors"
	"time"
)

// Student is a registered member of the mess roster.
type Student struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	RollNo string `json:"roll_no"`
	Hostel string `json:"hostel"`
	Batch  string `json:"batch"`
}

// Record is one check-in of a student for a mess day.
type Record struct {
	ID          int64     `json:"id"`
	StudentID   int64     `json:"student_id"`
	Date        string    `json:"date"`
	SnacksTaken bool      `json:"snacks_taken"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Summary holds the headline counts for one day.
type Summary struct {
	Total int `json:"total"`
	Taken int `json:"taken"`
}

// DailyCount is the number of check-ins recorded on Date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// PresenceRow is one roster entry of a presence report.
type PresenceRow struct {
	RollNo string `json:"roll_no"`
	Name   string `json:"name"`
	Hostel string `json:"hostel"`
	Batch  string `json:"batch"`
	Taken  bool   `json:"taken"`
}

// ImportSummary counts the outcome of a CSV roster import.
type ImportSummary struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

var (
	ErrMissingInput  = errors.New("name and roll number are required")
	ErrDuplicateRoll = errors.New("roll number already exists")
	ErrInvalidFormat = errors.New("csv must have headers: name, roll_no, hostel, batch")

	// errAlreadyRecorded is returned by the repository when (student, date)
	// already has a record.
	errAlreadyRecorded = errors.New("attendance already recorded")
)
