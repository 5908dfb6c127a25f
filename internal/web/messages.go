package web

import (
	"fmt"

	"messattendance/internal/attendance"
)

const (
	msgLoginRequired = "Please login as admin."
	msgBadHeader     = "CSV must have headers: name, roll_no, hostel, batch"
)

// checkInMessage turns a check-in outcome into front-desk text and severity.
func checkInMessage(res attendance.CheckIn) (category, message string) {
	switch res.Outcome {
	case attendance.Marked:
		return Success, fmt.Sprintf("Marked: %s (%s)", res.Student.Name, res.Student.RollNo)
	case attendance.AlreadyMarked:
		return Warning, fmt.Sprintf("Already marked today for %s (%s).", res.Student.Name, res.Student.RollNo)
	case attendance.NotFound:
		return Danger, fmt.Sprintf("No student found with Roll No %s.", res.RollNo)
	default:
		return Danger, "Please enter a Roll No."
	}
}
