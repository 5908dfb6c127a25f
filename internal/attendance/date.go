package attendance

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date used for mess days.
const DateLayout = "2006-01-02"

// Day returns the local calendar date of t.
func Day(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ParseDate validates s as a YYYY-MM-DD date and returns it normalised.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t.Format(DateLayout), nil
}
