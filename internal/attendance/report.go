package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
)

// DefaultRecentDays is how many days RecentDailyCounts returns by default.
const DefaultRecentDays = 14

var exportHeader = []string{"roll_no", "name", "hostel", "batch", "snacks_taken", "date"}

// ReportService answers the admin's aggregate questions.
type ReportService struct {
	repo *Repository
}

// NewReportService creates a report service.
func NewReportService(repo *Repository) *ReportService {
	return &ReportService{repo: repo}
}

// DailySummary returns the roster size and the number of distinct students
// checked in on date.
func (s *ReportService) DailySummary(ctx context.Context, date string) (Summary, error) {
	total, err := s.repo.CountStudents(ctx)
	if err != nil {
		return Summary{}, err
	}
	taken, err := s.repo.CountTaken(ctx, date)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Total: total, Taken: taken}, nil
}

// RecentDailyCounts returns up to limit per-day totals, newest first.
func (s *ReportService) RecentDailyCounts(ctx context.Context, limit int) ([]DailyCount, error) {
	if limit <= 0 {
		limit = DefaultRecentDays
	}
	return s.repo.DailyCounts(ctx, limit)
}

// PresenceReport lists every student once with whether they checked in on date.
func (s *ReportService) PresenceReport(ctx context.Context, date string) ([]PresenceRow, error) {
	return s.repo.Presence(ctx, date)
}

// ExportCSV renders the presence report for date as CSV.
func (s *ReportService) ExportCSV(ctx context.Context, date string) ([]byte, error) {
	rows, err := s.repo.Presence(ctx, date)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, date, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes rows with the export header. The date column carries the
// report date on every row.
func WriteCSV(w io.Writer, date string, rows []PresenceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		taken := "0"
		if r.Taken {
			taken = "1"
		}
		if err := cw.Write([]string{r.RollNo, r.Name, r.Hostel, r.Batch, taken, date}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
