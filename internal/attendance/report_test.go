package attendance

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailySummary(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedStudents(t, repo, "1", "2", "3")
	checkins := NewCheckInService(repo)
	reports := NewReportService(repo)
	ctx := context.Background()

	for _, roll := range []string{"1", "2", "2"} {
		_, err := checkins.MarkAttendance(ctx, roll, "2024-01-01")
		require.NoError(t, err)
	}

	sum, err := reports.DailySummary(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Taken: 2}, sum)

	sum, err = reports.DailySummary(ctx, "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 3, Taken: 0}, sum)
}

func TestRecentDailyCounts(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedStudents(t, repo, "1", "2")
	checkins := NewCheckInService(repo)
	reports := NewReportService(repo)
	ctx := context.Background()

	days := []string{"2024-01-03", "2024-01-01", "2024-01-02"}
	for i, day := range days {
		_, err := checkins.MarkAttendance(ctx, "1", day)
		require.NoError(t, err)
		if i == 0 {
			_, err = checkins.MarkAttendance(ctx, "2", day)
			require.NoError(t, err)
		}
	}

	counts, err := reports.RecentDailyCounts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []DailyCount{
		{Date: "2024-01-03", Count: 2},
		{Date: "2024-01-02", Count: 1},
		{Date: "2024-01-01", Count: 1},
	}, counts)

	counts, err = reports.RecentDailyCounts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "2024-01-02", counts[1].Date)
}

func TestRecentDailyCountsCapsAtFourteen(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedStudents(t, repo, "1")
	checkins := NewCheckInService(repo)
	ctx := context.Background()

	for day := 1; day <= 20; day++ {
		date := fmt.Sprintf("2024-02-%02d", day)
		_, err := checkins.MarkAttendance(ctx, "1", date)
		require.NoError(t, err)
	}
	counts, err := NewReportService(repo).RecentDailyCounts(ctx, DefaultRecentDays)
	require.NoError(t, err)
	require.Len(t, counts, DefaultRecentDays)
	assert.Equal(t, "2024-02-20", counts[0].Date)
	assert.Equal(t, "2024-02-07", counts[13].Date)
}

func TestPresenceReport(t *testing.T) {
	repo, _ := newTestRepo(t)
	seedStudents(t, repo, "10", "2", "1")
	checkins := NewCheckInService(repo)
	reports := NewReportService(repo)
	ctx := context.Background()

	_, err := checkins.MarkAttendance(ctx, "2", "2024-01-01")
	require.NoError(t, err)
	_, err = checkins.MarkAttendance(ctx, "10", "2024-01-02")
	require.NoError(t, err)

	rows, err := reports.PresenceReport(ctx, "2024-01-01")
	require.NoError(t, err)

	students, err := repo.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, rows, len(students))

	var rolls []string
	taken := map[string]bool{}
	for _, r := range rows {
		rolls = append(rolls, r.RollNo)
		taken[r.RollNo] = r.Taken
	}
	assert.Equal(t, []string{"1", "2", "10"}, rolls)
	assert.Equal(t, map[string]bool{"1": false, "2": true, "10": false}, taken)
}

func TestExportCSV(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.InsertStudent(ctx, &Student{Name: "Alice", RollNo: "1", Hostel: "H1", Batch: "B1"}))
	require.NoError(t, repo.InsertStudent(ctx, &Student{Name: "Bob, Jr.", RollNo: "2", Hostel: "H2", Batch: "B2"}))
	_, err := NewCheckInService(repo).MarkAttendance(ctx, "1", "2024-01-01")
	require.NoError(t, err)

	out, err := NewReportService(repo).ExportCSV(ctx, "2024-01-01")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "roll_no,name,hostel,batch,snacks_taken,date", lines[0])
	assert.Equal(t, "1,Alice,H1,B1,1,2024-01-01", lines[1])
	assert.Equal(t, `2,"Bob, Jr.",H2,B2,0,2024-01-01`, lines[2])
}
