package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodlestats/moodle-stats-api/internal/models"
	appErrors "github.com/moodlestats/moodle-stats-api/pkg/errors"
)

type fakeExportReports struct {
	weekly  *models.WeeklyReport
	never   *models.NeverAccessedUsers
	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeExportReports) Weekly(ctx context.Context, courseID, groupID int64, from, to time.Time) (*models.WeeklyReport, bool, error) {
	f.gotFrom = from
	f.gotTo = to
	return f.weekly, false, nil
}

func (f *fakeExportReports) NeverAccessed(ctx context.Context, courseID, groupID, boundaryID int64) (*models.NeverAccessedUsers, bool, error) {
	return f.never, false, nil
}

func exportFixtures() *fakeExportReports {
	return &fakeExportReports{
		weekly: &models.WeeklyReport{
			CohortSize: 2,
			Weeks: []models.WeekSample{
				{Label: "2024-01-01 → 2024-01-07", NeverCount: 2, BoundaryID: 1704671999},
				{Label: "2024-01-08 → 2024-01-14", NeverCount: 1, BoundaryID: 1705276799},
			},
		},
		never: &models.NeverAccessedUsers{
			WeekLabel: "2024-01-01 → 2024-01-07",
			Users: []models.MoodleUser{
				{ID: 2, Username: "bperez", FirstName: "Beto", LastName: "Perez", Email: "beto@example.com"},
			},
		},
	}
}

func TestExportServiceWeeklyReportCSV(t *testing.T) {
	reports := exportFixtures()
	svc := NewExportService(reports)

	download, err := svc.WeeklyReport(context.Background(), 100, 7, day(2024, time.January, 1), day(2024, time.January, 14), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "no_access_weekly_100_7.csv", download.Filename)
	assert.Equal(t, "text/csv", download.ContentType)

	want := "week_start,week_end,never_count,cohort_size\n" +
		"2024-01-01,2024-01-07,2,2\n" +
		"2024-01-08,2024-01-14,1,2\n"
	assert.Equal(t, want, string(download.Data))
}

func TestExportServiceWeeklyReportSwapsReversedBounds(t *testing.T) {
	reports := exportFixtures()
	svc := NewExportService(reports)

	_, err := svc.WeeklyReport(context.Background(), 100, 7, day(2024, time.January, 14), day(2024, time.January, 1), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.January, 1), reports.gotFrom)
	assert.Equal(t, day(2024, time.January, 14), reports.gotTo)
}

func TestExportServiceWeeklyReportDefaultsToCSV(t *testing.T) {
	svc := NewExportService(exportFixtures())

	download, err := svc.WeeklyReport(context.Background(), 100, 7, day(2024, time.January, 1), day(2024, time.January, 14), "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", download.ContentType)
}

func TestExportServiceNeverAccessedUsersCSV(t *testing.T) {
	svc := NewExportService(exportFixtures())

	download, err := svc.NeverAccessedUsers(context.Background(), 100, 7, 1704671999, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "never_users_100_7_1704671999.csv", download.Filename)

	want := "username,firstname,lastname,email\n" +
		"bperez,Beto,Perez,beto@example.com\n"
	assert.Equal(t, want, string(download.Data))
}

func TestExportServiceWeeklyReportPDF(t *testing.T) {
	svc := NewExportService(exportFixtures())

	download, err := svc.WeeklyReport(context.Background(), 100, 7, day(2024, time.January, 1), day(2024, time.January, 14), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "no_access_weekly_100_7.pdf", download.Filename)
	assert.Equal(t, "application/pdf", download.ContentType)
	require.Greater(t, len(download.Data), 4)
	assert.Equal(t, "%PDF", string(download.Data[:4]))
}

func TestExportServiceUnsupportedFormat(t *testing.T) {
	svc := NewExportService(exportFixtures())

	_, err := svc.WeeklyReport(context.Background(), 100, 7, day(2024, time.January, 1), day(2024, time.January, 14), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
