package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/moodlestats/moodle-stats-api/internal/models"
	appErrors "github.com/moodlestats/moodle-stats-api/pkg/errors"
	"github.com/moodlestats/moodle-stats-api/pkg/export"
)

// Export formats accepted by the download endpoints.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// Download is a rendered export ready to stream to the client.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

type exportReportService interface {
	Weekly(ctx context.Context, courseID, groupID int64, from, to time.Time) (*models.WeeklyReport, bool, error)
	NeverAccessed(ctx context.Context, courseID, groupID, boundaryID int64) (*models.NeverAccessedUsers, bool, error)
}

// ExportService renders report payloads into downloadable CSV or PDF files.
type ExportService struct {
	reports exportReportService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewExportService constructs the export service.
func NewExportService(reports exportReportService) *ExportService {
	return &ExportService{
		reports: reports,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// WeeklyReport renders the weekly series as a file. Reversed bounds are
// swapped rather than rejected: the download links predate the stricter
// range handling of the JSON endpoint and old bookmarks still carry them.
func (s *ExportService) WeeklyReport(ctx context.Context, courseID, groupID int64, from, to time.Time, format string) (*Download, error) {
	if from.After(to) {
		from, to = to, from
	}

	report, _, err := s.reports.Weekly(ctx, courseID, groupID, from, to)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"week_start", "week_end", "never_count", "cohort_size"},
		Rows:    make([][]string, 0, len(report.Weeks)),
	}
	for _, week := range report.Weeks {
		weekStart, weekEnd := splitWeekLabel(week.Label)
		dataset.Rows = append(dataset.Rows, []string{
			weekStart,
			weekEnd,
			strconv.Itoa(week.NeverCount),
			strconv.Itoa(report.CohortSize),
		})
	}

	filename := fmt.Sprintf("no_access_weekly_%d_%d", courseID, groupID)
	title := "Weekly non-access report"
	return s.render(dataset, filename, title, format)
}

// NeverAccessedUsers renders the drill-down user list as a file.
func (s *ExportService) NeverAccessedUsers(ctx context.Context, courseID, groupID, boundaryID int64, format string) (*Download, error) {
	result, _, err := s.reports.NeverAccessed(ctx, courseID, groupID, boundaryID)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"username", "firstname", "lastname", "email"},
		Rows:    make([][]string, 0, len(result.Users)),
	}
	for _, user := range result.Users {
		dataset.Rows = append(dataset.Rows, []string{
			user.Username,
			user.FirstName,
			user.LastName,
			user.Email,
		})
	}

	filename := fmt.Sprintf("never_users_%d_%d_%d", courseID, groupID, boundaryID)
	title := "Users without access " + result.WeekLabel
	return s.render(dataset, filename, title, format)
}

func (s *ExportService) render(dataset export.Dataset, filename, title, format string) (*Download, error) {
	switch format {
	case ExportFormatCSV, "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, fmt.Errorf("render csv: %w", err)
		}
		return &Download{Filename: filename + ".csv", ContentType: "text/csv", Data: data}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &Download{Filename: filename + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

func splitWeekLabel(label string) (string, string) {
	parts := strings.SplitN(label, " → ", 2)
	if len(parts) != 2 {
		return label, ""
	}
	return parts[0], parts[1]
}
