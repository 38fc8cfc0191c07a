package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodlestats/moodle-stats-api/internal/dto"
	"github.com/moodlestats/moodle-stats-api/internal/middleware"
	"github.com/moodlestats/moodle-stats-api/internal/models"
	"github.com/moodlestats/moodle-stats-api/internal/service"
	appErrors "github.com/moodlestats/moodle-stats-api/pkg/errors"
	"github.com/moodlestats/moodle-stats-api/pkg/response"
)

const dateParamFormat = "2006-01-02"

type reportService interface {
	Weekly(ctx context.Context, courseID, groupID int64, from, to time.Time) (*models.WeeklyReport, bool, error)
	NeverAccessed(ctx context.Context, courseID, groupID, boundaryID int64) (*models.NeverAccessedUsers, bool, error)
}

type reportExportService interface {
	WeeklyReport(ctx context.Context, courseID, groupID int64, from, to time.Time, format string) (*service.Download, error)
	NeverAccessedUsers(ctx context.Context, courseID, groupID, boundaryID int64, format string) (*service.Download, error)
}

// ReportHandler wires the weekly non-access report to HTTP endpoints.
type ReportHandler struct {
	service      reportService
	exports      reportExportService
	defaultRange time.Duration
	now          func() time.Time
}

// NewReportHandler constructs the handler.
func NewReportHandler(svc reportService, exports reportExportService, defaultRange time.Duration) *ReportHandler {
	if defaultRange <= 0 {
		defaultRange = 30 * 24 * time.Hour
	}
	return &ReportHandler{service: svc, exports: exports, defaultRange: defaultRange, now: time.Now}
}

// Weekly godoc
// @Summary Weekly non-access report for a course group
// @Tags Reports
// @Produce json
// @Param courseId query int true "Course ID"
// @Param groupId query int true "Group ID (must belong to the course)"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.WeeklyReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	courseID, groupID, err := h.parseCohortParams(query.CourseID, query.GroupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	from, to, err := h.parseRange(query.From, query.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	start := time.Now()
	report, cacheHit, svcErr := h.service.Weekly(c.Request.Context(), courseID, groupID, from, to)
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, report, meta)
}

// NeverAccessed godoc
// @Summary Users still without access at one week boundary
// @Tags Reports
// @Produce json
// @Param courseId query int true "Course ID"
// @Param groupId query int true "Group ID (must belong to the course)"
// @Param end query int true "Week boundary identifier from the weekly series"
// @Success 200 {object} response.Envelope
// @Router /reports/weekly/never [get]
func (h *ReportHandler) NeverAccessed(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.NeverAccessedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	courseID, groupID, err := h.parseCohortParams(query.CourseID, query.GroupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	boundaryID, err := parseIDParam(query.End, "end")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, cacheHit, svcErr := h.service.NeverAccessed(c.Request.Context(), courseID, groupID, boundaryID)
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// ExportWeekly godoc
// @Summary Download the weekly non-access report
// @Tags Reports
// @Produce text/csv
// @Param courseId query int true "Course ID"
// @Param groupId query int true "Group ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /reports/weekly/export [get]
func (h *ReportHandler) ExportWeekly(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.WeeklyReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	courseID, groupID, err := h.parseCohortParams(query.CourseID, query.GroupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	from, to, err := h.parseRange(query.From, query.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	download, svcErr := h.exports.WeeklyReport(c.Request.Context(), courseID, groupID, from, to, strings.TrimSpace(query.Format))
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	serveDownload(c, download)
}

// ExportNeverAccessed godoc
// @Summary Download the never-accessed user list for a week boundary
// @Tags Reports
// @Produce text/csv
// @Param courseId query int true "Course ID"
// @Param groupId query int true "Group ID"
// @Param end query int true "Week boundary identifier"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /reports/weekly/never/export [get]
func (h *ReportHandler) ExportNeverAccessed(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.NeverAccessedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	courseID, groupID, err := h.parseCohortParams(query.CourseID, query.GroupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	boundaryID, err := parseIDParam(query.End, "end")
	if err != nil {
		response.Error(c, err)
		return
	}

	download, svcErr := h.exports.NeverAccessedUsers(c.Request.Context(), courseID, groupID, boundaryID, strings.TrimSpace(query.Format))
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	serveDownload(c, download)
}

func (h *ReportHandler) parseCohortParams(rawCourseID, rawGroupID string) (int64, int64, error) {
	courseID, err := parseIDParam(rawCourseID, "courseId")
	if err != nil {
		return 0, 0, err
	}
	groupID, err := parseIDParam(rawGroupID, "groupId")
	if err != nil {
		return 0, 0, err
	}
	return courseID, groupID, nil
}

// parseRange resolves the inclusive report range. When both bounds are
// absent the panel defaults to the trailing window ending today; a single
// bound on its own is rejected.
func (h *ReportHandler) parseRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	rawFrom = strings.TrimSpace(rawFrom)
	rawTo = strings.TrimSpace(rawTo)

	if rawFrom == "" && rawTo == "" {
		to := h.now().UTC()
		return to.Add(-h.defaultRange), to, nil
	}
	if rawFrom == "" || rawTo == "" {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "from and to must be provided together")
	}

	from, err := time.ParseInLocation(dateParamFormat, rawFrom, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(dateParamFormat, rawTo, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid to date, expected YYYY-MM-DD")
	}
	return from, to, nil
}

func parseIDParam(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}

func serveDownload(c *gin.Context, download *service.Download) {
	c.Header("Content-Disposition", `attachment; filename="`+download.Filename+`"`)
	c.Data(http.StatusOK, download.ContentType, download.Data)
}
