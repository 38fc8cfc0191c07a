package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodlestats/moodle-stats-api/internal/middleware"
	"github.com/moodlestats/moodle-stats-api/internal/models"
	appErrors "github.com/moodlestats/moodle-stats-api/pkg/errors"
	"github.com/moodlestats/moodle-stats-api/pkg/response"
)

type catalogService interface {
	Courses(ctx context.Context, search string) ([]models.Course, bool, error)
	Groups(ctx context.Context, courseID int64) ([]models.Group, error)
}

// CatalogHandler serves the course and group pickers of the panel.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Courses godoc
// @Summary Browsable courses for the reporting panel
// @Tags Catalog
// @Produce json
// @Param q query string false "Search over shortname/fullname"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) Courses(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	search := strings.TrimSpace(c.Query("q"))

	start := time.Now()
	courses, cacheHit, err := h.service.Courses(c.Request.Context(), search)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, courses, meta)
}

// Groups godoc
// @Summary Groups of one course
// @Tags Catalog
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/groups [get]
func (h *CatalogHandler) Groups(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	courseID, err := parseIDParam(c.Param("id"), "course id")
	if err != nil {
		response.Error(c, err)
		return
	}

	groups, svcErr := h.service.Groups(c.Request.Context(), courseID)
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	response.JSON(c, http.StatusOK, groups, middleware.ExtractMeta(c))
}
