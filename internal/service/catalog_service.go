package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/moodlestats/moodle-stats-api/internal/models"
	appErrors "github.com/moodlestats/moodle-stats-api/pkg/errors"
)

// CatalogCourseStore is the course browsing capability of the replica.
type CatalogCourseStore interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	CategorySubtreeIDs(ctx context.Context, name string) ([]int64, error)
	ListVisible(ctx context.Context, categoryIDs []int64, search string) ([]models.Course, error)
}

// CatalogGroupStore lists the groups of a course.
type CatalogGroupStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.Group, error)
}

// CatalogOptions narrows the catalog to the slice the panel exposes.
type CatalogOptions struct {
	CategoryName string
	YearFilter   bool
}

// CatalogService feeds the panel's course and group pickers.
type CatalogService struct {
	courses CatalogCourseStore
	groups  CatalogGroupStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	opts    CatalogOptions
	now     func() time.Time
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(courses CatalogCourseStore, groups CatalogGroupStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, opts CatalogOptions) *CatalogService {
	return &CatalogService{
		courses: courses,
		groups:  groups,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		opts:    opts,
		now:     time.Now,
	}
}

var courseYearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// Courses returns the browsable course list: visible courses inside the
// configured category subtree, optionally matched against a search term,
// kept when they look like a current-cycle course. The boolean indicates a
// cache hit.
func (s *CatalogService) Courses(ctx context.Context, search string) ([]models.Course, bool, error) {
	cacheKey := fmt.Sprintf("catalog:courses:%s", search)
	var cached []models.Course
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	var categoryIDs []int64
	if s.opts.CategoryName != "" {
		ids, err := s.courses.CategorySubtreeIDs(ctx, s.opts.CategoryName)
		if err != nil {
			return nil, false, err
		}
		categoryIDs = ids
	}

	start := time.Now()
	courses, err := s.courses.ListVisible(ctx, categoryIDs, search)
	if err != nil {
		return nil, false, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("catalog_courses", time.Since(start))
	}

	if s.opts.YearFilter {
		courses = filterCurrentCycle(courses, s.now().UTC().Year())
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, courses, 0); err != nil && s.logger != nil {
			s.logger.Warn("cache course catalog", zap.Error(err))
		}
	}
	return courses, false, nil
}

// Groups lists the groups of one course ordered by name.
func (s *CatalogService) Groups(ctx context.Context, courseID int64) ([]models.Group, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	start := time.Now()
	groups, err := s.groups.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("catalog_groups", time.Since(start))
	}
	return groups, nil
}

// filterCurrentCycle keeps courses whose name carries the current or next
// year; courses without a year in the name fall back to the start date, and
// courses with neither stay in (the panel would rather over-show than hide
// a course someone needs to report on).
func filterCurrentCycle(courses []models.Course, currentYear int) []models.Course {
	filtered := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		name := course.FullName
		if name == "" {
			name = course.ShortName
		}
		if match := courseYearPattern.FindString(name); match != "" {
			year := parseYear(match)
			if year == currentYear || year == currentYear+1 {
				filtered = append(filtered, course)
			}
			continue
		}
		if course.StartDate != nil {
			if course.StartDate.UTC().Year() == currentYear {
				filtered = append(filtered, course)
			}
			continue
		}
		filtered = append(filtered, course)
	}
	return filtered
}

func parseYear(raw string) int {
	year := 0
	for _, r := range raw {
		year = year*10 + int(r-'0')
	}
	return year
}
