package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/moodlestats/moodle-stats-api/internal/models"
	appErrors "github.com/moodlestats/moodle-stats-api/pkg/errors"
)

// CourseStore is the course lookup capability required by the report service.
type CourseStore interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// GroupStore resolves groups and their membership sets.
type GroupStore interface {
	FindByID(ctx context.Context, id int64) (*models.Group, error)
	ListMemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// EnrolmentStore resolves the enrolled-user set of a course.
type EnrolmentStore interface {
	ListEnrolledUserIDs(ctx context.Context, courseID int64) ([]int64, error)
}

// AccessStore resolves the last-access watermark index for a course.
type AccessStore interface {
	LastAccessByCourse(ctx context.Context, courseID int64, userIDs []int64) (map[int64]int64, error)
}

// UserStore resolves user records for the drill-down listing.
type UserStore interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.MoodleUser, error)
}

const weekDateFormat = "2006-01-02"

// weekEndOffset spans one inclusive Monday-aligned week: the week ends
// 6 days 23:59:59 after its start, one second before the next Monday.
const weekEndOffset = 7*24*time.Hour - time.Second

// ReportService computes the weekly non-access report and its drill-down.
// All computation is request-local: the service holds no state beyond its
// collaborators, so concurrent requests cannot interfere.
type ReportService struct {
	courses    CourseStore
	groups     GroupStore
	enrolments EnrolmentStore
	access     AccessStore
	users      UserStore
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(courses CourseStore, groups GroupStore, enrolments EnrolmentStore, access AccessStore, users UserStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ReportService {
	return &ReportService{
		courses:    courses,
		groups:     groups,
		enrolments: enrolments,
		access:     access,
		users:      users,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
	}
}

// Weekly builds the weekly non-access series for the course/group cohort
// over the inclusive [from, to] date range. The boolean reports whether the
// result came from cache; cached and uncached results are identical.
func (s *ReportService) Weekly(ctx context.Context, courseID, groupID int64, from, to time.Time) (*models.WeeklyReport, bool, error) {
	cacheKey := fmt.Sprintf("report:weekly:%d:%d:%s:%s", courseID, groupID, from.Format(weekDateFormat), to.Format(weekDateFormat))
	var cached models.WeeklyReport
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	cohort, err := s.resolveCohort(ctx, courseID, groupID)
	if err != nil {
		return nil, false, err
	}

	index, err := s.buildAccessIndex(ctx, courseID, cohort)
	if err != nil {
		return nil, false, err
	}

	report := &models.WeeklyReport{
		Weeks:      buildWeeklySeries(from, to, cohort, index),
		CohortSize: len(cohort),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, 0); err != nil && s.logger != nil {
			s.logger.Warn("cache weekly report", zap.Error(err))
		}
	}
	return report, false, nil
}

// NeverAccessed lists the cohort members still without access at one week
// boundary. boundaryID is the epoch-second week-end identifier emitted by
// Weekly; the membership test is the exact predicate the series used.
func (s *ReportService) NeverAccessed(ctx context.Context, courseID, groupID, boundaryID int64) (*models.NeverAccessedUsers, bool, error) {
	cacheKey := fmt.Sprintf("report:never:%d:%d:%d", courseID, groupID, boundaryID)
	var cached models.NeverAccessedUsers
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	cohort, err := s.resolveCohort(ctx, courseID, groupID)
	if err != nil {
		return nil, false, err
	}

	index, err := s.buildAccessIndex(ctx, courseID, cohort)
	if err != nil {
		return nil, false, err
	}

	missing := make([]int64, 0, len(cohort))
	for _, userID := range cohort {
		if neverByBoundary(index, userID, boundaryID) {
			missing = append(missing, userID)
		}
	}

	start := time.Now()
	users, err := s.users.ListByIDs(ctx, missing)
	if err != nil {
		return nil, false, fmt.Errorf("load missing users: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("report_users", time.Since(start))
	}

	result := &models.NeverAccessedUsers{
		WeekLabel: boundaryLabel(boundaryID),
		Users:     users,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, 0); err != nil && s.logger != nil {
			s.logger.Warn("cache never-accessed list", zap.Error(err))
		}
	}
	return result, false, nil
}

// resolveCohort verifies the course/group pair and intersects group
// membership with course enrolment. Group membership and enrolment are
// independent relations; neither implies the other, so the sets are always
// intersected. An empty intersection is a valid cohort.
func (s *ReportService) resolveCohort(ctx context.Context, courseID, groupID int64) ([]int64, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, fmt.Errorf("load course: %w", err)
	}

	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, fmt.Errorf("load group: %w", err)
	}

	if group.CourseID != course.ID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "group does not belong to course")
	}

	start := time.Now()
	memberIDs, err := s.groups.ListMemberIDs(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("load group members: %w", err)
	}
	enrolledIDs, err := s.enrolments.ListEnrolledUserIDs(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load enrolled users: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("report_cohort", time.Since(start))
	}

	members := make(map[int64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = struct{}{}
	}

	cohort := make([]int64, 0, len(enrolledIDs))
	for _, id := range enrolledIDs {
		if _, ok := members[id]; ok {
			cohort = append(cohort, id)
		}
	}
	sort.Slice(cohort, func(i, j int) bool { return cohort[i] < cohort[j] })
	return cohort, nil
}

// buildAccessIndex fetches the per-user last-access watermark for the cohort
// in a single batched round trip.
func (s *ReportService) buildAccessIndex(ctx context.Context, courseID int64, cohort []int64) (map[int64]int64, error) {
	start := time.Now()
	index, err := s.access.LastAccessByCourse(ctx, courseID, cohort)
	if err != nil {
		return nil, fmt.Errorf("load last access: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("report_last_access", time.Since(start))
	}
	return index, nil
}

// buildWeeklySeries walks [from, to] in Monday-aligned 7-day steps and
// counts, per week, the cohort members still showing no access at the week
// end. Because the index is fixed within a run, the count can only stay flat
// or decrease as weeks advance.
func buildWeeklySeries(from, to time.Time, cohort []int64, index map[int64]int64) []models.WeekSample {
	weeks := []models.WeekSample{}
	from = truncateToDay(from)
	to = truncateToDay(to)
	if from.After(to) {
		return weeks
	}

	for start := snapToMonday(from); !start.After(to); start = start.AddDate(0, 0, 7) {
		end := start.Add(weekEndOffset)
		boundary := end.Unix()

		never := 0
		for _, userID := range cohort {
			if neverByBoundary(index, userID, boundary) {
				never++
			}
		}

		weeks = append(weeks, models.WeekSample{
			Label:      start.Format(weekDateFormat) + " → " + end.Format(weekDateFormat),
			NeverCount: never,
			BoundaryID: boundary,
		})
	}
	return weeks
}

// neverByBoundary decides whether a user still counts as never-accessed at a
// week boundary: no watermark at all, or a watermark strictly after the
// boundary (their only recorded access is in the future relative to it).
// The comparison is deliberately strict: a user whose watermark equals the
// boundary instant exactly has accessed by that week. This matches the
// behaviour of the system this replica mirrors; changing it to >= needs a
// product decision, not a code one. Both the weekly series and the
// drill-down MUST go through this function.
func neverByBoundary(index map[int64]int64, userID int64, boundary int64) bool {
	ts, ok := index[userID]
	return !ok || ts > boundary
}

// snapToMonday returns the most recent Monday (00:00:00 UTC) on or before t.
func snapToMonday(t time.Time) time.Time {
	t = truncateToDay(t)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// boundaryLabel reconstructs the week label from a boundary identifier
// alone, which keeps drill-down labels identical to the series labels.
func boundaryLabel(boundaryID int64) string {
	end := time.Unix(boundaryID, 0).UTC()
	start := end.AddDate(0, 0, -6)
	return start.Format(weekDateFormat) + " → " + end.Format(weekDateFormat)
}
