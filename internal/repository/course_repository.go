package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/moodlestats/moodle-stats-api/internal/models"
)

// CourseRepository reads courses and categories from the Moodle replica.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT id, shortname, fullname, category_id, startdate, enddate, visible FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// CategorySubtreeIDs resolves every category whose name matches (case
// insensitive) plus all of its descendants via the materialized path.
func (r *CourseRepository) CategorySubtreeIDs(ctx context.Context, name string) ([]int64, error) {
	const query = `SELECT DISTINCT c.id
        FROM categories c
        JOIN categories root ON c.id = root.id OR c.path LIKE root.path || '/%'
        WHERE LOWER(root.name) = LOWER($1)`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, name); err != nil {
		return nil, fmt.Errorf("query category subtree: %w", err)
	}
	return ids, nil
}

// ListVisible returns visible courses, optionally restricted to a category
// set and filtered by a shortname/fullname search term, ordered by shortname.
func (r *CourseRepository) ListVisible(ctx context.Context, categoryIDs []int64, search string) ([]models.Course, error) {
	var builder strings.Builder
	builder.WriteString("SELECT id, shortname, fullname, category_id, startdate, enddate, visible FROM courses WHERE visible = TRUE")
	var args []interface{}

	if len(categoryIDs) > 0 {
		placeholders := make([]string, len(categoryIDs))
		for i, id := range categoryIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		builder.WriteString(" AND category_id IN (" + strings.Join(placeholders, ",") + ")")
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		builder.WriteString(fmt.Sprintf(" AND (shortname ILIKE $%d OR fullname ILIKE $%d)", len(args), len(args)))
	}
	builder.WriteString(" ORDER BY shortname")

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list visible courses: %w", err)
	}
	return courses, nil
}
