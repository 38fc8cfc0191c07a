package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnrolmentRepository reads course enrolments from the Moodle replica.
type EnrolmentRepository struct {
	db *sqlx.DB
}

// NewEnrolmentRepository constructs the repository.
func NewEnrolmentRepository(db *sqlx.DB) *EnrolmentRepository {
	return &EnrolmentRepository{db: db}
}

// ListEnrolledUserIDs returns every user enrolled in the course through any
// enrolment method. One round trip: the enrol -> user_enrolments join is
// resolved in SQL rather than per user.
func (r *EnrolmentRepository) ListEnrolledUserIDs(ctx context.Context, courseID int64) ([]int64, error) {
	const query = `SELECT DISTINCT ue.user_id
        FROM user_enrolments ue
        JOIN enrolments e ON e.id = ue.enrolment_id
        WHERE e.course_id = $1`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, courseID); err != nil {
		return nil, fmt.Errorf("list enrolled users: %w", err)
	}
	return ids, nil
}
