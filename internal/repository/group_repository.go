package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/moodlestats/moodle-stats-api/internal/models"
)

// GroupRepository reads groups and group membership from the Moodle replica.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs the repository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindByID returns a group by its ID.
func (r *GroupRepository) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	const query = `SELECT id, course_id, name FROM groups WHERE id = $1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ListByCourse returns the groups of a course ordered by name.
func (r *GroupRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Group, error) {
	const query = `SELECT id, course_id, name FROM groups WHERE course_id = $1 ORDER BY name`
	var groups []models.Group
	if err := r.db.SelectContext(ctx, &groups, query, courseID); err != nil {
		return nil, fmt.Errorf("list course groups: %w", err)
	}
	return groups, nil
}

// ListMemberIDs returns every user ID holding a membership row for the group.
func (r *GroupRepository) ListMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	const query = `SELECT user_id FROM group_members WHERE group_id = $1`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, groupID); err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	return ids, nil
}
