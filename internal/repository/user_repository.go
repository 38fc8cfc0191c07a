package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/moodlestats/moodle-stats-api/internal/models"
)

// UserRepository reads Moodle user records.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ListByIDs returns the given users ordered by (lastname, firstname), the
// ordering the drill-down view renders.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.MoodleUser, error) {
	if len(ids) == 0 {
		return []models.MoodleUser{}, nil
	}

	args := make([]interface{}, len(ids))
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		args[i] = id
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := `SELECT id, username, firstname, lastname, email FROM moodle_users WHERE id IN (` +
		strings.Join(placeholders, ",") + `) ORDER BY lastname, firstname`

	var users []models.MoodleUser
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}
	return users, nil
}
