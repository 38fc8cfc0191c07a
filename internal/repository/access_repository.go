package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/moodlestats/moodle-stats-api/internal/models"
)

// AccessRepository reads the user_last_access watermark table.
type AccessRepository struct {
	db *sqlx.DB
}

// NewAccessRepository constructs the repository.
func NewAccessRepository(db *sqlx.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// LastAccessByCourse returns userID -> most recent access (epoch seconds)
// for the given course restricted to the given users. The table is unique
// per (user, course), but the merge keeps the maximum timestamp seen anyway
// so a relaxed constraint upstream cannot silently skew the report. Users
// with no row are absent from the map: absence means "never accessed".
func (r *AccessRepository) LastAccessByCourse(ctx context.Context, courseID int64, userIDs []int64) (map[int64]int64, error) {
	index := make(map[int64]int64, len(userIDs))
	if len(userIDs) == 0 {
		return index, nil
	}

	args := []interface{}{courseID}
	placeholders := make([]string, len(userIDs))
	for i, id := range userIDs {
		args = append(args, id)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	query := `SELECT user_id, course_id, timeaccess FROM user_last_access WHERE course_id = $1 AND user_id IN (` +
		strings.Join(placeholders, ",") + `)`

	var rows []models.LastAccess
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list last access: %w", err)
	}

	for _, row := range rows {
		if current, ok := index[row.UserID]; !ok || row.TimeAccess > current {
			index[row.UserID] = row.TimeAccess
		}
	}
	return index, nil
}
