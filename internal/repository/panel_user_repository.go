package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/moodlestats/moodle-stats-api/internal/models"
)

// PanelUserRepository handles the panel operator accounts. This is the only
// table the service writes to, and only to stamp logins.
type PanelUserRepository struct {
	db *sqlx.DB
}

// NewPanelUserRepository constructs the repository.
func NewPanelUserRepository(db *sqlx.DB) *PanelUserRepository {
	return &PanelUserRepository{db: db}
}

// FindByUsername returns a panel account by username.
func (r *PanelUserRepository) FindByUsername(ctx context.Context, username string) (*models.PanelUser, error) {
	const query = `SELECT id, username, password_hash, active, last_login_at FROM panel_users WHERE username = $1`
	var user models.PanelUser
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin stamps the most recent successful login.
func (r *PanelUserRepository) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	const query = `UPDATE panel_users SET last_login_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
