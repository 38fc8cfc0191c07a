package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelUserRepositoryFindByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPanelUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM panel_users WHERE username = $1")).
		WithArgs("operator").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "active", "last_login_at"}).
			AddRow(int64(42), "operator", "$2a$04$hash", true, nil))

	user, err := repo.FindByUsername(context.Background(), "operator")
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.True(t, user.Active)
	assert.Nil(t, user.LastLoginAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanelUserRepositoryFindByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPanelUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM panel_users WHERE username = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPanelUserRepositoryUpdateLastLogin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPanelUserRepository(db)

	ts := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE panel_users SET last_login_at = $2 WHERE id = $1")).
		WithArgs(int64(42), ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateLastLogin(context.Background(), 42, ts)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
