package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryListByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM moodle_users WHERE id IN ($1,$2) ORDER BY lastname, firstname")).
		WithArgs(int64(2), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "firstname", "lastname", "email"}).
			AddRow(int64(1), "agarcia", "Ana", "Garcia", "ana@example.com").
			AddRow(int64(2), "bperez", "Beto", "Perez", "beto@example.com"))

	users, err := repo.ListByIDs(context.Background(), []int64{2, 1})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Garcia", users[0].LastName)
	assert.Equal(t, "Perez", users[1].LastName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListByIDsEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	users, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}
