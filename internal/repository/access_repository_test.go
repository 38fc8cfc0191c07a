package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessRepositoryLastAccessByCourse(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccessRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_last_access WHERE course_id = $1 AND user_id IN ($2,$3,$4)")).
		WithArgs(int64(100), int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "course_id", "timeaccess"}).
			AddRow(int64(1), int64(100), int64(1704888000)).
			AddRow(int64(3), int64(100), int64(1705000000)))

	index, err := repo.LastAccessByCourse(context.Background(), 100, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1704888000, 3: 1705000000}, index)
	// User 2 has no row at all: absent from the index, not zero.
	_, ok := index[2]
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessRepositoryLastAccessByCourseKeepsMaxOnDuplicates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccessRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_last_access WHERE course_id = $1 AND user_id IN ($2)")).
		WithArgs(int64(100), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "course_id", "timeaccess"}).
			AddRow(int64(1), int64(100), int64(1705000000)).
			AddRow(int64(1), int64(100), int64(1704000000)))

	index, err := repo.LastAccessByCourse(context.Background(), 100, []int64{1})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{1: 1705000000}, index)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccessRepositoryLastAccessByCourseEmptyCohort(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccessRepository(db)

	// No users means no round trip at all.
	index, err := repo.LastAccessByCourse(context.Background(), 100, nil)
	require.NoError(t, err)
	assert.Empty(t, index)
	assert.NoError(t, mock.ExpectationsWereMet())
}
