package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepositoryFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM groups WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "name"}).
			AddRow(int64(7), int64(100), "Group A"))

	group, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(100), group.CourseID)
	assert.Equal(t, "Group A", group.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM groups WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGroupRepositoryListByCourse(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM groups WHERE course_id = $1 ORDER BY name")).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "course_id", "name"}).
			AddRow(int64(7), int64(100), "Group A").
			AddRow(int64(8), int64(100), "Group B"))

	groups, err := repo.ListByCourse(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Group A", groups[0].Name)
	assert.Equal(t, "Group B", groups[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepositoryListMemberIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM group_members WHERE group_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(9)))

	ids, err := repo.ListMemberIDs(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
