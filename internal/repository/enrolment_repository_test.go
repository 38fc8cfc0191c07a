package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrolmentRepositoryListEnrolledUserIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrolmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN enrolments e ON e.id = ue.enrolment_id")).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(4)))

	ids, err := repo.ListEnrolledUserIDs(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrolmentRepositoryListEnrolledUserIDsEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrolmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN enrolments e ON e.id = ue.enrolment_id")).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	ids, err := repo.ListEnrolledUserIDs(context.Background(), 100)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
