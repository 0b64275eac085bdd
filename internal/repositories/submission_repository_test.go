package repositories

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionRepository_UpdateOwnerByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "form_submissions" SET "user_id"=$1,"updated_at"=$2 WHERE email = $3 AND user_id IS NULL`)).
		WithArgs("user-1", sqlmock.AnyArg(), "a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.UpdateOwnerByEmail(context.Background(), "a@example.com", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_TransitionByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "form_submissions" SET "status"=$1,"updated_at"=$2 WHERE email = $3 AND status = $4`)).
		WithArgs("in_progress", sqlmock.AnyArg(), "a@example.com", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.TransitionByEmail(context.Background(), "a@example.com", "pending", "in_progress")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_UpdateStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "form_submissions" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateStatus(context.Background(), "missing", "reviewed", nil)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionRepository_CountByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubmissionRepository(db)

	rows := sqlmock.NewRows([]string{"status", "total"}).
		AddRow("pending", 4).
		AddRow("in_progress", 2)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, COUNT(*) as total FROM "form_submissions"`)).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"pending": 4, "in_progress": 2}, counts)
}
