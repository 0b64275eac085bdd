package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_UpdateOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET "user_id"=$1 WHERE id = $2 AND user_id IS NULL`)).
		WithArgs("user-1", "pay-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.UpdateOwner(ctx, "pay-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// second run finds nothing left to own
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET "user_id"=$1 WHERE id = $2 AND user_id IS NULL`)).
		WithArgs("user-1", "pay-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err = repo.UpdateOwner(ctx, "pay-1", "user-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_UpdateOwnerByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET "user_id"=$1 WHERE email = $2 AND user_id IS NULL`)).
		WithArgs("user-1", "a@example.com").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.UpdateOwnerByEmail(context.Background(), "a@example.com", "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_UpdateOwnerError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments"`)).WillReturnError(boom)

	_, err := repo.UpdateOwner(context.Background(), "pay-1", "user-1")
	assert.ErrorIs(t, err, boom)
}

func TestPaymentRepository_HasSucceeded(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		userID string
		query  string
		args   []interface{}
		count  int
		want   bool
	}{
		{
			name:  "anonymous by email",
			email: "a@example.com",
			query: `SELECT count(*) FROM "payments" WHERE status = $1 AND payment_type = $2 AND email = $3`,
			count: 1,
			want:  true,
		},
		{
			name:   "signed in by user id",
			email:  "a@example.com",
			userID: "user-1",
			query:  `SELECT count(*) FROM "payments" WHERE status = $1 AND payment_type = $2 AND user_id = $3`,
			count:  0,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewPaymentRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			got, err := repo.HasSucceeded(context.Background(), tt.email, tt.userID, "consultation")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPaymentRepository_FindByStripePaymentID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "email", "stripe_payment_id", "amount", "status"}).
		AddRow("pay-1", "a@example.com", "cs_test_1", 150.0, "succeeded")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments" WHERE stripe_payment_id = $1`)).
		WillReturnRows(rows)

	payment, err := repo.FindByStripePaymentID(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, "pay-1", payment.ID)
	assert.Nil(t, payment.UserID)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments" WHERE stripe_payment_id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.FindByStripePaymentID(ctx, "cs_missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
