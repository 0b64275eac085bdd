package dashboard

import (
	"context"
	"errors"
	"testing"

	"counsel/internal/models"
	"counsel/internal/repositories"
	"counsel/internal/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	profiles    *mocks.ProfileRepository
	submissions *mocks.SubmissionRepository
	payments    *mocks.PaymentRepository
	purchases   *mocks.PurchaseRepository
	svc         Service
}

func newFixture() *fixture {
	f := &fixture{
		profiles:    new(mocks.ProfileRepository),
		submissions: new(mocks.SubmissionRepository),
		payments:    new(mocks.PaymentRepository),
		purchases:   new(mocks.PurchaseRepository),
	}
	f.svc = NewService(f.profiles, f.submissions, f.payments, f.purchases)
	return f
}

func TestService_GetUserDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("collects owned records", func(t *testing.T) {
		f := newFixture()
		f.profiles.On("GetByID", mock.Anything, "U1").Return(&models.Profile{ID: "U1"}, nil)
		f.submissions.On("FindByUserID", mock.Anything, "U1").Return([]models.FormSubmission{{ID: "s1"}, {ID: "s2"}}, nil)
		f.payments.On("FindByUserID", mock.Anything, "U1").Return([]models.Payment{{ID: "p1"}}, nil)
		f.purchases.On("FindByUserID", mock.Anything, "U1").Return([]models.Purchase{}, nil)

		d, err := f.svc.GetUserDashboard(ctx, "U1")
		require.NoError(t, err)
		assert.Equal(t, "U1", d.Profile.ID)
		assert.Len(t, d.Submissions, 2)
		assert.Len(t, d.Payments, 1)
	})

	t.Run("unknown profile", func(t *testing.T) {
		f := newFixture()
		f.profiles.On("GetByID", mock.Anything, "U9").Return(nil, repositories.ErrProfileNotFound)
		f.submissions.On("FindByUserID", mock.Anything, "U9").Return(nil, nil)
		f.payments.On("FindByUserID", mock.Anything, "U9").Return(nil, nil)
		f.purchases.On("FindByUserID", mock.Anything, "U9").Return(nil, nil)

		_, err := f.svc.GetUserDashboard(ctx, "U9")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_GetAdminStats(t *testing.T) {
	f := newFixture()
	f.submissions.On("CountByStatus", mock.Anything).Return(map[string]int64{"pending": 3, "in_progress": 2}, nil)
	f.profiles.On("List", mock.Anything, 0, 1).Return([]models.Profile{{ID: "U1"}}, int64(7), nil)
	f.payments.On("SucceededTotals", mock.Anything).Return(int64(4), 600.0, nil)

	stats, err := f.svc.GetAdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalSubmissions)
	assert.Equal(t, int64(3), stats.PendingSubmissions)
	assert.Equal(t, int64(7), stats.TotalUsers)
	assert.Equal(t, int64(4), stats.SucceededPayments)
	assert.Equal(t, 600.0, stats.Revenue)
}

func TestService_UpdateSubmissionStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	notes := "called client"

	_, err := f.svc.UpdateSubmissionStatus(ctx, "s1", "lost", nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	f.submissions.On("UpdateStatus", mock.Anything, "missing", "reviewed", (*string)(nil)).Return(nil, repositories.ErrSubmissionNotFound)
	_, err = f.svc.UpdateSubmissionStatus(ctx, "missing", "reviewed", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	f.submissions.On("UpdateStatus", mock.Anything, "s1", "completed", &notes).
		Return(&models.FormSubmission{ID: "s1", Status: "completed", AdminNotes: &notes}, nil)
	sub, err := f.svc.UpdateSubmissionStatus(ctx, "s1", "completed", &notes)
	require.NoError(t, err)
	assert.Equal(t, "completed", sub.Status)
}

func TestService_UpdateUserRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.UpdateUserRole(ctx, "U1", "merchant")
	assert.ErrorIs(t, err, ErrInvalidRole)

	f.profiles.On("UpdateRole", mock.Anything, "U1", models.RoleAdmin).Return(&models.Profile{ID: "U1", Role: models.RoleAdmin}, nil)
	p, err := f.svc.UpdateUserRole(ctx, "U1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)

	f.profiles.On("UpdateRole", mock.Anything, "U2", models.RoleUser).Return(nil, errors.New("boom"))
	_, err = f.svc.UpdateUserRole(ctx, "U2", models.RoleUser)
	assert.EqualError(t, err, "boom")
}
