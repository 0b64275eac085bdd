package consultation

import (
	"context"
	"errors"
	"testing"

	"counsel/internal/events"
	"counsel/internal/models"
	"counsel/internal/repositories"
	"counsel/internal/repositories/cache"
	"counsel/internal/repositories/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFlow_OnFormSubmitted(t *testing.T) {
	f := NewFlow(nil, nil, nil, nil, nil)

	s := f.OnFormSubmitted("v1", "a@x.com", false)
	assert.Equal(t, StateNoPayment, s.State)

	s = f.OnFormSubmitted("v1", "a@x.com", true)
	assert.Equal(t, StateAwaitingPayment, s.State)
	assert.Equal(t, "a@x.com", s.Email)
}

func TestFlow_OnPaymentConfirmed(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	pending := db.addSubmission("a@x.com", models.SubmissionStatusPending, nil)
	reviewed := db.addSubmission("a@x.com", models.SubmissionStatusReviewed, nil)
	other := db.addSubmission("b@x.com", models.SubmissionStatusPending, nil)

	store := cache.NewMemoryPendingStore()
	log := &eventLog{}
	f := NewFlow(fakePayments{db}, fakeSubmissions{db}, fixedFee(150), store, log)

	s := f.OnFormSubmitted("v1", "a@x.com", true)
	s, err := f.OnPaymentConfirmed(ctx, s, "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, StatePaidPending, s.State)
	require.NotEmpty(t, s.PaymentID)

	payment, err := fakePayments{db}.FindByID(ctx, s.PaymentID)
	require.NoError(t, err)
	assert.Nil(t, payment.UserID)
	assert.Equal(t, "a@x.com", payment.Email)
	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)
	assert.Equal(t, 150.0, payment.Amount)
	assert.Equal(t, "cs_test_123", payment.StripePaymentID)

	assert.Equal(t, models.SubmissionStatusInProgress, pending.Status)
	assert.Equal(t, models.SubmissionStatusReviewed, reviewed.Status)
	assert.Equal(t, models.SubmissionStatusPending, other.Status)

	state, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.PendingAccountState{Email: "a@x.com", PaymentID: s.PaymentID, Pending: true}, state)
	assert.Equal(t, []string{events.TypePaymentRecorded}, log.types())
}

func TestFlow_OnPaymentConfirmedRejectsWrongState(t *testing.T) {
	f := NewFlow(nil, nil, nil, nil, nil)

	_, err := f.OnPaymentConfirmed(context.Background(), Session{Email: "a@x.com"}, "cs_1")
	assert.ErrorIs(t, err, ErrNotAwaitingPayment)

	_, err = f.OnPaymentConfirmed(context.Background(), Session{State: StateAwaitingPayment}, "cs_1")
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = f.OnPaymentConfirmed(context.Background(), Session{State: StateAwaitingPayment, Email: "a@x.com"}, "")
	assert.ErrorIs(t, err, ErrMissingPaymentRef)
}

func TestFlow_OnPaymentConfirmedBookkeepingFailures(t *testing.T) {
	boom := errors.New("store unavailable")

	tests := []struct {
		name  string
		fees  FeeSource
		setup func(*mocks.PaymentRepository, *mocks.SubmissionRepository)
	}{
		{
			name: "fee read fails",
			fees: failingFee{boom},
			setup: func(p *mocks.PaymentRepository, s *mocks.SubmissionRepository) {
				p.On("FindByStripePaymentID", mock.Anything, "cs_1").Return(nil, repositories.ErrPaymentNotFound)
			},
		},
		{
			name: "payment insert fails",
			fees: fixedFee(150),
			setup: func(p *mocks.PaymentRepository, s *mocks.SubmissionRepository) {
				p.On("FindByStripePaymentID", mock.Anything, "cs_1").Return(nil, repositories.ErrPaymentNotFound)
				p.On("Create", mock.Anything, mock.AnythingOfType("*models.Payment")).Return(boom)
			},
		},
		{
			name: "submission update fails",
			fees: fixedFee(150),
			setup: func(p *mocks.PaymentRepository, s *mocks.SubmissionRepository) {
				p.On("FindByStripePaymentID", mock.Anything, "cs_1").Return(nil, repositories.ErrPaymentNotFound)
				p.On("Create", mock.Anything, mock.AnythingOfType("*models.Payment")).Return(nil)
				s.On("TransitionByEmail", mock.Anything, "a@x.com", models.SubmissionStatusPending, models.SubmissionStatusInProgress).
					Return(int64(0), boom)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := new(mocks.PaymentRepository)
			submissions := new(mocks.SubmissionRepository)
			tt.setup(payments, submissions)
			store := cache.NewMemoryPendingStore()
			f := NewFlow(payments, submissions, tt.fees, store, nil)

			in := Session{VisitorID: "v1", Email: "a@x.com", State: StateAwaitingPayment}
			out, err := f.OnPaymentConfirmed(context.Background(), in, "cs_1")
			assert.ErrorIs(t, err, ErrPostPaymentBookkeeping)
			assert.Equal(t, in, out)

			state, _ := store.Load(context.Background(), "v1")
			assert.False(t, state.IsPending())
			payments.AssertExpectations(t)
			submissions.AssertExpectations(t)
		})
	}
}

func TestFlow_RecordPaymentDeduplicatesRef(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	f := NewFlow(fakePayments{db}, fakeSubmissions{db}, fixedFee(150), cache.NewMemoryPendingStore(), nil)

	first, err := f.RecordPayment(ctx, PaymentRecord{Email: "a@x.com", Ref: "cs_dup"})
	require.NoError(t, err)
	second, err := f.RecordPayment(ctx, PaymentRecord{Email: "a@x.com", Ref: "cs_dup"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, db.payments, 1)
}

func TestFlow_RecordPaymentNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	sub := db.addSubmission("a@x.com", models.SubmissionStatusPending, nil)
	f := NewFlow(fakePayments{db}, fakeSubmissions{db}, fixedFee(150), cache.NewMemoryPendingStore(), nil)

	p, err := f.RecordPayment(ctx, PaymentRecord{Email: " A@X.com ", Ref: "cs_case"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", p.Email)
	assert.Equal(t, models.SubmissionStatusInProgress, sub.Status)
}

func TestFlow_OnVerifiedPayment(t *testing.T) {
	ctx := context.Background()
	amount := 500.0

	tests := []struct {
		name      string
		session   Session
		rec       PaymentRecord
		wantErr   error
		wantEmail string
		wantType  string
	}{
		{
			name:      "provider email wins",
			session:   Session{VisitorID: "v1", Email: "typed@x.com", State: StateAwaitingPayment},
			rec:       PaymentRecord{Email: "Payer@x.com", Ref: "cs_1", PaymentType: models.PaymentTypeConsultation},
			wantEmail: "payer@x.com",
			wantType:  models.PaymentTypeConsultation,
		},
		{
			name:      "emergency keeps amount",
			session:   Session{VisitorID: "v2", Email: "a@x.com", State: StateAwaitingPayment},
			rec:       PaymentRecord{Ref: "cs_2", PaymentType: models.PaymentTypeEmergency, Amount: &amount},
			wantEmail: "a@x.com",
			wantType:  models.PaymentTypeEmergency,
		},
		{
			name:    "missing ref",
			session: Session{Email: "a@x.com", State: StateAwaitingPayment},
			rec:     PaymentRecord{Email: "a@x.com"},
			wantErr: ErrMissingPaymentRef,
		},
		{
			name:    "wrong state",
			session: Session{Email: "a@x.com", State: StateLinked},
			rec:     PaymentRecord{Email: "a@x.com", Ref: "cs_3"},
			wantErr: ErrNotAwaitingPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newMemDB()
			store := cache.NewMemoryPendingStore()
			f := NewFlow(fakePayments{db}, fakeSubmissions{db}, fixedFee(150), store, nil)

			s, err := f.OnVerifiedPayment(ctx, tt.session, tt.rec)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, db.payments)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatePaidPending, s.State)
			assert.Equal(t, tt.wantEmail, s.Email)
			require.Len(t, db.payments, 1)
			assert.Equal(t, tt.wantType, db.payments[0].PaymentType)

			state, err := store.Load(ctx, tt.session.VisitorID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmail, state.Email)
		})
	}
}

func TestFlow_RecordEmergencyPayment(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	sub := db.addSubmission("a@x.com", models.SubmissionStatusPending, nil)
	f := NewFlow(fakePayments{db}, fakeSubmissions{db}, failingFee{errors.New("unused")}, cache.NewMemoryPendingStore(), nil)

	amount := 500.0
	p, err := f.RecordPayment(ctx, PaymentRecord{Email: "a@x.com", Ref: "cs_em", PaymentType: models.PaymentTypeEmergency, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, 500.0, p.Amount)
	assert.Equal(t, models.PaymentTypeEmergency, p.PaymentType)
	assert.Equal(t, models.SubmissionStatusPending, sub.Status)
}

func TestFlow_OnSkipAccountCreation(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryPendingStore()
	f := NewFlow(nil, nil, nil, store, nil)

	_, err := f.OnSkipAccountCreation(ctx, Session{VisitorID: "v1", State: StateAwaitingPayment})
	assert.ErrorIs(t, err, ErrNoPendingPayment)

	res, err := f.OnSkipAccountCreation(ctx, Session{VisitorID: "v1", Email: "a@x.com", PaymentID: "pay-1", State: StatePaidPending})
	require.NoError(t, err)
	assert.Equal(t, HomePath, res.RedirectTo)
	assert.Equal(t, SkipDelay, res.Delay)
	assert.Equal(t, int64(300), res.DelayMS)

	state, err := store.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.PendingAccountState{Email: "a@x.com", PaymentID: "pay-1", Pending: true}, state)
}

func TestFlow_HasConsultationPaid(t *testing.T) {
	ctx := context.Background()
	payments := new(mocks.PaymentRepository)
	payments.On("HasSucceeded", mock.Anything, "a@x.com", "", models.PaymentTypeConsultation).Return(true, nil)
	payments.On("HasSucceeded", mock.Anything, "b@x.com", "", models.PaymentTypeConsultation).Return(false, errors.New("timeout"))
	payments.On("HasSucceeded", mock.Anything, "c@x.com", "user-9", models.PaymentTypeConsultation).Return(false, nil)
	f := NewFlow(payments, nil, nil, nil, nil)

	assert.True(t, f.HasConsultationPaid(ctx, "a@x.com", ""))
	assert.False(t, f.HasConsultationPaid(ctx, "b@x.com", ""))
	assert.False(t, f.HasConsultationPaid(ctx, "c@x.com", "user-9"))
	assert.False(t, f.HasConsultationPaid(ctx, "", ""))
	payments.AssertExpectations(t)
}

func TestSessionFromState(t *testing.T) {
	s := SessionFromState("v1", models.PendingAccountState{Email: "a@x.com", PaymentID: "pay-1", Pending: true})
	assert.Equal(t, StatePaidPending, s.State)

	s = SessionFromState("v1", models.PendingAccountState{})
	assert.Equal(t, StateNoPayment, s.State)
}
