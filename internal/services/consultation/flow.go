package consultation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"counsel/internal/events"
	"counsel/internal/models"
	"counsel/internal/repositories"
	"counsel/internal/validation"
)

const (
	HomePath  = "/"
	SkipDelay = 300 * time.Millisecond
)

// SkipResult tells the client where to go after dismissing the signup nudge.
type SkipResult struct {
	RedirectTo string        `json:"redirectTo"`
	Delay      time.Duration `json:"-"`
	DelayMS    int64         `json:"delayMs"`
}

// PaymentRecord describes a provider payment to book locally. A nil Amount
// books the current consultation fee.
type PaymentRecord struct {
	Email       string
	Ref         string
	PaymentType string
	Amount      *float64
	CustomerID  string
	Metadata    models.JSON
}

type Flow struct {
	payments    repositories.PaymentRepository
	submissions repositories.SubmissionRepository
	fees        FeeSource
	pending     PendingStore
	events      EventPublisher
}

func NewFlow(
	payments repositories.PaymentRepository,
	submissions repositories.SubmissionRepository,
	fees FeeSource,
	pending PendingStore,
	events EventPublisher,
) *Flow {
	return &Flow{
		payments:    payments,
		submissions: submissions,
		fees:        fees,
		pending:     pending,
		events:      events,
	}
}

// OnFormSubmitted starts a session for email. It has no side effects.
func (f *Flow) OnFormSubmitted(visitorID, email string, needsPayment bool) Session {
	s := Session{VisitorID: visitorID, Email: email, State: StateNoPayment}
	if needsPayment {
		s.State = StateAwaitingPayment
	}
	return s
}

// OnPaymentConfirmed books a confirmed provider payment for the session's
// email, moves that email's pending submissions into review and stores the
// visitor's pending-account state. Any bookkeeping failure is returned
// wrapped in ErrPostPaymentBookkeeping and the session is left unchanged.
func (f *Flow) OnPaymentConfirmed(ctx context.Context, s Session, ref string) (Session, error) {
	if s.State != StateAwaitingPayment {
		return s, ErrNotAwaitingPayment
	}
	if s.Email == "" {
		return s, ErrMissingEmail
	}
	if ref == "" {
		return s, ErrMissingPaymentRef
	}
	return f.OnVerifiedPayment(ctx, s, PaymentRecord{
		Email:       s.Email,
		Ref:         ref,
		PaymentType: models.PaymentTypeConsultation,
	})
}

// OnVerifiedPayment books rec for the session once the provider has
// confirmed it. rec.Email overrides the session email.
func (f *Flow) OnVerifiedPayment(ctx context.Context, s Session, rec PaymentRecord) (Session, error) {
	if s.State != StateAwaitingPayment {
		return s, ErrNotAwaitingPayment
	}
	if rec.Ref == "" {
		return s, ErrMissingPaymentRef
	}
	if rec.Email != "" {
		s.Email = validation.NormalizeEmail(rec.Email)
	}
	if s.Email == "" {
		return s, ErrMissingEmail
	}
	rec.Email = s.Email

	payment, err := f.RecordPayment(ctx, rec)
	if err != nil {
		return s, err
	}

	state := models.PendingAccountState{Email: s.Email, PaymentID: payment.ID, Pending: true}
	if s.VisitorID != "" {
		if err := f.pending.Save(ctx, s.VisitorID, state); err != nil {
			return s, fmt.Errorf("%w: %v", ErrPostPaymentBookkeeping, err)
		}
	}

	s.PaymentID = payment.ID
	s.State = StatePaidPending
	return s, nil
}

// RecordPayment inserts the payment row with a null owner. A payment whose
// provider reference is already booked is returned as is.
func (f *Flow) RecordPayment(ctx context.Context, rec PaymentRecord) (*models.Payment, error) {
	rec.Email = validation.NormalizeEmail(rec.Email)
	existing, err := f.payments.FindByStripePaymentID(ctx, rec.Ref)
	switch {
	case err == nil:
		log.Printf("Payment %s already recorded as %s", rec.Ref, existing.ID)
		return existing, nil
	case !errors.Is(err, repositories.ErrPaymentNotFound):
		return nil, fmt.Errorf("%w: lookup payment: %v", ErrPostPaymentBookkeeping, err)
	}

	paymentType := rec.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentTypeConsultation
	}

	var amount float64
	if rec.Amount != nil {
		amount = *rec.Amount
	} else {
		fee, err := f.fees.ConsultationFee(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPostPaymentBookkeeping, err)
		}
		amount = fee
	}

	payment := &models.Payment{
		Email:            rec.Email,
		StripePaymentID:  rec.Ref,
		StripeCustomerID: rec.CustomerID,
		Amount:           amount,
		Currency:         "usd",
		Status:           models.PaymentStatusSucceeded,
		PaymentType:      paymentType,
		PaymentMethod:    "card",
		Metadata:         rec.Metadata,
	}
	if err := f.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPostPaymentBookkeeping, err)
	}

	if paymentType == models.PaymentTypeConsultation {
		if _, err := f.submissions.TransitionByEmail(ctx, rec.Email,
			models.SubmissionStatusPending, models.SubmissionStatusInProgress); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPostPaymentBookkeeping, err)
		}
	}

	f.publish(ctx, events.TypePaymentRecorded, payment.ID, map[string]interface{}{
		"payment_id":   payment.ID,
		"email":        payment.Email,
		"amount":       payment.Amount,
		"payment_type": payment.PaymentType,
	})
	return payment, nil
}

// OnSkipAccountCreation keeps the visitor pending and sends them home.
func (f *Flow) OnSkipAccountCreation(ctx context.Context, s Session) (SkipResult, error) {
	if s.State != StatePaidPending || s.Email == "" {
		return SkipResult{}, ErrNoPendingPayment
	}

	state := models.PendingAccountState{Email: s.Email, PaymentID: s.PaymentID, Pending: true}
	if err := f.pending.Save(ctx, s.VisitorID, state); err != nil {
		return SkipResult{}, fmt.Errorf("persist pending state: %w", err)
	}
	return SkipResult{RedirectTo: HomePath, Delay: SkipDelay, DelayMS: SkipDelay.Milliseconds()}, nil
}

// SessionFromState rebuilds a visitor session from stored pending state.
func SessionFromState(visitorID string, state models.PendingAccountState) Session {
	s := Session{VisitorID: visitorID, Email: state.Email, PaymentID: state.PaymentID}
	if state.IsPending() {
		s.State = StatePaidPending
	}
	return s
}

// HasConsultationPaid reports whether a succeeded consultation payment
// exists for the account, or for the email when no account is given.
// Lookup errors count as not paid.
func (f *Flow) HasConsultationPaid(ctx context.Context, email, userID string) bool {
	if email == "" && userID == "" {
		return false
	}
	paid, err := f.payments.HasSucceeded(ctx, email, userID, models.PaymentTypeConsultation)
	if err != nil {
		log.Printf("Error checking consultation payment: %v", err)
		return false
	}
	return paid
}

func (f *Flow) publish(ctx context.Context, eventType, key string, data map[string]interface{}) {
	if f.events == nil {
		return
	}
	if err := f.events.Publish(ctx, eventType, key, data); err != nil {
		log.Printf("Failed to publish %s: %v", eventType, err)
	}
}
