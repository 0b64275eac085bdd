package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"counsel/internal/validation"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"
)

const EventCheckoutCompleted = "checkout.session.completed"

// CompletedCheckout is the part of a completed session the payment flow needs.
// Email is normalized.
type CompletedCheckout struct {
	SessionID   string
	Email       string
	PaymentType string
	ServiceID   string
	CustomerID  string
	AmountTotal int64
	Paid        bool
}

// Amount returns the session total in major units.
func (c *CompletedCheckout) Amount() float64 {
	return float64(c.AmountTotal) / 100
}

func (s *service) ParseWebhook(payload []byte, signature string) (*CompletedCheckout, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if event.Type != EventCheckoutCompleted || event.Data == nil {
		return nil, ErrUnhandledEvent
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	out := completedFromSession(&sess)
	if out.Email == "" {
		return nil, ErrMissingEmail
	}
	return out, nil
}

func (s *service) ConfirmSession(ctx context.Context, sessionID, email string) (*CompletedCheckout, error) {
	if sessionID == "" || email == "" {
		return nil, ErrMissingFields
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && (serr.HTTPStatusCode == http.StatusNotFound || serr.Code == stripe.ErrorCodeResourceMissing) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	out := completedFromSession(sess)
	if !out.Paid {
		return nil, ErrSessionUnpaid
	}
	if out.Email != validation.NormalizeEmail(email) {
		return nil, ErrEmailMismatch
	}
	return out, nil
}

// completedFromSession prefers the metadata email over the customer email.
func completedFromSession(sess *stripe.CheckoutSession) *CompletedCheckout {
	out := &CompletedCheckout{
		SessionID:   sess.ID,
		Email:       validation.NormalizeEmail(sess.Metadata["email"]),
		PaymentType: sess.Metadata["payment_type"],
		ServiceID:   sess.Metadata["service_id"],
		AmountTotal: sess.AmountTotal,
		Paid:        sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}
	if out.Email == "" {
		out.Email = validation.NormalizeEmail(sess.CustomerEmail)
	}
	if sess.Customer != nil {
		out.CustomerID = sess.Customer.ID
	}
	return out
}
