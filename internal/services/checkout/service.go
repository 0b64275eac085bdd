// Package checkout creates Stripe Checkout sessions for consultation fees
// and reads the completion webhook.
package checkout

import (
	"context"
	"strings"

	"counsel/internal/models"
	"counsel/internal/validation"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/checkout/session"
)

const (
	EmergencyServiceID = "emergency-consultation"

	defaultProductName        = "Legal Consultation"
	defaultProductDescription = "Initial consultation and case review with access to all intake forms"
	emergencyProductName      = "Emergency Legal Consultation"
	emergencyProductDesc      = "Urgent legal consultation with response within 2 hours"
)

// SessionCreator creates hosted checkout sessions.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// SessionRetriever reads a checkout session back from Stripe.
type SessionRetriever interface {
	Get(id string) (*stripe.CheckoutSession, error)
}

type SessionClient interface {
	SessionCreator
	SessionRetriever
}

type stripeSessions struct{}

// NewStripeSessions sets the Stripe API key and returns the live session client.
func NewStripeSessions(secretKey string) SessionClient {
	stripe.Key = secretKey
	return stripeSessions{}
}

func (stripeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

func (stripeSessions) Get(id string) (*stripe.CheckoutSession, error) {
	return session.Get(id, nil)
}

type Config struct {
	// SiteOrigin is used when the request carries no Origin header.
	SiteOrigin    string
	WebhookSecret string
}

type Service interface {
	CreateSession(ctx context.Context, req models.CheckoutRequest, origin string) (*models.CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*CompletedCheckout, error)
	// ConfirmSession checks with Stripe that sessionID was paid by email.
	ConfirmSession(ctx context.Context, sessionID, email string) (*CompletedCheckout, error)
}

type service struct {
	sessions SessionClient
	cfg      Config
}

func NewService(sessions SessionClient, cfg Config) Service {
	return &service{sessions: sessions, cfg: cfg}
}

func (s *service) CreateSession(ctx context.Context, req models.CheckoutRequest, origin string) (*models.CheckoutSession, error) {
	if req.Email == "" || req.Amount <= 0 {
		return nil, ErrMissingFields
	}
	if origin == "" {
		origin = s.cfg.SiteOrigin
	}

	params := BuildParams(req, origin)
	params.Context = ctx

	sess, err := s.sessions.New(params)
	if err != nil {
		return nil, err
	}
	return &models.CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// BuildParams turns a checkout request into Stripe session parameters.
// Amount is passed through as minor units.
func BuildParams(req models.CheckoutRequest, origin string) *stripe.CheckoutSessionParams {
	name, description := ProductDetails(req.ServiceID, req.ServiceName)
	origin = strings.TrimRight(origin, "/")

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = origin + "/payment-success"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = origin + "/dashboard?tab=emergency"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(name),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(cancelURL),
		CustomerEmail: stripe.String(validation.NormalizeEmail(req.Email)),
	}
	for k, v := range Metadata(req) {
		params.AddMetadata(k, v)
	}
	return params
}

// ProductDetails picks the line item name and description.
func ProductDetails(serviceID, serviceName string) (string, string) {
	if serviceID == EmergencyServiceID {
		return emergencyProductName, emergencyProductDesc
	}
	if serviceName == "" {
		serviceName = defaultProductName
	}
	return serviceName, defaultProductDescription
}

// Metadata is attached to every session and read back by the webhook.
func Metadata(req models.CheckoutRequest) map[string]string {
	paymentType := models.PaymentTypeConsultation
	if req.ServiceID == EmergencyServiceID {
		paymentType = models.PaymentTypeEmergency
	}
	serviceID := req.ServiceID
	if serviceID == "" {
		serviceID = "consultation"
	}
	return map[string]string{
		"email":        validation.NormalizeEmail(req.Email),
		"payment_type": paymentType,
		"service_id":   serviceID,
	}
}
