package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

const (
	PaymentTypeConsultation = "consultation"
	PaymentTypeEmergency    = "emergency"
)

// Payment records money collected by Stripe. UserID is nil for anonymous payers.
type Payment struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           *string   `gorm:"type:uuid;index" json:"user_id"`
	PurchaseID       *string   `gorm:"type:uuid" json:"purchase_id"`
	Email            string    `gorm:"index;not null" json:"email"`
	StripePaymentID  string    `gorm:"index" json:"stripe_payment_id"`
	StripeCustomerID string    `json:"stripe_customer_id"`
	Amount           float64   `gorm:"not null" json:"amount"`
	Currency         string    `gorm:"default:'usd'" json:"currency"`
	Status           string    `gorm:"not null;default:'pending'" json:"status"`
	PaymentType      string    `gorm:"default:'consultation'" json:"payment_type"`
	PaymentMethod    string    `json:"payment_method"`
	ReceiptURL       string    `json:"receipt_url"`
	Metadata         JSON      `gorm:"type:jsonb" json:"metadata"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// CheckoutRequest is the body accepted by the checkout session endpoint.
// Amount is in minor units.
type CheckoutRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	SuccessURL  string `json:"successUrl"`
	CancelURL   string `json:"cancelUrl"`
	ServiceID   string `json:"serviceId"`
	ServiceName string `json:"serviceName"`
}

// CheckoutSession is what the checkout endpoint returns.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
