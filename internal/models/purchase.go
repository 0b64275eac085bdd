package models

import "time"

const (
	PurchaseStatusPending    = "pending"
	PurchaseStatusPaid       = "paid"
	PurchaseStatusInProgress = "in_progress"
	PurchaseStatusCompleted  = "completed"
	PurchaseStatusCancelled  = "cancelled"
)

// Purchase links a submission to a service. Nothing in the payment linking
// flow requires one to exist.
type Purchase struct {
	ID               string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           *string         `gorm:"type:uuid;index" json:"user_id"`
	ServiceID        *string         `gorm:"type:uuid" json:"service_id"`
	FormSubmissionID *string         `gorm:"type:uuid" json:"form_submission_id"`
	Status           string          `gorm:"not null;default:'pending'" json:"status"`
	Amount           *float64        `json:"amount"`
	Notes            string          `json:"notes"`
	Service          *Service        `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	FormSubmission   *FormSubmission `gorm:"foreignKey:FormSubmissionID" json:"form_submission,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (Purchase) TableName() string { return "purchases" }
