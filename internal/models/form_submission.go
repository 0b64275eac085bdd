package models

import "time"

const (
	SubmissionStatusPending    = "pending"
	SubmissionStatusReviewed   = "reviewed"
	SubmissionStatusInProgress = "in_progress"
	SubmissionStatusCompleted  = "completed"
	SubmissionStatusArchived   = "archived"
)

// FormSubmission is one intake form as submitted. UserID stays nil until
// the submitting email is linked to an account.
type FormSubmission struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *string   `gorm:"type:uuid;index" json:"user_id"`
	Email      string    `gorm:"index;not null" json:"email"`
	FormType   string    `gorm:"index;not null" json:"form_type"`
	FormData   JSON      `gorm:"type:jsonb" json:"form_data"`
	Status     string    `gorm:"not null;default:'pending'" json:"status"`
	AssignedTo *string   `gorm:"type:uuid" json:"assigned_to"`
	AdminNotes *string   `json:"admin_notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (FormSubmission) TableName() string { return "form_submissions" }

// IsValidSubmissionStatus reports whether status is a known submission status.
func IsValidSubmissionStatus(status string) bool {
	switch status {
	case SubmissionStatusPending, SubmissionStatusReviewed, SubmissionStatusInProgress,
		SubmissionStatusCompleted, SubmissionStatusArchived:
		return true
	}
	return false
}
