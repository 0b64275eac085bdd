// Package intake validates and stores practice-area intake forms.
package intake

import (
	"context"
	"fmt"
	"log"

	"counsel/internal/events"
	"counsel/internal/models"
	"counsel/internal/repositories"
	"counsel/internal/services/catalog"
	"counsel/internal/validation"
)

// Forms that never require the consultation fee.
var freeForms = map[string]bool{
	"contact": true,
}

// PaymentChecker reports whether an email or account already paid the fee.
type PaymentChecker interface {
	HasConsultationPaid(ctx context.Context, email, userID string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data map[string]interface{}) error
}

type SubmitInput struct {
	FormType string
	Data     map[string]interface{}
	// UserID and UserEmail come from the access token when present.
	UserID    string
	UserEmail string
}

type SubmitResult struct {
	Submission   *models.FormSubmission `json:"submission"`
	NeedsPayment bool                   `json:"needsPayment"`
	ServiceSlug  string                 `json:"serviceSlug"`
}

type Service interface {
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)
}

type service struct {
	submissions repositories.SubmissionRepository
	payments    PaymentChecker
	events      EventPublisher
}

func NewService(submissions repositories.SubmissionRepository, payments PaymentChecker, events EventPublisher) Service {
	return &service{submissions: submissions, payments: payments, events: events}
}

func (s *service) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if !validation.IsFormType(in.FormType) {
		return nil, ErrUnknownFormType
	}

	data := in.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["email"]; !ok && in.UserEmail != "" {
		data["email"] = in.UserEmail
	}

	v := validation.New()
	v.Form(in.FormType, data)
	email, _ := data["email"].(string)
	email = validation.NormalizeEmail(email)
	v.Check(email != "", "email", validation.MsgRequired)
	if !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	submission := &models.FormSubmission{
		UserID:   models.StringPtr(in.UserID),
		Email:    email,
		FormType: in.FormType,
		FormData: models.NewJSON(data),
		Status:   models.SubmissionStatusPending,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("submit %s: %w", in.FormType, err)
	}

	needsPayment := !freeForms[in.FormType] && !s.payments.HasConsultationPaid(ctx, email, in.UserID)

	if s.events != nil {
		err := s.events.Publish(ctx, events.TypeSubmissionCreated, submission.ID, map[string]interface{}{
			"submission_id": submission.ID,
			"form_type":     submission.FormType,
			"email":         submission.Email,
			"needs_payment": needsPayment,
		})
		if err != nil {
			log.Printf("Failed to publish %s: %v", events.TypeSubmissionCreated, err)
		}
	}

	return &SubmitResult{
		Submission:   submission,
		NeedsPayment: needsPayment,
		ServiceSlug:  catalog.ServiceSlugForForm(in.FormType),
	}, nil
}
