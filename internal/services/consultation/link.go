package consultation

import (
	"context"
	"fmt"
	"log"

	"counsel/internal/events"
	"counsel/internal/models"
	"counsel/internal/repositories"
)

// LinkResult counts the rows re-owned by one LinkToAccount run.
type LinkResult struct {
	PaymentsLinked    int64 `json:"payments_linked"`
	SubmissionsLinked int64 `json:"submissions_linked"`
	ProfileMarked     bool  `json:"profile_marked"`
	StateCleared      bool  `json:"state_cleared"`
}

type Linker struct {
	payments    repositories.PaymentRepository
	submissions repositories.SubmissionRepository
	profiles    ProfileMarker
	pending     PendingStore
	events      EventPublisher
}

func NewLinker(
	payments repositories.PaymentRepository,
	submissions repositories.SubmissionRepository,
	profiles ProfileMarker,
	pending PendingStore,
	events EventPublisher,
) *Linker {
	return &Linker{
		payments:    payments,
		submissions: submissions,
		profiles:    profiles,
		pending:     pending,
		events:      events,
	}
}

// LinkToAccount re-owns the orphaned payments and submissions of email to
// userID. The visitor's pending state is cleared only after both re-own
// steps succeed. The profile is flagged when a payment was re-owned.
// Only rows with a null owner are touched, so the first account to link
// an email keeps its rows.
func (l *Linker) LinkToAccount(ctx context.Context, visitorID, userID, email string, state models.PendingAccountState) (LinkResult, error) {
	var res LinkResult
	if userID == "" {
		return res, ErrMissingAccount
	}
	if email == "" {
		return res, ErrMissingEmail
	}

	var err error
	if state.PaymentID != "" {
		res.PaymentsLinked, err = l.payments.UpdateOwner(ctx, state.PaymentID, userID)
	} else {
		res.PaymentsLinked, err = l.payments.UpdateOwnerByEmail(ctx, email, userID)
	}
	if err != nil {
		log.Printf("Error linking payments for %s: %v", email, err)
		return res, fmt.Errorf("link payments: %w", err)
	}

	res.SubmissionsLinked, err = l.submissions.UpdateOwnerByEmail(ctx, email, userID)
	if err != nil {
		log.Printf("Error linking form submissions for %s: %v", email, err)
		return res, fmt.Errorf("link form submissions: %w", err)
	}

	if l.profiles != nil && res.PaymentsLinked > 0 {
		if err := l.profiles.MarkConsultationPaid(ctx, userID); err != nil {
			log.Printf("Profile update skipped: %v", err)
		} else {
			res.ProfileMarked = true
		}
	}

	if visitorID != "" {
		if err := l.pending.Clear(ctx, visitorID); err != nil {
			log.Printf("Failed to clear pending state for visitor %s: %v", visitorID, err)
		} else {
			res.StateCleared = true
		}
	}

	if res.PaymentsLinked > 0 || res.SubmissionsLinked > 0 {
		l.publish(ctx, userID, email, res)
	}
	return res, nil
}

func (l *Linker) publish(ctx context.Context, userID, email string, res LinkResult) {
	if l.events == nil {
		return
	}
	err := l.events.Publish(ctx, events.TypeConsultationLinked, userID, map[string]interface{}{
		"user_id":            userID,
		"email":              email,
		"payments_linked":    res.PaymentsLinked,
		"submissions_linked": res.SubmissionsLinked,
	})
	if err != nil {
		log.Printf("Failed to publish %s: %v", events.TypeConsultationLinked, err)
	}
}
