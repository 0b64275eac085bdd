package dashboard

import (
	"context"
	"errors"
	"fmt"

	"counsel/internal/models"
	"counsel/internal/repositories"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidStatus = errors.New("invalid submission status")
	ErrInvalidRole   = errors.New("invalid role")
	ErrNotFound      = errors.New("not found")
)

type Service interface {
	GetUserDashboard(ctx context.Context, userID string) (*models.UserDashboard, error)
	GetAdminStats(ctx context.Context) (*models.AdminStats, error)

	ListSubmissions(ctx context.Context, formType string, offset, limit int) ([]models.FormSubmission, int64, error)
	UpdateSubmissionStatus(ctx context.Context, id, status string, adminNotes *string) (*models.FormSubmission, error)
	ListUsers(ctx context.Context, offset, limit int) ([]models.Profile, int64, error)
	UpdateUserRole(ctx context.Context, id, role string) (*models.Profile, error)
	ListPurchases(ctx context.Context, offset, limit int) ([]models.Purchase, int64, error)
}

type service struct {
	profiles    repositories.ProfileRepository
	submissions repositories.SubmissionRepository
	payments    repositories.PaymentRepository
	purchases   repositories.PurchaseRepository
}

func NewService(
	profiles repositories.ProfileRepository,
	submissions repositories.SubmissionRepository,
	payments repositories.PaymentRepository,
	purchases repositories.PurchaseRepository,
) Service {
	return &service{
		profiles:    profiles,
		submissions: submissions,
		payments:    payments,
		purchases:   purchases,
	}
}

func (s *service) GetUserDashboard(ctx context.Context, userID string) (*models.UserDashboard, error) {
	out := &models.UserDashboard{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.profiles.GetByID(gctx, userID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		out.Profile = profile
		return nil
	})
	g.Go(func() error {
		submissions, err := s.submissions.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("get submissions: %w", err)
		}
		out.Submissions = submissions
		return nil
	})
	g.Go(func() error {
		payments, err := s.payments.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("get payments: %w", err)
		}
		out.Payments = payments
		return nil
	})
	g.Go(func() error {
		purchases, err := s.purchases.FindByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("get purchases: %w", err)
		}
		out.Purchases = purchases
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (s *service) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	byStatus, err := s.submissions.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}

	stats := &models.AdminStats{ByStatus: byStatus}
	for _, n := range byStatus {
		stats.TotalSubmissions += n
	}
	stats.PendingSubmissions = byStatus[models.SubmissionStatusPending]

	if _, stats.TotalUsers, err = s.profiles.List(ctx, 0, 1); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.SucceededPayments, stats.Revenue, err = s.payments.SucceededTotals(ctx); err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	return stats, nil
}

func (s *service) ListSubmissions(ctx context.Context, formType string, offset, limit int) ([]models.FormSubmission, int64, error) {
	return s.submissions.List(ctx, formType, offset, limit)
}

func (s *service) UpdateSubmissionStatus(ctx context.Context, id, status string, adminNotes *string) (*models.FormSubmission, error) {
	if !models.IsValidSubmissionStatus(status) {
		return nil, ErrInvalidStatus
	}
	submission, err := s.submissions.UpdateStatus(ctx, id, status, adminNotes)
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return nil, ErrNotFound
	}
	return submission, err
}

func (s *service) ListUsers(ctx context.Context, offset, limit int) ([]models.Profile, int64, error) {
	return s.profiles.List(ctx, offset, limit)
}

func (s *service) UpdateUserRole(ctx context.Context, id, role string) (*models.Profile, error) {
	if !models.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	profile, err := s.profiles.UpdateRole(ctx, id, role)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, ErrNotFound
	}
	return profile, err
}

func (s *service) ListPurchases(ctx context.Context, offset, limit int) ([]models.Purchase, int64, error) {
	return s.purchases.List(ctx, offset, limit)
}
