// Package catalog serves the priced list of legal services and the
// consultation fee charged before intake review.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"counsel/internal/models"
	"counsel/internal/repositories"
)

const DefaultServiceSlug = "general-consultation"

// formTypeToServiceSlug maps intake forms to the service scheduled after review.
var formTypeToServiceSlug = map[string]string{
	"client-intake":              "general-consultation",
	"immigration-intake":         "immigration-law",
	"ai-governance-intake":       "ai-governance",
	"ma-intake":                  "mergers-acquisitions",
	"fraud-investigation-intake": "fraud-investigation",
	"contract-review-intake":     "contract-review",
	"data-privacy-intake":        "data-privacy",
	"employment-law-intake":      "employment-law",
	"entity-formation-intake":    "entity-formation",
	"ip-strategy-intake":         "ip-strategy",
	"fundraising-intake":         "fundraising",
}

// ServiceSlugForForm returns the service slug for formType.
func ServiceSlugForForm(formType string) string {
	if slug, ok := formTypeToServiceSlug[formType]; ok {
		return slug
	}
	return DefaultServiceSlug
}

// Cache is the subset of the Redis cache service the catalog uses.
type Cache interface {
	CacheActiveServices(ctx context.Context, services []models.Service) error
	GetActiveServices(ctx context.Context) ([]models.Service, error)
	CacheConsultationFee(ctx context.Context, fee float64) error
	GetConsultationFee(ctx context.Context) (float64, error)
	InvalidateCatalog(ctx context.Context) error
}

type Service interface {
	ListActive(ctx context.Context) ([]models.Service, error)
	ListAll(ctx context.Context) ([]models.Service, error)
	GetBySlug(ctx context.Context, slug string) (*models.Service, error)
	UpdatePrice(ctx context.Context, id string, price float64) (*models.Service, error)

	// ConsultationFee reads the price of the consultation service, falling
	// back to the configured default when the service or its price is missing.
	ConsultationFee(ctx context.Context) (float64, error)
}

const (
	DefaultConsultationSlug = "initial-consultation"
	DefaultConsultationFee  = 150.0
)

// Config selects the consultation service and its fallback fee.
type Config struct {
	ConsultationSlug string
	DefaultFee       float64
}

type service struct {
	repo  repositories.ServiceRepository
	cache Cache
	cfg   Config
}

// NewService creates the catalog service. cache may be nil.
func NewService(repo repositories.ServiceRepository, cache Cache, cfg Config) Service {
	if cfg.ConsultationSlug == "" {
		cfg.ConsultationSlug = DefaultConsultationSlug
	}
	return &service{repo: repo, cache: cache, cfg: cfg}
}

func (s *service) ListActive(ctx context.Context) ([]models.Service, error) {
	if s.cache != nil {
		if services, err := s.cache.GetActiveServices(ctx); err == nil {
			return services, nil
		}
	}

	services, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheActiveServices(ctx, services); err != nil {
			log.Printf("Failed to cache services: %v", err)
		}
	}
	return services, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Service, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	svc, err := s.repo.GetBySlug(ctx, slug)
	if errors.Is(err, repositories.ErrServiceNotFound) {
		return nil, ErrServiceNotFound
	}
	return svc, err
}

func (s *service) UpdatePrice(ctx context.Context, id string, price float64) (*models.Service, error) {
	if price < 0 {
		return nil, ErrInvalidPrice
	}

	svc, err := s.repo.UpdatePrice(ctx, id, price)
	if err != nil {
		if errors.Is(err, repositories.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCatalog(ctx); err != nil {
			log.Printf("Warning: Failed to invalidate catalog cache: %v", err)
		}
	}
	return svc, nil
}

func (s *service) ConsultationFee(ctx context.Context) (float64, error) {
	if s.cache != nil {
		if fee, err := s.cache.GetConsultationFee(ctx); err == nil {
			return fee, nil
		}
	}

	fee := s.cfg.DefaultFee
	svc, err := s.repo.GetBySlug(ctx, s.cfg.ConsultationSlug)
	switch {
	case errors.Is(err, repositories.ErrServiceNotFound):
	case err != nil:
		return 0, fmt.Errorf("read consultation fee: %w", err)
	case svc.Price != nil && *svc.Price > 0:
		fee = *svc.Price
	}

	if s.cache != nil {
		if err := s.cache.CacheConsultationFee(ctx, fee); err != nil {
			log.Printf("Failed to cache consultation fee: %v", err)
		}
	}
	return fee, nil
}

// PriceLabel renders the price shown next to a service.
func PriceLabel(svc *models.Service) string {
	if svc == nil || svc.Price == nil || *svc.Price == 0 {
		return "Contact for pricing"
	}

	switch svc.PriceType {
	case models.PriceTypeStartingAt:
		return "Starting at $" + formatAmount(*svc.Price)
	case models.PriceTypeFixed:
		return "$" + formatAmount(*svc.Price)
	case models.PriceTypeHourly:
		return "$" + strconv.FormatFloat(*svc.Price, 'f', -1, 64) + "/hour"
	default:
		return "Contact for pricing"
	}
}

// formatAmount groups the integer part of v in thousands.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	whole, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
