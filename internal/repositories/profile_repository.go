package repositories

import (
	"context"
	"errors"
	"log"
	"strings"

	"counsel/internal/models"
	"counsel/internal/repositories/cache"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile-related database operations
type ProfileRepository interface {
	// Create creates a new profile, returning ErrEmailTaken on a duplicate email
	Create(ctx context.Context, profile *models.Profile) error

	// GetByID retrieves a profile by account id
	GetByID(ctx context.Context, id string) (*models.Profile, error)

	// GetByEmail retrieves a profile by email address
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)

	// Update saves every column of profile
	Update(ctx context.Context, profile *models.Profile) error

	// UpdateRole changes the profile role
	UpdateRole(ctx context.Context, id, role string) (*models.Profile, error)

	// MarkConsultationPaid flags the profile as having a linked consultation payment
	MarkConsultationPaid(ctx context.Context, id string) error

	// IncrementTokenVersion invalidates every issued token for the profile
	IncrementTokenVersion(ctx context.Context, id string) error

	// List retrieves profiles with pagination
	List(ctx context.Context, offset, limit int) ([]models.Profile, int64, error)
}

type profileRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewProfileRepository creates a new instance of ProfileRepository. cache may be nil.
func NewProfileRepository(db *gorm.DB, cache *cache.CacheService) ProfileRepository {
	return &profileRepository{
		db:    db,
		cache: cache,
	}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return ErrEmailTaken
		}
		log.Printf("Failed to create profile %s: %v", profile.Email, err)
		return ErrDatabaseOperation
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	if r.cache != nil {
		if profile, err := r.cache.GetProfile(ctx, id); err == nil {
			return profile, nil
		}
	}

	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.CacheProfile(ctx, &profile); err != nil {
			log.Printf("Failed to cache profile: %v", err)
		}
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return ErrDatabaseOperation
	}
	r.invalidate(ctx, profile.ID)
	return nil
}

func (r *profileRepository) UpdateRole(ctx context.Context, id, role string) (*models.Profile, error) {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Update("role", role)
	if result.Error != nil {
		return nil, ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}
	r.invalidate(ctx, id)
	return r.GetByID(ctx, id)
}

func (r *profileRepository) MarkConsultationPaid(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Update("consultation_paid", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *profileRepository) IncrementTokenVersion(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error; err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *profileRepository) List(ctx context.Context, offset, limit int) ([]models.Profile, int64, error) {
	var profiles []models.Profile
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	result := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&profiles)
	if result.Error != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return profiles, total, nil
}

func (r *profileRepository) invalidate(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateProfile(ctx, id); err != nil {
		log.Printf("Warning: Failed to invalidate profile cache: %v", err)
	}
}
