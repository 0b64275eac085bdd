package repositories

import (
	"context"
	"errors"

	"counsel/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceRepository defines the services table operations.
type ServiceRepository interface {
	ListActive(ctx context.Context) ([]models.Service, error)
	ListAll(ctx context.Context) ([]models.Service, error)
	GetBySlug(ctx context.Context, slug string) (*models.Service, error)
	GetByID(ctx context.Context, id string) (*models.Service, error)
	UpdatePrice(ctx context.Context, id string, price float64) (*models.Service, error)
	Upsert(ctx context.Context, service *models.Service) error
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order").
		Find(&services).Error
	return services, err
}

func (r *serviceRepository) ListAll(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Order("display_order").Find(&services).Error
	return services, err
}

func (r *serviceRepository) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) UpdatePrice(ctx context.Context, id string, price float64) (*models.Service, error) {
	result := r.db.WithContext(ctx).Model(&models.Service{}).
		Where("id = ?", id).
		Update("price", price)
	if result.Error != nil {
		return nil, ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return nil, ErrServiceNotFound
	}
	return r.GetByID(ctx, id)
}

// Upsert inserts service or refreshes its catalog columns when the slug exists.
func (r *serviceRepository) Upsert(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "short_description", "price_type", "features", "category", "display_order"}),
	}).Create(service).Error
}
