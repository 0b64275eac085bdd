package repositories

import (
	"context"

	"counsel/internal/models"

	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	FindByUserID(ctx context.Context, userID string) ([]models.Purchase, error)
	List(ctx context.Context, offset, limit int) ([]models.Purchase, int64, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepository) FindByUserID(ctx context.Context, userID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("FormSubmission").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepository) List(ctx context.Context, offset, limit int) ([]models.Purchase, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Purchase{}).Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	var purchases []models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("FormSubmission").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return purchases, total, nil
}
