package repositories

import (
	"context"
	"errors"
	"fmt"

	"counsel/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the payments table operations.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	FindByStripePaymentID(ctx context.Context, ref string) (*models.Payment, error)
	FindByEmail(ctx context.Context, email string) ([]models.Payment, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Payment, error)

	// HasSucceeded looks up by userID when set, otherwise by email.
	HasSucceeded(ctx context.Context, email, userID, paymentType string) (bool, error)

	// UpdateOwner and UpdateOwnerByEmail only touch rows whose user_id is
	// still null and return the number of rows re-owned.
	UpdateOwner(ctx context.Context, paymentID, userID string) (int64, error)
	UpdateOwnerByEmail(ctx context.Context, email, userID string) (int64, error)

	SucceededTotals(ctx context.Context) (count int64, revenue float64, err error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByStripePaymentID(ctx context.Context, ref string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("stripe_payment_id = ?", ref).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) FindByUserID(ctx context.Context, userID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) HasSucceeded(ctx context.Context, email, userID, paymentType string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusSucceeded).
		Where("payment_type = ?", paymentType)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	} else {
		q = q.Where("email = ?", email)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *paymentRepository) UpdateOwner(ctx context.Context, paymentID, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND user_id IS NULL", paymentID).
		Update("user_id", userID)
	if result.Error != nil {
		return 0, fmt.Errorf("link payment %s: %w", paymentID, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *paymentRepository) UpdateOwnerByEmail(ctx context.Context, email, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("email = ? AND user_id IS NULL", email).
		Update("user_id", userID)
	if result.Error != nil {
		return 0, fmt.Errorf("link payments for %s: %w", email, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *paymentRepository) SucceededTotals(ctx context.Context) (count int64, revenue float64, err error) {
	row := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusSucceeded).
		Select("COUNT(*) as count, COALESCE(SUM(amount), 0) as revenue").
		Row()
	err = row.Scan(&count, &revenue)
	return
}
