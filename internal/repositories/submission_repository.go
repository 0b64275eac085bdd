package repositories

import (
	"context"
	"errors"
	"fmt"

	"counsel/internal/models"

	"gorm.io/gorm"
)

// SubmissionRepository defines the form_submissions table operations.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.FormSubmission) error
	FindByID(ctx context.Context, id string) (*models.FormSubmission, error)
	FindByEmail(ctx context.Context, email string) ([]models.FormSubmission, error)
	FindByUserID(ctx context.Context, userID string) ([]models.FormSubmission, error)
	List(ctx context.Context, formType string, offset, limit int) ([]models.FormSubmission, int64, error)

	// TransitionByEmail moves every submission for email from one status to
	// another in a single statement.
	TransitionByEmail(ctx context.Context, email, from, to string) (int64, error)

	// UpdateOwnerByEmail only touches rows whose user_id is still null.
	UpdateOwnerByEmail(ctx context.Context, email, userID string) (int64, error)

	UpdateStatus(ctx context.Context, id, status string, adminNotes *string) (*models.FormSubmission, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.FormSubmission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("insert form submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) FindByID(ctx context.Context, id string) (*models.FormSubmission, error) {
	var submission models.FormSubmission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByEmail(ctx context.Context, email string) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindByUserID(ctx context.Context, userID string) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) List(ctx context.Context, formType string, offset, limit int) ([]models.FormSubmission, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.FormSubmission{})
	if formType != "" {
		q = q.Where("form_type = ?", formType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}

	var submissions []models.FormSubmission
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&submissions).Error; err != nil {
		return nil, 0, ErrDatabaseOperation
	}
	return submissions, total, nil
}

func (r *submissionRepository) TransitionByEmail(ctx context.Context, email, from, to string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.FormSubmission{}).
		Where("email = ? AND status = ?", email, from).
		Update("status", to)
	if result.Error != nil {
		return 0, fmt.Errorf("update submissions for %s: %w", email, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *submissionRepository) UpdateOwnerByEmail(ctx context.Context, email, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.FormSubmission{}).
		Where("email = ? AND user_id IS NULL", email).
		Update("user_id", userID)
	if result.Error != nil {
		return 0, fmt.Errorf("link submissions for %s: %w", email, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *submissionRepository) UpdateStatus(ctx context.Context, id, status string, adminNotes *string) (*models.FormSubmission, error) {
	updates := map[string]interface{}{"status": status}
	if adminNotes != nil {
		updates["admin_notes"] = *adminNotes
	}

	result := r.db.WithContext(ctx).Model(&models.FormSubmission{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return nil, ErrSubmissionNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *submissionRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.FormSubmission{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
