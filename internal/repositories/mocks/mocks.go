// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"counsel/internal/models"
	"counsel/internal/repositories"

	"github.com/stretchr/testify/mock"
)

var (
	_ repositories.PaymentRepository    = (*PaymentRepository)(nil)
	_ repositories.SubmissionRepository = (*SubmissionRepository)(nil)
	_ repositories.ProfileRepository    = (*ProfileRepository)(nil)
	_ repositories.ServiceRepository    = (*ServiceRepository)(nil)
	_ repositories.PurchaseRepository   = (*PurchaseRepository)(nil)
)

type PaymentRepository struct {
	mock.Mock
}

func (m *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepository) FindByStripePaymentID(ctx context.Context, ref string) (*models.Payment, error) {
	args := m.Called(ctx, ref)
	p, _ := args.Get(0).(*models.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepository) FindByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).([]models.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepository) FindByUserID(ctx context.Context, userID string) ([]models.Payment, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]models.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepository) HasSucceeded(ctx context.Context, email, userID, paymentType string) (bool, error) {
	args := m.Called(ctx, email, userID, paymentType)
	return args.Bool(0), args.Error(1)
}

func (m *PaymentRepository) UpdateOwner(ctx context.Context, paymentID, userID string) (int64, error) {
	args := m.Called(ctx, paymentID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepository) UpdateOwnerByEmail(ctx context.Context, email, userID string) (int64, error) {
	args := m.Called(ctx, email, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepository) SucceededTotals(ctx context.Context) (int64, float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(float64), args.Error(2)
}

type SubmissionRepository struct {
	mock.Mock
}

func (m *SubmissionRepository) Create(ctx context.Context, submission *models.FormSubmission) error {
	return m.Called(ctx, submission).Error(0)
}

func (m *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.FormSubmission, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.FormSubmission)
	return s, args.Error(1)
}

func (m *SubmissionRepository) FindByEmail(ctx context.Context, email string) ([]models.FormSubmission, error) {
	args := m.Called(ctx, email)
	s, _ := args.Get(0).([]models.FormSubmission)
	return s, args.Error(1)
}

func (m *SubmissionRepository) FindByUserID(ctx context.Context, userID string) ([]models.FormSubmission, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).([]models.FormSubmission)
	return s, args.Error(1)
}

func (m *SubmissionRepository) List(ctx context.Context, formType string, offset, limit int) ([]models.FormSubmission, int64, error) {
	args := m.Called(ctx, formType, offset, limit)
	s, _ := args.Get(0).([]models.FormSubmission)
	return s, args.Get(1).(int64), args.Error(2)
}

func (m *SubmissionRepository) TransitionByEmail(ctx context.Context, email, from, to string) (int64, error) {
	args := m.Called(ctx, email, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SubmissionRepository) UpdateOwnerByEmail(ctx context.Context, email, userID string) (int64, error) {
	args := m.Called(ctx, email, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SubmissionRepository) UpdateStatus(ctx context.Context, id, status string, adminNotes *string) (*models.FormSubmission, error) {
	args := m.Called(ctx, id, status, adminNotes)
	s, _ := args.Get(0).(*models.FormSubmission)
	return s, args.Error(1)
}

func (m *SubmissionRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(map[string]int64)
	return c, args.Error(1)
}

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *ProfileRepository) UpdateRole(ctx context.Context, id, role string) (*models.Profile, error) {
	args := m.Called(ctx, id, role)
	p, _ := args.Get(0).(*models.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepository) MarkConsultationPaid(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProfileRepository) IncrementTokenVersion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProfileRepository) List(ctx context.Context, offset, limit int) ([]models.Profile, int64, error) {
	args := m.Called(ctx, offset, limit)
	p, _ := args.Get(0).([]models.Profile)
	return p, args.Get(1).(int64), args.Error(2)
}

type ServiceRepository struct {
	mock.Mock
}

func (m *ServiceRepository) ListActive(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]models.Service)
	return s, args.Error(1)
}

func (m *ServiceRepository) ListAll(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]models.Service)
	return s, args.Error(1)
}

func (m *ServiceRepository) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	args := m.Called(ctx, slug)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *ServiceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *ServiceRepository) UpdatePrice(ctx context.Context, id string, price float64) (*models.Service, error) {
	args := m.Called(ctx, id, price)
	s, _ := args.Get(0).(*models.Service)
	return s, args.Error(1)
}

func (m *ServiceRepository) Upsert(ctx context.Context, service *models.Service) error {
	return m.Called(ctx, service).Error(0)
}

type PurchaseRepository struct {
	mock.Mock
}

func (m *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *PurchaseRepository) FindByUserID(ctx context.Context, userID string) ([]models.Purchase, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]models.Purchase)
	return p, args.Error(1)
}

func (m *PurchaseRepository) List(ctx context.Context, offset, limit int) ([]models.Purchase, int64, error) {
	args := m.Called(ctx, offset, limit)
	p, _ := args.Get(0).([]models.Purchase)
	return p, args.Get(1).(int64), args.Error(2)
}
