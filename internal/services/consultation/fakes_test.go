package consultation

import (
	"context"
	"errors"
	"sync"

	"counsel/internal/models"
	"counsel/internal/repositories"

	"github.com/google/uuid"
)

// memDB is an in-memory record store shared by the fake repositories.
type memDB struct {
	mu          sync.Mutex
	payments    []*models.Payment
	submissions []*models.FormSubmission
	marked      map[string]bool
	markErr     error
}

func newMemDB() *memDB {
	return &memDB{marked: map[string]bool{}}
}

func (db *memDB) addSubmission(email, status string, userID *string) *models.FormSubmission {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := &models.FormSubmission{ID: uuid.NewString(), Email: email, Status: status, UserID: userID}
	db.submissions = append(db.submissions, s)
	return s
}

func (db *memDB) addPayment(email string, userID *string) *models.Payment {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := &models.Payment{ID: uuid.NewString(), Email: email, Status: models.PaymentStatusSucceeded,
		PaymentType: models.PaymentTypeConsultation, UserID: userID}
	db.payments = append(db.payments, p)
	return p
}

type fakePayments struct{ db *memDB }

func (f fakePayments) Create(ctx context.Context, p *models.Payment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	f.db.payments = append(f.db.payments, &cp)
	return nil
}

func (f fakePayments) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.payments {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (f fakePayments) FindByStripePaymentID(ctx context.Context, ref string) (*models.Payment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.payments {
		if p.StripePaymentID == ref {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (f fakePayments) FindByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Payment
	for _, p := range f.db.payments {
		if p.Email == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f fakePayments) FindByUserID(ctx context.Context, userID string) ([]models.Payment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Payment
	for _, p := range f.db.payments {
		if p.UserID != nil && *p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f fakePayments) HasSucceeded(ctx context.Context, email, userID, paymentType string) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, p := range f.db.payments {
		if p.Status != models.PaymentStatusSucceeded || p.PaymentType != paymentType {
			continue
		}
		if userID != "" && p.UserID != nil && *p.UserID == userID {
			return true, nil
		}
		if userID == "" && p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f fakePayments) UpdateOwner(ctx context.Context, paymentID, userID string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, p := range f.db.payments {
		if p.ID == paymentID && p.UserID == nil {
			p.UserID = models.StringPtr(userID)
			n++
		}
	}
	return n, nil
}

func (f fakePayments) UpdateOwnerByEmail(ctx context.Context, email, userID string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, p := range f.db.payments {
		if p.Email == email && p.UserID == nil {
			p.UserID = models.StringPtr(userID)
			n++
		}
	}
	return n, nil
}

func (f fakePayments) SucceededTotals(ctx context.Context) (int64, float64, error) {
	return 0, 0, errors.New("not implemented")
}

type fakeSubmissions struct{ db *memDB }

func (f fakeSubmissions) Create(ctx context.Context, s *models.FormSubmission) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	cp := *s
	f.db.submissions = append(f.db.submissions, &cp)
	return nil
}

func (f fakeSubmissions) FindByID(ctx context.Context, id string) (*models.FormSubmission, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.submissions {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrSubmissionNotFound
}

func (f fakeSubmissions) FindByEmail(ctx context.Context, email string) ([]models.FormSubmission, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.FormSubmission
	for _, s := range f.db.submissions {
		if s.Email == email {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f fakeSubmissions) FindByUserID(ctx context.Context, userID string) ([]models.FormSubmission, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.FormSubmission
	for _, s := range f.db.submissions {
		if s.UserID != nil && *s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f fakeSubmissions) List(ctx context.Context, formType string, offset, limit int) ([]models.FormSubmission, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (f fakeSubmissions) TransitionByEmail(ctx context.Context, email, from, to string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, s := range f.db.submissions {
		if s.Email == email && s.Status == from {
			s.Status = to
			n++
		}
	}
	return n, nil
}

func (f fakeSubmissions) UpdateOwnerByEmail(ctx context.Context, email, userID string) (int64, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var n int64
	for _, s := range f.db.submissions {
		if s.Email == email && s.UserID == nil {
			s.UserID = models.StringPtr(userID)
			n++
		}
	}
	return n, nil
}

func (f fakeSubmissions) UpdateStatus(ctx context.Context, id, status string, notes *string) (*models.FormSubmission, error) {
	return nil, errors.New("not implemented")
}

func (f fakeSubmissions) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, errors.New("not implemented")
}

type fakeProfiles struct{ db *memDB }

func (f fakeProfiles) MarkConsultationPaid(ctx context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.markErr != nil {
		return f.db.markErr
	}
	f.db.marked[id] = true
	return nil
}

type fixedFee float64

func (f fixedFee) ConsultationFee(ctx context.Context) (float64, error) { return float64(f), nil }

type failingFee struct{ err error }

func (f failingFee) ConsultationFee(ctx context.Context) (float64, error) { return 0, f.err }

type recordedEvent struct {
	Type string
	Key  string
}

type eventLog struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (l *eventLog) Publish(ctx context.Context, eventType, key string, data map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, recordedEvent{Type: eventType, Key: key})
	return nil
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}
