package cache

import (
	"context"
	"fmt"
	"sync"

	"counsel/internal/models"

	"github.com/redis/go-redis/v9"
)

// Field names mirror the keys the browser used to keep.
const (
	fieldPaidEmail      = "consultation_paid_email"
	fieldPaymentID      = "payment_id"
	fieldPendingAccount = "pending_account_creation"
)

// PendingStore persists a visitor's pending-account state. Entries never expire.
type PendingStore interface {
	Load(ctx context.Context, visitorID string) (models.PendingAccountState, error)
	Save(ctx context.Context, visitorID string, state models.PendingAccountState) error
	Clear(ctx context.Context, visitorID string) error
}

type RedisPendingStore struct {
	client *redis.Client
}

func NewRedisPendingStore(client *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{client: client}
}

func pendingKey(visitorID string) string {
	return fmt.Sprintf("pending:visitor:%s", visitorID)
}

func (s *RedisPendingStore) Load(ctx context.Context, visitorID string) (models.PendingAccountState, error) {
	fields, err := s.client.HGetAll(ctx, pendingKey(visitorID)).Result()
	if err != nil {
		return models.PendingAccountState{}, fmt.Errorf("load pending state: %w", err)
	}
	return stateFromFields(fields), nil
}

func (s *RedisPendingStore) Save(ctx context.Context, visitorID string, state models.PendingAccountState) error {
	if err := s.client.HSet(ctx, pendingKey(visitorID), fieldsFromState(state)).Err(); err != nil {
		return fmt.Errorf("save pending state: %w", err)
	}
	return nil
}

func (s *RedisPendingStore) Clear(ctx context.Context, visitorID string) error {
	if err := s.client.Del(ctx, pendingKey(visitorID)).Err(); err != nil {
		return fmt.Errorf("clear pending state: %w", err)
	}
	return nil
}

func fieldsFromState(state models.PendingAccountState) map[string]interface{} {
	pending := "false"
	if state.Pending {
		pending = "true"
	}
	return map[string]interface{}{
		fieldPaidEmail:      state.Email,
		fieldPaymentID:      state.PaymentID,
		fieldPendingAccount: pending,
	}
}

func stateFromFields(fields map[string]string) models.PendingAccountState {
	return models.PendingAccountState{
		Email:     fields[fieldPaidEmail],
		PaymentID: fields[fieldPaymentID],
		Pending:   fields[fieldPendingAccount] == "true",
	}
}

// MemoryPendingStore keeps pending state in process memory.
type MemoryPendingStore struct {
	mu     sync.Mutex
	states map[string]models.PendingAccountState
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{states: make(map[string]models.PendingAccountState)}
}

func (s *MemoryPendingStore) Load(ctx context.Context, visitorID string) (models.PendingAccountState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[visitorID], nil
}

func (s *MemoryPendingStore) Save(ctx context.Context, visitorID string, state models.PendingAccountState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[visitorID] = state
	return nil
}

func (s *MemoryPendingStore) Clear(ctx context.Context, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, visitorID)
	return nil
}
