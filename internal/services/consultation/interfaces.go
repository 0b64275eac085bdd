package consultation

import (
	"context"

	"counsel/internal/models"
)

// FeeSource reads the current consultation fee.
type FeeSource interface {
	ConsultationFee(ctx context.Context) (float64, error)
}

// PendingStore persists a visitor's PendingAccountState.
type PendingStore interface {
	Load(ctx context.Context, visitorID string) (models.PendingAccountState, error)
	Save(ctx context.Context, visitorID string, state models.PendingAccountState) error
	Clear(ctx context.Context, visitorID string) error
}

// EventPublisher receives domain events. Publishing is fire-and-forget.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data map[string]interface{}) error
}

// ProfileMarker flags an account once a consultation payment is linked to it.
type ProfileMarker interface {
	MarkConsultationPaid(ctx context.Context, id string) error
}
