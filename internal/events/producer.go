// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	TypePaymentRecorded    = "payment.recorded"
	TypeSubmissionCreated  = "submission.created"
	TypeConsultationLinked = "consultation.linked"
)

const (
	// batchTimeout bounds how long a synchronous write waits for a batch to fill.
	batchTimeout   = 10 * time.Millisecond
	publishTimeout = 2 * time.Second
)

// Event is the envelope written as the message value.
type Event struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// ProducerConfig configures the Kafka writer. Username enables SASL/TLS.
type ProducerConfig struct {
	Broker   string
	Topic    string
	Username string
	Password string
}

type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns nil when no broker is configured. A nil producer
// accepts Publish calls and drops them.
func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.Broker == "" || cfg.Topic == "" {
		return nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: batchTimeout,
		WriteTimeout: 10 * time.Second,
	}
	if cfg.Username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{Username: cfg.Username, Password: cfg.Password},
			TLS:  &tls.Config{},
		}
	}
	return &Producer{writer: writer}
}

// Publish writes one event keyed by key. Failures are returned but callers
// treat events as fire-and-forget.
func (p *Producer) Publish(ctx context.Context, eventType, key string, data map[string]interface{}) error {
	if p == nil || p.writer == nil {
		log.Printf("Kafka producer not ready - skip publish %s", eventType)
		return nil
	}

	value, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
