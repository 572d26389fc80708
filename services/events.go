package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/HSouheill/dispensary_backend/logger"
	"github.com/HSouheill/dispensary_backend/metrics"
)

const (
	EventCommissionCreated       = "commission.created"
	EventCommissionStatusChanged = "commission.status_changed"
	EventReferralConverted       = "referral.converted"
)

// Event is the JSON envelope written to the commission events topic
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	OwnerType  string      `json:"ownerType"`
	OwnerID    string      `json:"ownerId"`
	Payload    interface{} `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish keys every message by owner id so one reseller's events stay ordered
func (k *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		v, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.OwnerID),
			Value: v,
			Time:  e.OccurredAt,
		})
	}
	return k.writer.WriteMessages(ctx, msgs...)
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// LogPublisher writes events to the log; used when no brokers are configured
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, events ...Event) error {
	for _, e := range events {
		logger.WithFields(map[string]interface{}{
			"event":   e.Type,
			"ownerId": e.OwnerID,
		}).Debug("event not published: no broker configured")
	}
	return nil
}

func (LogPublisher) Close() error { return nil }

// RecordingPublisher keeps events in memory
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *RecordingPublisher) Publish(_ context.Context, events ...Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *RecordingPublisher) Close() error { return nil }

func (r *RecordingPublisher) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// EventBus stamps and publishes domain events. Publish failures are logged
// and counted; they never fail the caller.
type EventBus struct {
	publisher Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewEventBus(p Publisher, m *metrics.Metrics) *EventBus {
	if p == nil {
		p = LogPublisher{}
	}
	return &EventBus{publisher: p, metrics: m, now: time.Now}
}

func (b *EventBus) Emit(ctx context.Context, eventType, ownerType, ownerID string, payload interface{}) {
	if b == nil {
		return
	}
	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: b.now().UTC(),
		OwnerType:  ownerType,
		OwnerID:    ownerID,
		Payload:    payload,
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := b.publisher.Publish(ctx, evt)
	b.metrics.EventPublished(eventType, err)
	if err != nil {
		logger.WithError(err).WithField("event", eventType).Warn("failed to publish event")
	}
}

func (b *EventBus) Close() error {
	return b.publisher.Close()
}
