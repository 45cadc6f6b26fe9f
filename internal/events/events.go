package events

import (
	"context"
	"encoding/json"
	"time"

	"tecnoroute-be/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	OrderCreated          = "order.created"
	OrderStatusChanged    = "order.status_changed"
	OrderDriverAssigned   = "order.driver_assigned"
	OrderUpdated          = "order.updated"
	OrderDeleted          = "order.deleted"
	ShipmentCreated       = "shipment.created"
	ShipmentStatusChanged = "shipment.status_changed"
	ShipmentAssigned      = "shipment.assigned"
)

// Event is the envelope written to the events topic. Key selects the
// partition so every event of one aggregate stays ordered.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(eventType, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

// Publishes happen on the request path one message at a time, so the writer
// flushes almost immediately instead of waiting out kafka-go's 1s batch.
const (
	writerBatchTimeout = 10 * time.Millisecond
	writerWriteTimeout = 5 * time.Second
)

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: writerBatchTimeout,
		WriteTimeout: writerWriteTimeout,
	}
}

func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Key),
		Value: data,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// PublishBestEffort publishes e and only logs a failure. Events are emitted
// after the owning transaction committed, so a broker outage must not fail
// the request.
func PublishBestEffort(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish event",
			zap.String("event_type", e.Type),
			zap.String("event_key", e.Key),
			zap.Error(err),
		)
	}
}
