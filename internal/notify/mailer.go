package notify

import (
	"context"
	"encoding/json"
	"time"

	"tecnoroute-be/internal/events"
	"tecnoroute-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer hands outgoing email to whatever delivers it.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// KafkaMailer publishes messages on the email topic for the delivery worker.
type KafkaMailer struct {
	writer events.MessageWriter
}

func NewKafkaMailer(w events.MessageWriter) *KafkaMailer {
	return &KafkaMailer{writer: w}
}

func (m *KafkaMailer) Send(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return m.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: data,
		Time:  time.Now().UTC(),
	})
}

// LogMailer only logs. Used when Kafka is not configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	logger.FromCtx(ctx).Info("email not delivered, mailer disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
