package reconcile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/metrics"
	"tecnoroute-be/internal/order"
	"tecnoroute-be/internal/shipment"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

const (
	ResultCreated      = "created"
	ResultExists       = "exists"
	ResultOrderMissing = "order_missing"
	ResultMalformed    = "malformed"
	ResultError        = "error"
)

type OrderLoader interface {
	Get(ctx context.Context, id uint, vis order.Visibility) (*order.Order, error)
}

type ShipmentEnsurer interface {
	EnsureForOrder(ctx context.Context, o *order.Order) (*shipment.Shipment, bool, error)
}

// Processor consumes reconcile messages and creates missing shipments.
type Processor struct {
	orders    OrderLoader
	shipments ShipmentEnsurer
	metrics   *metrics.Metrics
}

func NewProcessor(orders OrderLoader, shipments ShipmentEnsurer, m *metrics.Metrics) *Processor {
	return &Processor{orders: orders, shipments: shipments, metrics: m}
}

// Handle processes an SQS batch. Records that hit a transient failure are
// reported back so only they are redelivered.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, rec := range ev.Records {
		result, err := p.process(ctx, rec)
		p.metrics.Reconciled(result)
		if err != nil {
			logger.FromCtx(ctx).Error("reconcile failed",
				zap.String("message_id", rec.MessageId),
				zap.Error(err),
			)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
		}
	}
	return resp, nil
}

func (p *Processor) process(ctx context.Context, rec events.SQSMessage) (string, error) {
	log := logger.FromCtx(ctx).With(zap.String("message_id", rec.MessageId))

	var msg Message
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil || msg.OrderID == 0 {
		log.Warn("dropping malformed reconcile message", zap.String("body", rec.Body))
		return ResultMalformed, nil
	}
	log = log.With(zap.Uint("order_id", msg.OrderID), zap.String("reason", msg.Reason))

	o, err := p.orders.Get(ctx, msg.OrderID, order.Visibility{All: true})
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("order no longer exists, dropping")
		return ResultOrderMissing, nil
	}
	if err != nil {
		return ResultError, fmt.Errorf("load order %d: %w", msg.OrderID, err)
	}

	s, created, err := p.shipments.EnsureForOrder(ctx, o)
	if err != nil {
		return ResultError, fmt.Errorf("ensure shipment for order %d: %w", msg.OrderID, err)
	}

	if !created {
		log.Info("shipment already present", zap.String("tracking_number", s.TrackingNumber))
		return ResultExists, nil
	}
	log.Info("shipment created", zap.String("tracking_number", s.TrackingNumber))
	return ResultCreated, nil
}
