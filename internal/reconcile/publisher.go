package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"tecnoroute-be/internal/awsclient"
	"tecnoroute-be/internal/logger"
	"tecnoroute-be/internal/order"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// Publisher pushes reconcile requests onto an SQS queue.
type Publisher struct {
	client   awsclient.SQSAPI
	queueURL string
	now      func() time.Time
}

var _ order.ReconcileEnqueuer = (*Publisher)(nil)

func NewPublisher(client awsclient.SQSAPI, queueURL string) *Publisher {
	return &Publisher{client: client, queueURL: queueURL, now: time.Now}
}

func (p *Publisher) Enqueue(ctx context.Context, orderID uint, reason string) error {
	body, err := json.Marshal(Message{
		OrderID:     orderID,
		Reason:      reason,
		RequestedAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal reconcile message: %w", err)
	}

	id := strconv.FormatUint(uint64(orderID), 10)
	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(EventType)},
			"order_id":   {DataType: aws.String("String"), StringValue: aws.String(id)},
		},
	})
	if err != nil {
		return fmt.Errorf("send reconcile message: %w", err)
	}

	logger.FromCtx(ctx).Info("reconcile enqueued",
		zap.Uint("order_id", orderID),
		zap.String("reason", reason),
		zap.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}
