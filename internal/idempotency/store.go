package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tecnoroute-be/internal/awsclient"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// Store keeps idempotency records in a DynamoDB table keyed by
// idempotency_key, with expires_at as the table TTL attribute.
type Store struct {
	client    awsclient.DynamoDBAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

func NewStore(client awsclient.DynamoDBAPI, tableName string, ttl time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Begin claims key for a new request. It returns false when a live record
// already exists. Expired records are replaced since TTL deletion is lazy.
func (s *Store) Begin(ctx context.Context, key, method, path string) (bool, error) {
	now := s.now().UTC()
	item, err := attributevalue.MarshalMap(Record{
		Key:       key,
		Status:    StatusInProgress,
		Method:    method,
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(idempotency_key) OR expires_at < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}
	return true, nil
}

// Get returns the live record for key, or nil if none exists.
func (s *Store) Get(ctx context.Context, key string) (*Record, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            keyAttr(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var rec Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	if rec.ExpiresAt < s.now().Unix() {
		return nil, nil
	}
	return &rec, nil
}

// Complete stores the response of a finished request for later replay.
func (s *Store) Complete(ctx context.Context, key string, status int, body []byte) error {
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              keyAttr(key),
		UpdateExpression: aws.String("SET #s = :done, response_status = :rs, response_body = :rb, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":done": &types.AttributeValueMemberS{Value: StatusDone},
			":rs":   &types.AttributeValueMemberN{Value: strconv.Itoa(status)},
			":rb":   &types.AttributeValueMemberS{Value: string(body)},
			":ua":   &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		return fmt.Errorf("update item (complete): %w", err)
	}
	return nil
}

// Release drops the claim so the client can retry with the same key.
func (s *Store) Release(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       keyAttr(key),
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"idempotency_key": &types.AttributeValueMemberS{Value: key},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}
