package idempotency

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// memoryTable is a minimal in-memory DynamoDB table keyed by idempotency_key.
// It understands only the expressions Store sends.
type memoryTable struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	err   error
}

func newMemoryTable() *memoryTable {
	return &memoryTable{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(m map[string]types.AttributeValue) (string, error) {
	v, ok := m["idempotency_key"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key")
	}
	return v.Value, nil
}

func numberOf(m map[string]types.AttributeValue, name string) int64 {
	v, ok := m[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(v.Value, 10, 64)
	return n
}

func (m *memoryTable) PutItem(ctx context.Context, in *dyn.PutItemInput, _ ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	k, err := keyOf(in.Item)
	if err != nil {
		return nil, err
	}
	if existing, ok := m.items[k]; ok && in.ConditionExpression != nil {
		now := numberOf(in.ExpressionAttributeValues, ":now")
		if numberOf(existing, "expires_at") >= now {
			return nil, &types.ConditionalCheckFailedException{Message: strPtr("The conditional request failed")}
		}
	}
	m.items[k] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *memoryTable) GetItem(ctx context.Context, in *dyn.GetItemInput, _ ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	k, err := keyOf(in.Key)
	if err != nil {
		return nil, err
	}
	return &dyn.GetItemOutput{Item: m.items[k]}, nil
}

// UpdateItem applies a plain "SET a = :x, b = :y" expression.
func (m *memoryTable) UpdateItem(ctx context.Context, in *dyn.UpdateItemInput, _ ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	k, err := keyOf(in.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.items[k]
	if !ok {
		item = map[string]types.AttributeValue{"idempotency_key": in.Key["idempotency_key"]}
		m.items[k] = item
	}

	expr := strings.TrimPrefix(*in.UpdateExpression, "SET ")
	for _, assign := range strings.Split(expr, ",") {
		parts := strings.SplitN(assign, "=", 2)
		name := strings.TrimSpace(parts[0])
		if alias, ok := in.ExpressionAttributeNames[name]; ok {
			name = alias
		}
		item[name] = in.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
	}
	return &dyn.UpdateItemOutput{}, nil
}

func (m *memoryTable) DeleteItem(ctx context.Context, in *dyn.DeleteItemInput, _ ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	k, err := keyOf(in.Key)
	if err != nil {
		return nil, err
	}
	delete(m.items, k)
	return &dyn.DeleteItemOutput{}, nil
}

func strPtr(s string) *string { return &s }
