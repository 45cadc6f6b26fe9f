package idempotency

import "time"

const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// HeaderKey is the request header carrying the client's idempotency key.
const HeaderKey = "Idempotency-Key"

// Record is the item persisted per idempotency key.
type Record struct {
	Key            string    `dynamodbav:"idempotency_key"`
	Status         string    `dynamodbav:"status"`
	Method         string    `dynamodbav:"method"`
	Path           string    `dynamodbav:"path"`
	ResponseStatus int       `dynamodbav:"response_status,omitempty"`
	ResponseBody   string    `dynamodbav:"response_body,omitempty"`
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	ExpiresAt      int64     `dynamodbav:"expires_at"`
}
