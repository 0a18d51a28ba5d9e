// internal/domain/payment/entity.go
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrPendingPaymentNotFound is returned when the ledger has no entry for a key
	ErrPendingPaymentNotFound = errors.New("pending payment not found")
	// ErrCheckoutInProgress is returned when another attempt holds the checkout lock
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// Status is the outcome of a charge attempt
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusDeclined  Status = "declined"
	StatusError     Status = "error"
)

// ChargeRequest asks the gateway to capture an amount
type ChargeRequest struct {
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	IdempotencyKey string            `json:"-"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// ChargeResult is the gateway's answer. A declined charge is a result, not an error.
type ChargeResult struct {
	Reference string `json:"reference"`
	Status    Status `json:"status"`
	Message   string `json:"message,omitempty"`
}

// Gateway captures payments
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// PendingPayment records a captured payment whose order is not yet persisted.
// Draft holds the encoded order so a retry can persist exactly what was paid for.
type PendingPayment struct {
	Key        string          `json:"key"`
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Draft      json.RawMessage `json:"draft"`
	CapturedAt time.Time       `json:"captured_at"`
}

// Ledger stores pending payments keyed by checkout idempotency key
type Ledger interface {
	Get(ctx context.Context, key string) (*PendingPayment, error)
	Put(ctx context.Context, p *PendingPayment) error
	Delete(ctx context.Context, key string) error
	// Lock marks a checkout key as in flight. It reports false when another
	// attempt already holds the key.
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	// Hold keeps the key locked for ttl whether or not it is currently held.
	// Used when a captured payment could not be recorded anywhere.
	Hold(ctx context.Context, key string, ttl time.Duration) error
}
