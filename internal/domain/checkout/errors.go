package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/repairparts-backend/internal/domain/payment"
)

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrInventoryUnavailable = errors.New("inventory service unavailable")
	ErrIllegalTransition    = errors.New("illegal transition of checkout state")
	ErrIdempotencyKey       = errors.New("idempotency key is required")
	// ErrCheckoutKeyConflict means the key already has an order paid by a different charge
	ErrCheckoutKeyConflict = errors.New("checkout key already has an order with another payment")
)

// IssueKind classifies a blocking validation issue
type IssueKind string

const (
	IssueProductUnavailable IssueKind = "product_unavailable"
	IssueInsufficientStock  IssueKind = "insufficient_stock"
)

// Issue is a blocking problem with one cart line
type Issue struct {
	Kind      IssueKind `json:"kind"`
	ProductID string    `json:"product_id"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

func (i Issue) String() string {
	if i.Kind == IssueInsufficientStock {
		return fmt.Sprintf("%s: insufficient stock (requested %d, available %d)", i.ProductID, i.Requested, i.Available)
	}
	return fmt.Sprintf("%s: product unavailable", i.ProductID)
}

// PriceChange is an informational correction applied during validation
type PriceChange struct {
	ProductID string          `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// ValidationError carries every blocking issue found in the cart, plus the
// price corrections seen on the remaining lines.
type ValidationError struct {
	Issues      []Issue
	Corrections []PriceChange
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "cart validation failed: " + strings.Join(parts, "; ")
}

// PaymentError means the charge did not go through. No money moved.
type PaymentError struct {
	Status    payment.Status
	Reference string
	Err       error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("payment %s", e.Status)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// PersistenceError means the customer was charged but the order could not be
// saved. It must be surfaced with the payment reference for manual recovery.
type PersistenceError struct {
	PaymentReference string
	CheckoutKey      string
	Err              error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("payment %s captured but order was not saved: %v", e.PaymentReference, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
