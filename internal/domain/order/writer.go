package order

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/repairparts-backend/internal/domain/inventory"
)

// WriteError means a paid order could not be persisted
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("order write failed: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// DecrementError reports a stock counter that could not be updated for one line
type DecrementError struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Err       error  `json:"-"`
}

func (e DecrementError) Error() string {
	return fmt.Sprintf("failed to decrement stock for %s by %d: %v", e.ProductID, e.Quantity, e.Err)
}

func (e DecrementError) Unwrap() error {
	return e.Err
}

// Writer persists confirmed orders and then decrements stock. The two steps
// are independent: a failed decrement never undoes a persisted order.
type Writer struct {
	store   Store
	oracle  inventory.Oracle
	timeout time.Duration
	logger  *logrus.Logger
}

// NewWriter creates an order writer; timeout bounds each decrement call
func NewWriter(store Store, oracle inventory.Oracle, timeout time.Duration, logger *logrus.Logger) *Writer {
	return &Writer{
		store:   store,
		oracle:  oracle,
		timeout: timeout,
		logger:  logger,
	}
}

// Write persists the order and returns the stored record
func (w *Writer) Write(ctx context.Context, o *Order) (*Order, error) {
	persisted, err := w.store.Insert(ctx, o)
	if err != nil {
		return nil, &WriteError{Err: err}
	}
	return persisted, nil
}

// Find returns the order already placed under a checkout key, or ErrOrderNotFound
func (w *Writer) Find(ctx context.Context, checkoutKey string) (*Order, error) {
	return w.store.GetByCheckoutKey(ctx, checkoutKey)
}

// DecrementStock decrements every line and collects the failures
func (w *Writer) DecrementStock(ctx context.Context, items []OrderItem) []DecrementError {
	var failures []DecrementError

	for _, item := range items {
		if err := w.decrement(ctx, item); err != nil {
			failures = append(failures, DecrementError{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Err:       err,
			})

			w.logger.WithFields(logrus.Fields{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
				"order_id":   item.OrderID,
				"error":      err.Error(),
			}).Warn("⚠️ Stock decrement failed, needs inventory reconciliation")
		}
	}

	return failures
}

func (w *Writer) decrement(ctx context.Context, item OrderItem) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	return w.oracle.DecrementStock(ctx, item.ProductID, item.Quantity)
}
