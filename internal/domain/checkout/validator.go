package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/your-org/repairparts-backend/internal/domain/cart"
	"github.com/your-org/repairparts-backend/internal/domain/inventory"
)

// ValidatedCart is a price-corrected copy of a cart whose every line was
// confirmed available immediately before payment.
type ValidatedCart struct {
	Items       []cart.Item   `json:"items"`
	Corrections []PriceChange `json:"corrections,omitempty"`
}

// Validator reconciles a cart against the inventory oracle
type Validator struct {
	oracle  inventory.Oracle
	timeout time.Duration
}

// NewValidator creates a validator whose oracle reads are bounded by timeout
func NewValidator(oracle inventory.Oracle, timeout time.Duration) *Validator {
	return &Validator{
		oracle:  oracle,
		timeout: timeout,
	}
}

// Validate fetches snapshots for all products in one call and checks each
// line in cart order. The input cart is never modified.
func (v *Validator) Validate(ctx context.Context, c *cart.Cart) (*ValidatedCart, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	ids := make([]string, 0, c.Len())
	seen := make(map[string]bool, c.Len())
	for _, item := range c.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	snapshots, err := v.oracle.GetSnapshots(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	index := inventory.SnapshotIndex(snapshots)

	validated := c.Clone()
	var issues []Issue
	var corrections []PriceChange

	for i, item := range validated.Items {
		snapshot, ok := index[item.ProductID]
		switch {
		case !ok || !snapshot.IsActive:
			issues = append(issues, Issue{
				Kind:      IssueProductUnavailable,
				ProductID: item.ProductID,
				Requested: item.Quantity,
			})
		case snapshot.StockQuantity < item.Quantity:
			issues = append(issues, Issue{
				Kind:      IssueInsufficientStock,
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: snapshot.StockQuantity,
			})
		case !snapshot.CurrentPrice.Equal(item.UnitPrice):
			corrections = append(corrections, PriceChange{
				ProductID: item.ProductID,
				OldPrice:  item.UnitPrice,
				NewPrice:  snapshot.CurrentPrice,
			})
			validated.Items[i].UnitPrice = snapshot.CurrentPrice
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues, Corrections: corrections}
	}

	return &ValidatedCart{Items: validated.Items, Corrections: corrections}, nil
}
