package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/your-org/repairparts-backend/internal/config"
	"github.com/your-org/repairparts-backend/internal/domain/cart"
)

// PricingConfig holds the store's tax and shipping rules
type PricingConfig struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// PricingFromConfig reads the pricing rules from application config
func PricingFromConfig(cfg config.CheckoutConfig) PricingConfig {
	return PricingConfig{
		TaxRate:               cfg.TaxRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
	}
}

// Totals is the authoritative price breakdown of an order
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Calculate computes order totals. Lines are summed at full precision and
// each output field is rounded once to cents. It panics on a non-positive
// quantity or negative price, which validation must already have excluded.
func Calculate(items []cart.Item, cfg PricingConfig) Totals {
	sum := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			panic(fmt.Sprintf("checkout: invalid quantity %d for product %s", item.Quantity, item.ProductID))
		}
		if item.UnitPrice.IsNegative() {
			panic(fmt.Sprintf("checkout: negative price %s for product %s", item.UnitPrice, item.ProductID))
		}
		sum = sum.Add(item.Subtotal())
	}

	subtotal := sum.Round(2)
	tax := subtotal.Mul(cfg.TaxRate).Round(2)

	shipping := cfg.FlatShippingFee.Round(2)
	if subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
