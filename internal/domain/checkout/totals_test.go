package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/repairparts-backend/internal/domain/cart"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultPricing() PricingConfig {
	return PricingConfig{
		TaxRate:               d("0.08"),
		FreeShippingThreshold: d("99.00"),
		FlatShippingFee:       d("9.99"),
	}
}

func assertTotals(t *testing.T, got Totals, subtotal, tax, shipping, total string) {
	t.Helper()
	assert.True(t, got.Subtotal.Equal(d(subtotal)), "subtotal %s", got.Subtotal)
	assert.True(t, got.Tax.Equal(d(tax)), "tax %s", got.Tax)
	assert.True(t, got.Shipping.Equal(d(shipping)), "shipping %s", got.Shipping)
	assert.True(t, got.Total.Equal(d(total)), "total %s", got.Total)
}

func TestCalculate_FreeShippingOrder(t *testing.T) {
	got := Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("50.00"), Quantity: 2}}, defaultPricing())
	assertTotals(t, got, "100.00", "8.00", "0", "108.00")
}

func TestCalculate_FlatShippingOrder(t *testing.T) {
	got := Calculate([]cart.Item{{ProductID: "B", UnitPrice: d("20.00"), Quantity: 1}}, defaultPricing())
	assertTotals(t, got, "20.00", "1.60", "9.99", "31.59")
}

func TestCalculate_FreeShippingBoundaryIsInclusive(t *testing.T) {
	below := Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("98.99"), Quantity: 1}}, defaultPricing())
	assert.True(t, below.Shipping.Equal(d("9.99")))

	at := Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("99.00"), Quantity: 1}}, defaultPricing())
	assert.True(t, at.Shipping.IsZero())
}

func TestCalculate_RoundsOncePerField(t *testing.T) {
	// Three lines of 0.333 sum to 0.999 before rounding; per-line rounding would give 0.99
	items := []cart.Item{
		{ProductID: "A", UnitPrice: d("0.333"), Quantity: 1},
		{ProductID: "B", UnitPrice: d("0.333"), Quantity: 1},
		{ProductID: "C", UnitPrice: d("0.333"), Quantity: 1},
	}
	got := Calculate(items, defaultPricing())
	assertTotals(t, got, "1.00", "0.08", "9.99", "11.07")
}

func TestCalculate_RoundsHalfUp(t *testing.T) {
	got := Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("0.125"), Quantity: 1}}, defaultPricing())
	assert.True(t, got.Subtotal.Equal(d("0.13")))
}

func TestCalculate_TaxUsesRoundedSubtotal(t *testing.T) {
	// 10.5625 rounds to 10.56; 10.56 * 0.08 = 0.8448 -> 0.84
	got := Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("10.5625"), Quantity: 1}}, defaultPricing())
	assert.True(t, got.Subtotal.Equal(d("10.56")))
	assert.True(t, got.Tax.Equal(d("0.84")))
}

func TestCalculate_Deterministic(t *testing.T) {
	items := []cart.Item{
		{ProductID: "A", UnitPrice: d("12.345"), Quantity: 3},
		{ProductID: "B", UnitPrice: d("7.77"), Quantity: 11},
	}
	first := Calculate(items, defaultPricing())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Calculate(items, defaultPricing()))
	}
}

func TestCalculate_ConfigurableRates(t *testing.T) {
	pricing := PricingConfig{TaxRate: d("0.2"), FreeShippingThreshold: d("1000"), FlatShippingFee: d("5")}
	got := Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("10"), Quantity: 1}}, pricing)
	assertTotals(t, got, "10", "2", "5", "17")
}

func TestCalculate_PanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() {
		Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("1"), Quantity: -1}}, defaultPricing())
	})
	assert.Panics(t, func() {
		Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("1"), Quantity: 0}}, defaultPricing())
	})
	assert.Panics(t, func() {
		Calculate([]cart.Item{{ProductID: "A", UnitPrice: d("-1"), Quantity: 1}}, defaultPricing())
	})
}
