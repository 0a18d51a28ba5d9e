package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() CustomerInfo {
	return CustomerInfo{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100"}
}

func validAddress() Address {
	return Address{Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"}
}

func TestValidateContact_Valid(t *testing.T) {
	assert.NoError(t, ValidateContact(validCustomer(), validAddress()))
}

func TestValidateContact_ReportsEveryMissingField(t *testing.T) {
	address := validAddress()
	address.City = "   "
	address.Country = ""
	customer := validCustomer()
	customer.Email = ""

	err := ValidateContact(customer, address)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, []string{"customer.email", "shipping_address.city", "shipping_address.country"}, inputErr.Fields)
	assert.Contains(t, err.Error(), "customer.email")
}

func TestValidateContact_OptionalFields(t *testing.T) {
	customer := validCustomer()
	customer.Phone = ""
	address := validAddress()
	address.Line2 = ""
	address.State = ""

	assert.NoError(t, ValidateContact(customer, address))
}

func TestFormatOrderNumber(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "ORD-20250309-000042", FormatOrderNumber(ts, 42))
	assert.Equal(t, "ORD-20250309-1234567", FormatOrderNumber(ts, 1234567))
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusCompleted))
	assert.True(t, OrderStatusProcessing.CanTransitionTo(OrderStatusFailed))
	assert.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusFailed))
	assert.False(t, OrderStatusFailed.CanTransitionTo(OrderStatusProcessing))
	assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusProcessing))
}

func TestOrder_ItemCount(t *testing.T) {
	o := &Order{Items: []OrderItem{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 5, o.ItemCount())
}
