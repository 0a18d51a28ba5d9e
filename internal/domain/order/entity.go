// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderNumberSequence is the Postgres sequence behind customer-facing order numbers
const OrderNumberSequence = "order_number_seq"

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

// Order is an immutable record of a paid checkout. Only Status changes after creation.
type Order struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	CheckoutKey string      `gorm:"uniqueIndex;not null;size:100" json:"-"`
	UserID      *string     `gorm:"index;size:64" json:"user_id,omitempty"`
	Status      OrderStatus `gorm:"not null;size:20;default:'processing'" json:"status"`

	// Financial Information
	SubtotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_amount"`
	ShippingAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Currency       string          `gorm:"size:3;default:'USD'" json:"currency"`

	PaymentReference string `gorm:"not null;size:255;index" json:"payment_reference"`

	Customer        CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	ShippingAddress Address      `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem is a copy of a validated cart line at confirmation time
type OrderItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    string          `gorm:"not null;type:uuid;index" json:"order_id"`
	ProductID  string          `gorm:"not null;size:64;index" json:"product_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   string      `gorm:"not null;type:uuid;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null;size:20" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
}

// CustomerInfo is the buyer's contact record
type CustomerInfo struct {
	Name  string `gorm:"size:200" json:"name"`
	Email string `gorm:"size:255" json:"email"`
	Phone string `gorm:"size:30" json:"phone"`
}

// Address represents a shipping address (embedded in Order)
type Address struct {
	Line1      string `gorm:"size:255" json:"line1"`
	Line2      string `gorm:"size:255" json:"line2"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:100" json:"state"`
	PostalCode string `gorm:"size:20" json:"postal_code"`
	Country    string `gorm:"size:2" json:"country"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// BeforeCreate assigns a uuid when none is set
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// InputError lists missing required contact or address fields
type InputError struct {
	Fields []string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// ValidateContact checks that every required contact and address field is
// non-empty. Formats are not checked.
func ValidateContact(customer CustomerInfo, address Address) error {
	var missing []string

	required := []struct {
		name  string
		value string
	}{
		{"customer.name", customer.Name},
		{"customer.email", customer.Email},
		{"shipping_address.line1", address.Line1},
		{"shipping_address.city", address.City},
		{"shipping_address.postal_code", address.PostalCode},
		{"shipping_address.country", address.Country},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}

	if len(missing) > 0 {
		return &InputError{Fields: missing}
	}
	return nil
}

// FormatOrderNumber builds the customer-facing number: ORD-YYYYMMDD-NNNNNN
func FormatOrderNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%06d", t.UTC().Format("20060102"), seq)
}

// CanTransitionTo checks whether an order may move from s to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderStatusProcessing && (next == OrderStatusCompleted || next == OrderStatusFailed)
}

// ItemCount returns the total number of units in the order
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// AddStatusHistory adds a new status change to history
func (o *Order) AddStatusHistory(status OrderStatus, comment string) {
	o.StatusHistory = append(o.StatusHistory, OrderStatusHistory{
		OrderID:   o.ID,
		Status:    status,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
}
