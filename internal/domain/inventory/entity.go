// internal/domain/inventory/entity.go
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientStock is returned when a conditional decrement does not apply
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrProductNotFound is returned for unknown product ids
	ErrProductNotFound = errors.New("product not found")
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeInbound  MovementType = "inbound"  // Restock, return
	MovementTypeOutbound MovementType = "outbound" // Sale
)

// MovementReason represents the reason for a stock movement
type MovementReason string

const (
	ReasonSale       MovementReason = "sale"
	ReasonRestock    MovementReason = "restock"
	ReasonAdjustment MovementReason = "adjustment"
)

// Product is the catalog row the inventory oracle reads from
type Product struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id"`
	SKU           string          `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name          string          `gorm:"not null;size:255" json:"name"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	ImageURL      string          `gorm:"size:500" json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// Snapshot converts the row into a point-in-time ProductSnapshot
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID:     p.ID,
		CurrentPrice:  p.Price,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
		CurrentImage:  p.ImageURL,
	}
}

// StockMovement is the audit record written alongside every stock change
type StockMovement struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ProductID     string         `gorm:"not null;size:64;index" json:"product_id"`
	MovementType  MovementType   `gorm:"not null;size:20" json:"movement_type"`
	Reason        MovementReason `gorm:"not null;size:20" json:"reason"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	ReferenceType string         `gorm:"size:50" json:"reference_type"`
	ReferenceID   string         `gorm:"size:64" json:"reference_id"`
	CreatedAt     time.Time      `json:"created_at"`
}

// TableName overrides the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// ProductSnapshot is a point-in-time read of a product's price and stock
type ProductSnapshot struct {
	ProductID     string          `json:"product_id"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	CurrentImage  string          `json:"current_image"`
}

// Oracle is the authoritative source of current price and stock
type Oracle interface {
	// GetSnapshots reads every requested product in one batch. Unknown ids
	// are simply absent from the result.
	GetSnapshots(ctx context.Context, productIDs []string) ([]ProductSnapshot, error)
	// DecrementStock removes quantity units if and only if at least that many
	// are in stock, returning ErrInsufficientStock otherwise.
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// SnapshotIndex maps snapshots by product id
func SnapshotIndex(snapshots []ProductSnapshot) map[string]ProductSnapshot {
	index := make(map[string]ProductSnapshot, len(snapshots))
	for _, s := range snapshots {
		index[s.ProductID] = s
	}
	return index
}
