// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the Postgres-backed inventory oracle
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository creates a new inventory repository
func NewRepository(db *gorm.DB, logger *logrus.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertProductRequest represents product creation or replacement data
type UpsertProductRequest struct {
	ID            string `json:"id" binding:"required"`
	SKU           string `json:"sku" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Price         string `json:"price" binding:"required"`
	StockQuantity int    `json:"stock_quantity" binding:"min=0"`
	IsActive      bool   `json:"is_active"`
	ImageURL      string `json:"image_url"`
}

// GetSnapshots reads all requested products with a single query
func (r *Repository) GetSnapshots(ctx context.Context, productIDs []string) ([]ProductSnapshot, error) {
	if len(productIDs) == 0 {
		return []ProductSnapshot{}, nil
	}

	var products []Product
	if err := r.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load product snapshots: %w", err)
	}

	snapshots := make([]ProductSnapshot, 0, len(products))
	for i := range products {
		snapshots = append(snapshots, products[i].Snapshot())
	}
	return snapshots, nil
}

// DecrementStock subtracts quantity in one conditional UPDATE so concurrent
// checkouts can never drive stock below zero.
func (r *Repository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid decrement quantity %d", quantity)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Product{}).
			Where("id = ? AND stock_quantity >= ?", productID, quantity).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to decrement stock: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check product: %w", err)
			}
			if count == 0 {
				return ErrProductNotFound
			}
			return ErrInsufficientStock
		}

		return tx.Create(&StockMovement{
			ProductID:    productID,
			MovementType: MovementTypeOutbound,
			Reason:       ReasonSale,
			Quantity:     quantity,
		}).Error
	})
}

// Restock adds quantity units to a product's stock
func (r *Repository) Restock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid restock quantity %d", quantity)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Product{}).
			Where("id = ?", productID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
		if result.Error != nil {
			return fmt.Errorf("failed to restock: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}

		return tx.Create(&StockMovement{
			ProductID:    productID,
			MovementType: MovementTypeInbound,
			Reason:       ReasonRestock,
			Quantity:     quantity,
		}).Error
	})
}

// Upsert creates a product or replaces all of its columns
func (r *Repository) Upsert(ctx context.Context, product *Product) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(product).Error
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"stock":      product.StockQuantity,
	}).Debug("Product upserted")
	return nil
}

// GetProduct retrieves a single product by id
func (r *Repository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).Where("id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &product, nil
}

// GetMovements lists the stock movements for a product, newest first
func (r *Repository) GetMovements(ctx context.Context, productID string, limit int) ([]StockMovement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var movements []StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stock movements: %w", err)
	}
	return movements, nil
}
