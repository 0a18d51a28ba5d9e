// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidStatusChange  = errors.New("invalid order status transition")
	errDuplicateCheckoutKey = errors.New("duplicate checkout key")
)

// Store persists orders
type Store interface {
	// Insert saves an order with its items. Inserting a second order for the
	// same checkout key returns the order that already exists.
	Insert(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	GetByCheckoutKey(ctx context.Context, key string) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus, comment string) error
}

// Repository is the gorm-backed order store
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new order repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
	}
}

// Insert allocates an order number and writes order, items and the initial
// status history in one transaction.
func (r *Repository) Insert(ctx context.Context, o *Order) (*Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Raw("SELECT nextval(?)", OrderNumberSequence).Scan(&seq).Error; err != nil {
			return fmt.Errorf("failed to allocate order number: %w", err)
		}
		o.OrderNumber = FormatOrderNumber(r.now(), seq)

		if len(o.StatusHistory) == 0 {
			o.AddStatusHistory(o.Status, "Order created")
		}

		if err := tx.Create(o).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_orders_checkout_key" {
				return errDuplicateCheckoutKey
			}
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})

	if errors.Is(err, errDuplicateCheckoutKey) {
		return r.GetByCheckoutKey(ctx, o.CheckoutKey)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID retrieves a single order by id
func (r *Repository) GetByID(ctx context.Context, id string) (*Order, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByNumber retrieves a single order by order number
func (r *Repository) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return r.first(ctx, "order_number = ?", orderNumber)
}

// UpdateStatus changes the status and records it in the history
func (r *Repository) UpdateStatus(ctx context.Context, id string, status OrderStatus, comment string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).Where("id = ?", id).Update("status", status)
		if result.Error != nil {
			return fmt.Errorf("failed to update order status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}

		history := OrderStatusHistory{
			OrderID:   id,
			Status:    status,
			Comment:   comment,
			CreatedAt: r.now().UTC(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to create status history: %w", err)
		}
		return nil
	})
}

// GetByCheckoutKey retrieves the order placed under an idempotency key
func (r *Repository) GetByCheckoutKey(ctx context.Context, key string) (*Order, error) {
	return r.first(ctx, "checkout_key = ?", key)
}

func (r *Repository) first(ctx context.Context, query string, arg interface{}) (*Order, error) {
	var o Order
	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where(query, arg).
		First(&o)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}
