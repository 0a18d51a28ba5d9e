// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/your-org/repairparts-backend/internal/domain/inventory"
)

var (
	// ErrSessionRequired is returned when no session id was supplied
	ErrSessionRequired = errors.New("session ID required for cart")
	// ErrProductUnavailable is returned when adding an unknown or inactive product
	ErrProductUnavailable = errors.New("product not found or inactive")
	// ErrItemNotFound is returned when updating a product that is not in the cart
	ErrItemNotFound = errors.New("item not found in cart")
)

// Service keeps session carts in Redis. Prices are read from the catalog
// when an item is added and are not checked again until checkout.
type Service struct {
	redisClient *redis.Client
	catalog     inventory.Oracle
	ttl         time.Duration
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, catalog inventory.Oracle, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		redisClient: redisClient,
		catalog:     catalog,
		ttl:         ttl,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the cart as returned to the browser
type CartResponse struct {
	SessionID string          `json:"session_id"`
	Items     []Item          `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// NewCartResponse builds the response view of a cart
func NewCartResponse(sessionID string, c *Cart) *CartResponse {
	return &CartResponse{
		SessionID: sessionID,
		Items:     c.Items,
		ItemCount: c.ItemCount(),
		Total:     c.Total().Round(2),
	}
}

// Load returns the session's cart, or an empty cart if none is stored
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	data, err := s.redisClient.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	c.normalize()
	return c, nil
}

// Save stores the cart and refreshes its TTL. An empty cart deletes the key.
func (s *Service) Save(ctx context.Context, sessionID string, c *Cart) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if c.IsEmpty() {
		return s.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.redisClient.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the session's cart
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if err := s.redisClient.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// AddToCart snapshots the current catalog price and adds the product.
// Stock is deliberately not checked here.
func (s *Service) AddToCart(ctx context.Context, sessionID string, req *AddToCartRequest) (*Cart, error) {
	snapshots, err := s.catalog.GetSnapshots(ctx, []string{req.ProductID})
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if len(snapshots) == 0 || !snapshots[0].IsActive {
		return nil, ErrProductUnavailable
	}

	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.AddItem(req.ProductID, snapshots[0].CurrentPrice, req.Quantity)

	if err := s.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCartItem sets a line's quantity; zero or less removes it
func (s *Service) UpdateCartItem(ctx context.Context, sessionID, productID string, req *UpdateCartItemRequest) (*Cart, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !c.UpdateQuantity(productID, req.Quantity) {
		return nil, ErrItemNotFound
	}

	if err := s.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveFromCart removes a line. Removing an absent product succeeds.
func (s *Service) RemoveFromCart(ctx context.Context, sessionID, productID string) (*Cart, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)

	if err := s.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearCart empties the session's cart
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	return s.Delete(ctx, sessionID)
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}
