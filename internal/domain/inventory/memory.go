package inventory

import (
	"context"
	"fmt"
	"sync"
)

// MemoryOracle is an in-process Oracle used in development and tests
type MemoryOracle struct {
	mu       sync.RWMutex
	products map[string]*Product
}

// NewMemoryOracle creates an empty in-memory oracle
func NewMemoryOracle() *MemoryOracle {
	return &MemoryOracle{
		products: make(map[string]*Product),
	}
}

// Put inserts or replaces a product
func (m *MemoryOracle) Put(product Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := product
	m.products[p.ID] = &p
}

// GetSnapshots returns snapshots for known ids in request order
func (m *MemoryOracle) GetSnapshots(ctx context.Context, productIDs []string) ([]ProductSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ProductSnapshot, 0, len(productIDs))
	for _, id := range productIDs {
		if p, exists := m.products[id]; exists {
			result = append(result, p.Snapshot())
		}
	}
	return result, nil
}

// DecrementStock checks and subtracts under the write lock
func (m *MemoryOracle) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid decrement quantity %d", quantity)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, exists := m.products[productID]
	if !exists {
		return ErrProductNotFound
	}
	if p.StockQuantity < quantity {
		return ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

// Stock returns the current stock for a product
func (m *MemoryOracle) Stock(productID string) (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.products[productID]
	if !exists {
		return 0, false
	}
	return p.StockQuantity, true
}
