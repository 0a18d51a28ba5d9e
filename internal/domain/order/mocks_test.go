package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// MockStore implements Store in memory for testing
type MockStore struct {
	mu        sync.Mutex
	orders    map[string]*Order
	seq       int64
	InsertErr error
	Inserts   int
}

func NewMockStore() *MockStore {
	return &MockStore{orders: make(map[string]*Order)}
}

func (m *MockStore) Insert(_ context.Context, o *Order) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Inserts++
	if m.InsertErr != nil {
		return nil, m.InsertErr
	}
	for _, existing := range m.orders {
		if existing.CheckoutKey == o.CheckoutKey {
			return existing, nil
		}
	}

	m.seq++
	if o.ID == "" {
		o.ID = fmt.Sprintf("order-%d", m.seq)
	}
	o.OrderNumber = FormatOrderNumber(time.Now(), m.seq)
	m.orders[o.ID] = o
	return o, nil
}

func (m *MockStore) GetByID(_ context.Context, id string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, ErrOrderNotFound
}

func (m *MockStore) GetByNumber(_ context.Context, orderNumber string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (m *MockStore) GetByCheckoutKey(_ context.Context, key string) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.CheckoutKey == key {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (m *MockStore) UpdateStatus(_ context.Context, id string, status OrderStatus, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, OrderStatusHistory{OrderID: id, Status: status, Comment: comment})
	return nil
}

var errStoreDown = errors.New("connection refused")
