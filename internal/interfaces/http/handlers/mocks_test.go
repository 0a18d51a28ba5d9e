package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/domain/payment"
)

// MockGateway approves every charge unless Status or Err is set
type MockGateway struct {
	mu     sync.Mutex
	calls  int
	Status payment.Status
	Err    error
}

func (m *MockGateway) Charge(_ context.Context, _ payment.ChargeRequest) (*payment.ChargeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	status := m.Status
	if status == "" {
		status = payment.StatusSucceeded
	}
	return &payment.ChargeResult{
		Reference: fmt.Sprintf("ch_%d", m.calls),
		Status:    status,
		Message:   "card declined",
	}, nil
}

func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var errDatabaseDown = errors.New("database is down")

// MockStore is an in-memory order.Store
type MockStore struct {
	mu          sync.Mutex
	orders      []*order.Order
	FailInserts int
}

func (m *MockStore) Insert(_ context.Context, o *order.Order) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailInserts > 0 {
		m.FailInserts--
		return nil, errDatabaseDown
	}
	for _, existing := range m.orders {
		if existing.CheckoutKey == o.CheckoutKey {
			return existing, nil
		}
	}
	o.OrderNumber = fmt.Sprintf("ORD-20250101-%06d", len(m.orders)+1)
	o.AddStatusHistory(o.Status, "Order created")
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *MockStore) GetByID(_ context.Context, id string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *MockStore) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *MockStore) GetByCheckoutKey(_ context.Context, key string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.CheckoutKey == key {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *MockStore) UpdateStatus(_ context.Context, id string, status order.OrderStatus, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			o.AddStatusHistory(status, comment)
			return nil
		}
	}
	return order.ErrOrderNotFound
}
