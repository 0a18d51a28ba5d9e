package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/your-org/repairparts-backend/internal/domain/inventory"
	"github.com/your-org/repairparts-backend/internal/domain/order"
	"github.com/your-org/repairparts-backend/internal/domain/payment"
)

// MockOracle wraps a MemoryOracle and counts batch reads
type MockOracle struct {
	*inventory.MemoryOracle
	mu            sync.Mutex
	SnapshotCalls [][]string
	SnapshotErr   error
	DecrementErr  error
}

func NewMockOracle() *MockOracle {
	return &MockOracle{MemoryOracle: inventory.NewMemoryOracle()}
}

func (m *MockOracle) GetSnapshots(ctx context.Context, ids []string) ([]inventory.ProductSnapshot, error) {
	m.mu.Lock()
	m.SnapshotCalls = append(m.SnapshotCalls, append([]string(nil), ids...))
	m.mu.Unlock()

	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}
	return m.MemoryOracle.GetSnapshots(ctx, ids)
}

func (m *MockOracle) DecrementStock(ctx context.Context, id string, qty int) error {
	if m.DecrementErr != nil {
		return m.DecrementErr
	}
	return m.MemoryOracle.DecrementStock(ctx, id, qty)
}

// MockGateway returns queued results, succeeding by default
type MockGateway struct {
	mu       sync.Mutex
	Requests []payment.ChargeRequest
	Results  []*payment.ChargeResult
	Err      error
	OnCharge func(ctx context.Context) error
}

func (m *MockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if m.OnCharge != nil {
		if err := m.OnCharge(ctx); err != nil {
			return nil, err
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Results) > 0 {
		result := m.Results[0]
		m.Results = m.Results[1:]
		return result, nil
	}
	return &payment.ChargeResult{
		Reference: fmt.Sprintf("ch_%d", len(m.Requests)),
		Status:    payment.StatusSucceeded,
	}, nil
}

func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// MockStore implements order.Store; FailInserts makes the next n inserts fail
type MockStore struct {
	mu          sync.Mutex
	Orders      []*order.Order
	FailInserts int
	Inserts     int
}

var errDatabaseDown = errors.New("database is down")

func (m *MockStore) Insert(_ context.Context, o *order.Order) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Inserts++
	if m.FailInserts > 0 {
		m.FailInserts--
		return nil, errDatabaseDown
	}
	for _, existing := range m.Orders {
		if existing.CheckoutKey == o.CheckoutKey {
			return existing, nil
		}
	}
	o.OrderNumber = fmt.Sprintf("ORD-20250101-%06d", len(m.Orders)+1)
	m.Orders = append(m.Orders, o)
	return o, nil
}

func (m *MockStore) GetByID(_ context.Context, id string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.Orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *MockStore) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.Orders {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *MockStore) GetByCheckoutKey(_ context.Context, key string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.Orders {
		if o.CheckoutKey == key {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *MockStore) UpdateStatus(_ context.Context, _ string, _ order.OrderStatus, _ string) error {
	return nil
}

// MockNotifier records confirmations
type MockNotifier struct {
	Confirmed []*order.Order
}

func (m *MockNotifier) OrderConfirmed(_ context.Context, o *order.Order) error {
	m.Confirmed = append(m.Confirmed, o)
	return nil
}

// MockReporter records incidents
type MockReporter struct {
	Incidents []Incident
}

func (m *MockReporter) PersistenceFailed(_ context.Context, incident Incident) error {
	m.Incidents = append(m.Incidents, incident)
	return nil
}

var errLedgerDown = errors.New("ledger is down")

// FlakyLedger fails the next PutFailures writes, then defers to the wrapped ledger
type FlakyLedger struct {
	payment.Ledger
	mu          sync.Mutex
	PutFailures int
	Puts        int
}

func (l *FlakyLedger) Put(ctx context.Context, p *payment.PendingPayment) error {
	l.mu.Lock()
	l.Puts++
	fail := l.PutFailures > 0
	if fail {
		l.PutFailures--
	}
	l.mu.Unlock()

	if fail {
		return errLedgerDown
	}
	return l.Ledger.Put(ctx, p)
}
