package matcher

import (
	"context"
	"sync"

	"propcore/internal/models"
	"propcore/internal/venue"
)

// ============ Mock OrderStore ============

type mockOrderStore struct {
	mu sync.Mutex

	orders map[string][]*models.Order

	getCalls  int
	getErr    error
	fillErr   error
	fillCalls []int

	// filled отмечает уже исполненные ордера: повторный FillIfOpen
	// возвращает false (проигранная CAS-гонка)
	filled map[int]bool
}

func newMockOrderStore() *mockOrderStore {
	return &mockOrderStore{
		orders: make(map[string][]*models.Order),
		filled: make(map[int]bool),
	}
}

func (m *mockOrderStore) GetOpenBySymbol(symbol string) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.orders[symbol], nil
}

func (m *mockOrderStore) FillIfOpen(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fillCalls = append(m.fillCalls, id)
	if m.fillErr != nil {
		return false, m.fillErr
	}
	if m.filled[id] {
		return false, nil
	}
	m.filled[id] = true
	return true, nil
}

// ============ Mock EventStore ============

type mockEventStore struct {
	mu     sync.Mutex
	events []*models.Event
}

func (m *mockEventStore) Create(event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// ============ Mock OrderPlacer ============

type mockPlacer struct {
	mu       sync.Mutex
	placed   []venue.PlaceOrderParams
	placeErr error
}

func newMockPlacer() *mockPlacer {
	return &mockPlacer{}
}

func (m *mockPlacer) PlaceOrder(ctx context.Context, params venue.PlaceOrderParams) (*venue.OrderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	m.placed = append(m.placed, params)
	return &venue.OrderResult{Status: "ok"}, nil
}

func (m *mockPlacer) CancelOrder(ctx context.Context, symbol, orderID string) error {
	return nil
}

func (m *mockPlacer) CancelAllOrders(ctx context.Context, accountID int) error {
	return nil
}

func (m *mockPlacer) placedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.placed)
}
