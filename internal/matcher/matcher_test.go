package matcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"propcore/internal/models"
)

func buyOrder(id int, limit float64) *models.Order {
	return &models.Order{
		ID:         id,
		AccountID:  1,
		Symbol:     "BTC",
		Side:       models.OrderSideBuy,
		Size:       0.5,
		LimitPrice: limit,
		Status:     models.OrderStatusOpen,
	}
}

func sellOrder(id int, limit float64) *models.Order {
	o := buyOrder(id, limit)
	o.Side = models.OrderSideSell
	return o
}

func newTestMatcher(orders *mockOrderStore, events *mockEventStore, placer *mockPlacer) *Matcher {
	return New(orders, events, placer, DefaultConfig(), zap.NewNop())
}

func TestOnPriceUpdateFillsTriggeredOrders(t *testing.T) {
	tests := []struct {
		name     string
		order    *models.Order
		price    float64
		wantFill bool
	}{
		{"buy at limit", buyOrder(1, 100), 100, true},
		{"buy below limit", buyOrder(1, 100), 99.5, true},
		{"buy above limit", buyOrder(1, 100), 100.01, false},
		{"sell at limit", sellOrder(1, 100), 100, true},
		{"sell above limit", sellOrder(1, 100), 100.5, true},
		{"sell below limit", sellOrder(1, 100), 99.99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockOrderStore()
			store.orders["BTC"] = []*models.Order{tt.order}
			events := &mockEventStore{}
			placer := newMockPlacer()
			m := newTestMatcher(store, events, placer)

			if err := m.OnPriceUpdate(context.Background(), "BTC", tt.price); err != nil {
				t.Fatalf("OnPriceUpdate() error: %v", err)
			}

			if tt.wantFill {
				if placer.placedCount() != 1 {
					t.Fatalf("placed = %d, want 1", placer.placedCount())
				}
				if tt.order.Status != models.OrderStatusFilled {
					t.Errorf("order status = %s, want filled", tt.order.Status)
				}
				if events.count() != 1 {
					t.Errorf("events = %d, want 1", events.count())
				}
			} else {
				if placer.placedCount() != 0 {
					t.Errorf("placed = %d, want 0", placer.placedCount())
				}
				if tt.order.Status != models.OrderStatusOpen {
					t.Errorf("order status = %s, want open", tt.order.Status)
				}
			}
		})
	}
}

func TestFillUsesLimitPriceNotMarketPrice(t *testing.T) {
	store := newMockOrderStore()
	store.orders["BTC"] = []*models.Order{buyOrder(1, 100)}
	placer := newMockPlacer()
	m := newTestMatcher(store, &mockEventStore{}, placer)

	// Цена провалилась сильно ниже лимита
	if err := m.OnPriceUpdate(context.Background(), "BTC", 95); err != nil {
		t.Fatalf("OnPriceUpdate() error: %v", err)
	}

	if len(placer.placed) != 1 {
		t.Fatalf("placed = %d, want 1", len(placer.placed))
	}
	p := placer.placed[0]
	if p.Price != 100 {
		t.Errorf("fill price = %v, want 100 (limit, not market)", p.Price)
	}
	if !p.IsBuy || p.Symbol != "BTC" || p.Size != 0.5 {
		t.Errorf("unexpected placement params: %+v", p)
	}
}

func TestDebounceSkipsNearIdenticalPrice(t *testing.T) {
	store := newMockOrderStore()
	m := newTestMatcher(store, &mockEventStore{}, newMockPlacer())
	ctx := context.Background()

	if err := m.OnPriceUpdate(ctx, "BTC", 10000); err != nil {
		t.Fatal(err)
	}
	// Изменение 0.005% < порога 0.01%
	if err := m.OnPriceUpdate(ctx, "BTC", 10000.5); err != nil {
		t.Fatal(err)
	}
	if store.getCalls != 1 {
		t.Errorf("store queries = %d, want 1 (second update debounced)", store.getCalls)
	}

	// Изменение 0.02% проходит
	if err := m.OnPriceUpdate(ctx, "BTC", 10002); err != nil {
		t.Fatal(err)
	}
	if store.getCalls != 2 {
		t.Errorf("store queries = %d, want 2", store.getCalls)
	}
}

func TestDebounceIsPerSymbol(t *testing.T) {
	store := newMockOrderStore()
	m := newTestMatcher(store, &mockEventStore{}, newMockPlacer())
	ctx := context.Background()

	m.OnPriceUpdate(ctx, "BTC", 10000)
	m.OnPriceUpdate(ctx, "ETH", 10000)

	if store.getCalls != 2 {
		t.Errorf("store queries = %d, want 2 (symbols debounce independently)", store.getCalls)
	}
}

func TestLostFillRaceIsBenign(t *testing.T) {
	store := newMockOrderStore()
	order := buyOrder(1, 100)
	store.orders["BTC"] = []*models.Order{order}
	store.filled[1] = true // другой процесс успел первым
	events := &mockEventStore{}
	m := newTestMatcher(store, events, newMockPlacer())

	if err := m.OnPriceUpdate(context.Background(), "BTC", 99); err != nil {
		t.Fatalf("lost race must not surface as error: %v", err)
	}
	if events.count() != 0 {
		t.Errorf("events = %d, want 0 (no duplicate fill event)", events.count())
	}
	if order.Status != models.OrderStatusOpen {
		t.Errorf("order status = %s, want open (in-memory copy untouched)", order.Status)
	}
}

func TestPlacerFailureLeavesOrderOpen(t *testing.T) {
	store := newMockOrderStore()
	order := buyOrder(1, 100)
	store.orders["BTC"] = []*models.Order{order}
	placer := newMockPlacer()
	placer.placeErr = errors.New("venue unavailable")
	events := &mockEventStore{}
	m := newTestMatcher(store, events, placer)

	if err := m.OnPriceUpdate(context.Background(), "BTC", 99); err != nil {
		t.Fatalf("per-order failure must not surface as error: %v", err)
	}

	if len(store.fillCalls) != 0 {
		t.Error("order must not be closed when venue placement failed")
	}
	if order.Status != models.OrderStatusOpen {
		t.Errorf("order status = %s, want open", order.Status)
	}
	if events.count() != 0 {
		t.Errorf("events = %d, want 0", events.count())
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	store := newMockOrderStore()
	store.getErr = errors.New("db down")
	m := newTestMatcher(store, &mockEventStore{}, newMockPlacer())

	if err := m.OnPriceUpdate(context.Background(), "BTC", 100); err == nil {
		t.Fatal("expected error from order store failure")
	}
}

func TestStatusUpdateFailureLeavesOrderOpen(t *testing.T) {
	store := newMockOrderStore()
	order := buyOrder(1, 100)
	store.orders["BTC"] = []*models.Order{order}
	store.fillErr = errors.New("db down")
	events := &mockEventStore{}
	m := newTestMatcher(store, events, newMockPlacer())

	if err := m.OnPriceUpdate(context.Background(), "BTC", 99); err != nil {
		t.Fatalf("per-order failure must not surface as error: %v", err)
	}
	if order.Status != models.OrderStatusOpen {
		t.Errorf("order status = %s, want open", order.Status)
	}
	if events.count() != 0 {
		t.Errorf("events = %d, want 0", events.count())
	}
}

func TestFillFailureDoesNotStopOtherOrders(t *testing.T) {
	store := newMockOrderStore()
	store.orders["BTC"] = []*models.Order{buyOrder(1, 100), buyOrder(2, 101)}
	placer := newMockPlacer()
	events := &mockEventStore{}
	m := newTestMatcher(store, events, placer)

	// Первый ордер уже закрыт конкурентом, второй свободен
	store.filled[1] = true

	if err := m.OnPriceUpdate(context.Background(), "BTC", 99); err != nil {
		t.Fatalf("OnPriceUpdate() error: %v", err)
	}
	if events.count() != 1 {
		t.Errorf("events = %d, want 1 (second order still filled)", events.count())
	}
}

func TestConcurrentUpdatesFillAtMostOnce(t *testing.T) {
	store := newMockOrderStore()
	order := buyOrder(1, 100)
	store.orders["BTC"] = []*models.Order{order}
	events := &mockEventStore{}
	placer := newMockPlacer()
	m := newTestMatcher(store, events, placer)

	// Цены различаются сильнее debounce-порога и все триггерят buy 100
	prices := []float64{99, 98, 97, 96, 95, 94, 93, 92}

	var wg sync.WaitGroup
	for _, p := range prices {
		wg.Add(1)
		go func(price float64) {
			defer wg.Done()
			m.OnPriceUpdate(context.Background(), "BTC", price)
		}(p)
	}
	wg.Wait()

	if events.count() != 1 {
		t.Errorf("fill events = %d, want exactly 1", events.count())
	}
	fills := 0
	store.mu.Lock()
	for range store.filled {
		fills++
	}
	store.mu.Unlock()
	if fills != 1 {
		t.Errorf("orders closed = %d, want 1", fills)
	}
}

func TestContextCancellationStopsProcessing(t *testing.T) {
	store := newMockOrderStore()
	store.orders["BTC"] = []*models.Order{buyOrder(1, 100), buyOrder(2, 100)}
	placer := newMockPlacer()
	m := newTestMatcher(store, &mockEventStore{}, placer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.OnPriceUpdate(ctx, "BTC", 99); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if placer.placedCount() != 0 {
		t.Errorf("placed = %d, want 0", placer.placedCount())
	}
}
