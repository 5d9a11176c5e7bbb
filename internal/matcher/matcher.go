package matcher

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"propcore/internal/models"
	"propcore/internal/venue"
)

// OrderStore определяет операции над ордерами, нужные матчеру
type OrderStore interface {
	// GetOpenBySymbol возвращает открытые ордера по символу,
	// отсортированные по времени создания (oldest-first fairness)
	GetOpenBySymbol(symbol string) ([]*models.Order, error)
	// FillIfOpen атомарно переводит ордер open→filled.
	// Возвращает false если ордер уже не open (проигранная гонка -
	// благополучный no-op, не ошибка).
	FillIfOpen(id int) (bool, error)
}

// EventStore пишет аудит-события исполнения
type EventStore interface {
	Create(event *models.Event) error
}

// Config - конфигурация матчера
type Config struct {
	// DebounceThreshold - относительное изменение цены, ниже которого
	// обновление пропускается (0.0001 = 0.01%). Чисто performance-policy:
	// пропущенное обновление не меняет корректность, только нагрузку.
	DebounceThreshold float64

	// FillTimeout - таймаут на отправку позиции в venue
	FillTimeout time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		DebounceThreshold: 0.0001,
		FillTimeout:       15 * time.Second,
	}
}

// Matcher сопоставляет отложенные лимитные ордера с потоком цен
//
// Гарантии:
//   - at-most-one-fill в пределах процесса через in-flight set;
//   - между процессами - через условный UPDATE open→filled в store;
//   - позиция открывается по ЛИМИТНОЙ цене ордера, не по рыночной;
//   - ордер никогда не отменяется и не переоценивается: либо
//     исполняется, либо остаётся open до следующего обновления.
type Matcher struct {
	orders OrderStore
	events EventStore
	placer venue.OrderPlacer
	cfg    Config
	log    *zap.Logger

	// In-flight маркеры: ордера, исполнение которых уже начато
	// в этом процессе. Best-effort защита от дублей; межпроцессная
	// корректность целиком на условном UPDATE.
	inflightMu sync.Mutex
	inflight   map[int]struct{}

	// Последняя обработанная цена по символу (для debounce)
	lastMu    sync.Mutex
	lastPrice map[string]float64
}

// New создаёт матчер
func New(orders OrderStore, events EventStore, placer venue.OrderPlacer, cfg Config, log *zap.Logger) *Matcher {
	return &Matcher{
		orders:    orders,
		events:    events,
		placer:    placer,
		cfg:       cfg,
		log:       log,
		inflight:  make(map[int]struct{}),
		lastPrice: make(map[string]float64),
	}
}

// OnPriceUpdate обрабатывает одно обновление цены символа
//
// Ошибка получения ордеров возвращается вызывающему (retry в
// следующем цикле); ошибка исполнения отдельного ордера логируется
// и не останавливает обработку остальных.
func (m *Matcher) OnPriceUpdate(ctx context.Context, symbol string, price float64) error {
	PriceUpdatesTotal.WithLabelValues(symbol).Inc()

	if m.debounced(symbol, price) {
		PriceUpdatesDebounced.WithLabelValues(symbol).Inc()
		return nil
	}

	orders, err := m.orders.GetOpenBySymbol(symbol)
	if err != nil {
		return err
	}

	for _, o := range orders {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !o.Triggered(price) {
			continue
		}
		m.tryFill(ctx, o)
	}
	return nil
}

// debounced возвращает true если обновление нужно пропустить
//
// Первая цена символа всегда обрабатывается. Обработанная цена
// становится новым baseline для следующего сравнения.
func (m *Matcher) debounced(symbol string, price float64) bool {
	m.lastMu.Lock()
	defer m.lastMu.Unlock()

	last, ok := m.lastPrice[symbol]
	if ok && last > 0 && math.Abs(price-last)/last < m.cfg.DebounceThreshold {
		return true
	}
	m.lastPrice[symbol] = price
	return false
}

// tryFill выполняет одну попытку исполнения ордера
//
// Любая ошибка оставляет ордер open для повторной попытки на
// следующем обновлении цены. In-flight маркер снимается всегда.
func (m *Matcher) tryFill(ctx context.Context, o *models.Order) {
	if !m.markInFlight(o.ID) {
		// Ордер уже обрабатывается конкурентным обновлением
		return
	}
	defer m.clearInFlight(o.ID)

	fillCtx, cancel := context.WithTimeout(ctx, m.cfg.FillTimeout)
	defer cancel()

	// Позиция открывается по лимитной цене ордера
	_, err := m.placer.PlaceOrder(fillCtx, venue.PlaceOrderParams{
		AccountID:  o.AccountID,
		Symbol:     o.Symbol,
		IsBuy:      o.Side == models.OrderSideBuy,
		Size:       o.Size,
		Price:      o.LimitPrice,
		OrderType:  venue.OrderTypeLimit,
		ReduceOnly: o.ReduceOnly,
	})
	if err != nil {
		FillFailures.Inc()
		m.log.Warn("order fill attempt failed, order left open",
			zap.Int("order_id", o.ID),
			zap.String("symbol", o.Symbol),
			zap.Error(err),
		)
		return
	}

	filled, err := m.orders.FillIfOpen(o.ID)
	if err != nil {
		FillFailures.Inc()
		m.log.Warn("order status update failed",
			zap.Int("order_id", o.ID),
			zap.Error(err),
		)
		return
	}
	if !filled {
		// Конкурентный filler успел первым - benign no-op
		m.log.Debug("fill race lost, order already closed", zap.Int("order_id", o.ID))
		return
	}

	FillsTotal.WithLabelValues(o.Symbol).Inc()
	o.Status = models.OrderStatusFilled

	if err := m.events.Create(&models.Event{
		AccountID: o.AccountID,
		Type:      models.EventOrderFilled,
		Amount:    o.Size,
		Details:   o.Symbol,
	}); err != nil {
		m.log.Warn("fill event not recorded", zap.Int("order_id", o.ID), zap.Error(err))
	}

	m.log.Info("order filled",
		zap.Int("order_id", o.ID),
		zap.Int("account_id", o.AccountID),
		zap.String("symbol", o.Symbol),
		zap.String("side", o.Side),
		zap.Float64("limit_price", o.LimitPrice),
	)
}

// markInFlight добавляет in-flight маркер; false если уже стоит
func (m *Matcher) markInFlight(orderID int) bool {
	m.inflightMu.Lock()
	defer m.inflightMu.Unlock()
	if _, exists := m.inflight[orderID]; exists {
		return false
	}
	m.inflight[orderID] = struct{}{}
	return true
}

// clearInFlight снимает in-flight маркер
func (m *Matcher) clearInFlight(orderID int) {
	m.inflightMu.Lock()
	delete(m.inflight, orderID)
	m.inflightMu.Unlock()
}
