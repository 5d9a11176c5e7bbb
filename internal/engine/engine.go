package engine

import (
	"context"
	"hash/fnv"
	"runtime"
	"time"

	"go.uber.org/zap"

	"propcore/internal/models"
	"propcore/internal/risk"
	"propcore/pkg/utils"
)

// PriceHandler потребляет обновления цен (матчер лимитных ордеров)
type PriceHandler interface {
	OnPriceUpdate(ctx context.Context, symbol string, price float64) error
}

// RiskEvaluator выполняет одну оценку риска аккаунта
type RiskEvaluator interface {
	EvaluateAccount(ctx context.Context, acc *models.Account) (*risk.EvalResult, error)
}

// AccountSource поставляет аккаунты для риск-цикла
type AccountSource interface {
	GetActiveAndPaused() ([]*models.Account, error)
}

// DeadlineEvaluator фиксирует результаты evaluation-этапов
type DeadlineEvaluator interface {
	EvaluateDeadlines(ctx context.Context) error
}

// ResetRunner выполняет один проход дневного сброса
type ResetRunner interface {
	Run(ctx context.Context) (int, error)
}

// SymbolSource возвращает символы с открытыми ордерами
type SymbolSource interface {
	GetOpenSymbols() ([]string, error)
}

// Subscriber управляет подписками ценового потока
type Subscriber interface {
	Subscribe(symbol string) error
	Unsubscribe(symbol string) error
}

// Config - конфигурация движка
type Config struct {
	// NumShards - количество шардов worker pool (0 = по числу CPU)
	NumShards int
	// ShardBuffer - ёмкость канала одного шарда
	ShardBuffer int

	RiskCheckInterval       time.Duration
	CheckpointCheckInterval time.Duration
	SubscriptionRefresh     time.Duration

	// DailyResetHour - час UTC дневного сброса baseline'ов
	DailyResetHour int
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		NumShards:               0,
		ShardBuffer:             2000,
		RiskCheckInterval:       5 * time.Second,
		CheckpointCheckInterval: time.Minute,
		SubscriptionRefresh:     30 * time.Second,
		DailyResetHour:          0,
	}
}

// priceUpdate - событие обновления цены символа
type priceUpdate struct {
	symbol string
	price  float64
}

// priceShard - шард обработки ценовых событий
type priceShard struct {
	updates chan priceUpdate
}

// Engine - event-driven ядро: маршрутизирует поток цен в матчер и
// гоняет периодические циклы риска, checkpoint'ов и дневного сброса.
//
// Поток данных:
// PriceStream → OnPriceUpdate → шард (hash by symbol) → worker → Matcher
//
// Один символ всегда попадает в один шард, поэтому цены одного
// символа обрабатываются последовательно. Переполненный шард
// СБРАСЫВАЕТ обновление (drop-on-full): лимитный ордер догонит
// рынок на следующем тике, а блокировка читающей goroutine потока
// стоила бы дороже.
type Engine struct {
	cfg Config

	matcher     PriceHandler
	riskSvc     RiskEvaluator
	accounts    AccountSource
	checkpoints DeadlineEvaluator
	reset       ResetRunner
	orders      SymbolSource
	stream      Subscriber
	clock       risk.Clock
	log         *zap.Logger

	shards    []*priceShard
	numShards int

	// Текущие подписки потока цен (только goroutine refreshLoop)
	subscribed map[string]struct{}
}

// New создает движок
func New(
	cfg Config,
	matcher PriceHandler,
	riskSvc RiskEvaluator,
	accounts AccountSource,
	checkpoints DeadlineEvaluator,
	reset ResetRunner,
	orders SymbolSource,
	stream Subscriber,
	clock risk.Clock,
	log *zap.Logger,
) *Engine {
	numShards := cfg.NumShards
	if numShards <= 0 {
		numShards = runtime.NumCPU()
	}
	if numShards < 4 {
		numShards = 4
	}
	if numShards > 32 {
		numShards = 32
	}

	buffer := cfg.ShardBuffer
	if buffer <= 0 {
		buffer = 2000
	}

	e := &Engine{
		cfg:         cfg,
		matcher:     matcher,
		riskSvc:     riskSvc,
		accounts:    accounts,
		checkpoints: checkpoints,
		reset:       reset,
		orders:      orders,
		stream:      stream,
		clock:       clock,
		log:         log,
		shards:      make([]*priceShard, numShards),
		numShards:   numShards,
		subscribed:  make(map[string]struct{}),
	}
	for i := 0; i < numShards; i++ {
		e.shards[i] = &priceShard{updates: make(chan priceUpdate, buffer)}
	}
	return e
}

// SetStream подключает ценовой поток
//
// Поток и движок ссылаются друг на друга (callback цен против
// управления подписками), поэтому подключается после создания
// обоих. Вызывать строго до Run.
func (e *Engine) SetStream(stream Subscriber) {
	e.stream = stream
}

// Run запускает воркеры и периодические циклы до отмены контекста
func (e *Engine) Run(ctx context.Context) error {
	for i := 0; i < e.numShards; i++ {
		go e.priceWorker(ctx, i)
	}

	go e.riskLoop(ctx)
	go e.checkpointLoop(ctx)
	go e.dailyResetLoop(ctx)
	go e.refreshLoop(ctx)

	e.log.Info("engine started", zap.Int("shards", e.numShards))
	<-ctx.Done()
	return ctx.Err()
}

// OnPriceUpdate - точка входа ценового потока
//
// Детерминированный роутинг: символ всегда попадает в один шард.
// Не блокирует: при переполненном шарде обновление сбрасывается.
func (e *Engine) OnPriceUpdate(symbol string, price float64) {
	shard := e.shards[e.shardIndex(symbol)]
	select {
	case shard.updates <- priceUpdate{symbol: symbol, price: price}:
	default:
		DroppedUpdates.WithLabelValues(symbol).Inc()
	}
}

// shardIndex вычисляет индекс шарда по символу
func (e *Engine) shardIndex(symbol string) int {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return int(h.Sum32()) % e.numShards
}

// priceWorker обрабатывает ценовые события одного шарда
func (e *Engine) priceWorker(ctx context.Context, idx int) {
	shard := e.shards[idx]
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-shard.updates:
			if err := e.matcher.OnPriceUpdate(ctx, u.symbol, u.price); err != nil {
				e.log.Warn("price update processing failed",
					zap.String("symbol", u.symbol),
					zap.Error(err),
				)
			}
		}
	}
}

// riskLoop периодически оценивает риск всех активных/paused аккаунтов
func (e *Engine) riskLoop(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.RiskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.runRiskCycle(ctx)
		}
	}
}

// runRiskCycle выполняет один проход риск-оценки
//
// Ошибка одного аккаунта не прерывает остальные: аккаунт будет
// переоценён в следующем цикле.
func (e *Engine) runRiskCycle(ctx context.Context) {
	accounts, err := e.accounts.GetActiveAndPaused()
	if err != nil {
		e.log.Warn("risk cycle: account listing failed", zap.Error(err))
		return
	}

	for _, acc := range accounts {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result, err := e.riskSvc.EvaluateAccount(ctx, acc)
		if err != nil {
			e.log.Warn("risk evaluation failed",
				zap.Int("account_id", acc.ID),
				zap.Error(err),
			)
			continue
		}
		if result.Changed {
			e.log.Info("account status changed",
				zap.Int("account_id", acc.ID),
				zap.String("status", string(result.Status)),
				zap.Float64("equity", result.Equity),
			)
		}
	}
	RiskCyclesTotal.Inc()
}

// checkpointLoop периодически проверяет deadline'ы evaluation-этапов
func (e *Engine) checkpointLoop(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.CheckpointCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.checkpoints.EvaluateDeadlines(ctx); err != nil {
				e.log.Warn("checkpoint deadline cycle failed", zap.Error(err))
			}
		}
	}
}

// dailyResetLoop выполняет дневной сброс на границе торгового дня
func (e *Engine) dailyResetLoop(ctx context.Context) {
	for {
		boundary := utils.NextDailyBoundary(e.clock.Now(), e.cfg.DailyResetHour)
		timer := time.NewTimer(boundary.Sub(e.clock.Now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			count, err := e.reset.Run(ctx)
			if err != nil {
				e.log.Error("daily reset run failed",
					zap.Int("reset", count),
					zap.Error(err),
				)
			}
		}
	}
}

// refreshLoop синхронизирует подписки потока с открытыми ордерами
//
// Подписываемся на символы, по которым появились открытые ордера,
// отписываемся от символов без ордеров. Работает поверх replay'а
// подписок в PriceStream: после reconnect'а состояние сходится само.
func (e *Engine) refreshLoop(ctx context.Context) {
	// Первичная подписка сразу, не дожидаясь первого тика
	e.refreshSubscriptions()

	ticker := time.NewTicker(e.cfg.SubscriptionRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.refreshSubscriptions()
		}
	}
}

// refreshSubscriptions выполняет один проход синхронизации подписок
func (e *Engine) refreshSubscriptions() {
	symbols, err := e.orders.GetOpenSymbols()
	if err != nil {
		e.log.Warn("subscription refresh: open symbols listing failed", zap.Error(err))
		return
	}

	wanted := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		wanted[sym] = struct{}{}
		if _, ok := e.subscribed[sym]; ok {
			continue
		}
		if err := e.stream.Subscribe(sym); err != nil {
			e.log.Warn("subscribe failed", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		e.subscribed[sym] = struct{}{}
	}

	for sym := range e.subscribed {
		if _, ok := wanted[sym]; ok {
			continue
		}
		if err := e.stream.Unsubscribe(sym); err != nil {
			e.log.Warn("unsubscribe failed", zap.String("symbol", sym), zap.Error(err))
			continue
		}
		delete(e.subscribed, sym)
	}
}
