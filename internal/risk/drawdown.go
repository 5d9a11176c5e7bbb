package risk

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"propcore/internal/models"
)

// Ошибки риск-ядра
var (
	// ErrAccountTerminal - попытка оценить аккаунт в терминальном статусе.
	// Явный precondition: повторная оценка failed/closed аккаунта
	// породила бы дубликаты breach-событий.
	ErrAccountTerminal = errors.New("account is in terminal status")
)

// EvalResult - результат оценки drawdown
type EvalResult struct {
	Status  models.AccountStatus `json:"status"` // статус после оценки
	Equity  float64              `json:"equity"` // рассчитанное equity
	Changed bool                 `json:"changed"` // статус изменился в этой оценке
}

// DrawdownMonitor проверяет дневной и максимальный drawdown аккаунта
//
// Порядок проверок фиксирован:
//  1. дневной порог (dayStartEquity − ddDaily) - при одновременном
//     пробое обоих порогов приоритет у дневного (paused, восстановимо);
//  2. максимальный порог (baseline − ddMax) - терминальный failed;
//  3. иначе пассивное поднятие high-water mark.
//
// Граница считается пробоем (≤, консервативно).
type DrawdownMonitor struct {
	accounts AccountStore
	events   EventStore
	log      *zap.Logger
}

// NewDrawdownMonitor создаёт монитор drawdown
func NewDrawdownMonitor(accounts AccountStore, events EventStore, log *zap.Logger) *DrawdownMonitor {
	return &DrawdownMonitor{
		accounts: accounts,
		events:   events,
		log:      log,
	}
}

// Evaluate выполняет одну оценку риска аккаунта
//
// Позиции поставляются вызывающей стороной (уже полученные от
// position-провайдера): ошибка получения данных никогда не доходит
// сюда и не может ошибочно перевести аккаунт в paused/failed.
//
// Ошибка записи в store оставляет статус без изменений - аккаунт
// будет переоценён в следующем цикле.
func (m *DrawdownMonitor) Evaluate(acc *models.Account, positions []*models.Position) (*EvalResult, error) {
	if IsTerminal(acc.Status) {
		return nil, ErrAccountTerminal
	}

	equity := Equity(acc, positions)

	// Дневной порог проверяется первым
	dailyThreshold := acc.DayStartEquity - acc.DdDaily
	if equity <= dailyThreshold {
		// Уже paused: breach зафиксирован ранее, до дневного сброса
		// повторные события не пишутся
		if acc.Status == models.AccountStatusPaused {
			return &EvalResult{Status: acc.Status, Equity: equity, Changed: false}, nil
		}
		if err := m.applyBreach(acc, equity, models.AccountStatusPaused, models.EventBreachDaily); err != nil {
			return nil, err
		}
		BreachesTotal.WithLabelValues("daily").Inc()
		return &EvalResult{Status: models.AccountStatusPaused, Equity: equity, Changed: true}, nil
	}

	// Максимальный порог: baseline зависит от режима аккаунта
	maxBaseline := acc.Balance
	if acc.Mode == models.AccountModeTwoStep {
		maxBaseline = acc.HighWaterMark
	}
	if equity <= maxBaseline-acc.DdMax {
		if err := m.applyBreach(acc, equity, models.AccountStatusFailed, models.EventBreachMax); err != nil {
			return nil, err
		}
		BreachesTotal.WithLabelValues("max").Inc()
		return &EvalResult{Status: models.AccountStatusFailed, Equity: equity, Changed: true}, nil
	}

	// Порог не пробит: пассивное поднятие high-water mark, без событий
	if equity > acc.HighWaterMark {
		if err := m.accounts.UpdateHighWaterMark(acc.ID, equity); err != nil {
			return nil, fmt.Errorf("update high-water mark: %w", err)
		}
		acc.HighWaterMark = equity
	}

	return &EvalResult{Status: acc.Status, Equity: equity, Changed: false}, nil
}

// applyBreach переводит аккаунт в breach-статус и пишет аудит
//
// Статус пишется первым: если запись события/снимка не удалась,
// breach уже зафиксирован, а потеря аудит-записи логируется.
func (m *DrawdownMonitor) applyBreach(acc *models.Account, equity float64, to models.AccountStatus, eventType string) error {
	if !CanTransition(acc.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, acc.Status, to)
	}

	if err := m.accounts.UpdateStatus(acc.ID, to); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	from := acc.Status
	acc.Status = to

	m.log.Warn("drawdown breach",
		zap.Int("account_id", acc.ID),
		zap.String("event", eventType),
		zap.Float64("equity", equity),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	if err := m.events.Create(&models.Event{
		AccountID: acc.ID,
		Type:      eventType,
		Equity:    equity,
	}); err != nil {
		m.log.Warn("breach event not recorded", zap.Int("account_id", acc.ID), zap.Error(err))
	}

	if err := m.events.CreateSnapshot(&models.EquitySnapshot{
		AccountID: acc.ID,
		Equity:    equity,
		DailyFlag: eventType == models.EventBreachDaily,
		MaxFlag:   eventType == models.EventBreachMax,
	}); err != nil {
		m.log.Warn("equity snapshot not recorded", zap.Int("account_id", acc.ID), zap.Error(err))
	}

	return nil
}
