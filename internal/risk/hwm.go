package risk

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"propcore/internal/models"
)

// Ошибки вывода профита
var (
	ErrInvalidWithdrawAmount = errors.New("withdraw amount must be greater than 0")
)

// HighWaterMarkTracker корректирует high-water mark при выводе профита
//
// HWM монотонно не убывает, за двумя исключениями:
//   - явная корректировка при выводе (этот компонент);
//   - и никогда не опускается ниже initial size аккаунта.
//
// Пассивное поднятие HWM выполняет DrawdownMonitor на небреханном
// пути оценки; других мутаторов HWM в ядре нет.
type HighWaterMarkTracker struct {
	accounts AccountStore
	events   EventStore
	log      *zap.Logger
}

// NewHighWaterMarkTracker создаёт трекер high-water mark
func NewHighWaterMarkTracker(accounts AccountStore, events EventStore, log *zap.Logger) *HighWaterMarkTracker {
	return &HighWaterMarkTracker{
		accounts: accounts,
		events:   events,
		log:      log,
	}
}

// Withdraw применяет вывод профита к high-water mark
//
//	newHWM = max(currentHWM − amount, initialSize)
//
// Возвращает новый HWM. Баланс аккаунта здесь не трогается -
// он мутируется только внешним settlement'ом.
func (t *HighWaterMarkTracker) Withdraw(acc *models.Account, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidWithdrawAmount
	}

	newHWM := acc.HighWaterMark - amount
	if newHWM < acc.InitialSize {
		newHWM = acc.InitialSize
	}

	if err := t.accounts.UpdateHighWaterMark(acc.ID, newHWM); err != nil {
		return 0, fmt.Errorf("update high-water mark: %w", err)
	}
	acc.HighWaterMark = newHWM

	if err := t.events.Create(&models.Event{
		AccountID: acc.ID,
		Type:      models.EventWithdrawProfit,
		Amount:    amount,
		Equity:    newHWM,
		Details:   fmt.Sprintf("high-water mark adjusted to %.2f", newHWM),
	}); err != nil {
		t.log.Warn("withdraw event not recorded", zap.Int("account_id", acc.ID), zap.Error(err))
	}

	WithdrawalsTotal.Inc()

	t.log.Info("profit withdrawn",
		zap.Int("account_id", acc.ID),
		zap.Float64("amount", amount),
		zap.Float64("new_hwm", newHWM),
	)

	return newHWM, nil
}
