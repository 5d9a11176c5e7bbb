package risk

import (
	"context"
	"time"

	"go.uber.org/zap"

	"propcore/internal/models"
)

// DailyResetConfig - конфигурация дневного сброса
type DailyResetConfig struct {
	// Таймаут запроса позиций на один аккаунт
	PositionTimeout time.Duration
}

// DefaultDailyResetConfig возвращает конфигурацию по умолчанию
func DefaultDailyResetConfig() DailyResetConfig {
	return DailyResetConfig{
		PositionTimeout: 10 * time.Second,
	}
}

// DailyResetScheduler выполняет дневной сброс baseline'ов
//
// Один раз за торговый день по всем аккаунтам со статусом active/paused:
//   - dayStartEquity = текущее equity по открытым позициям;
//   - статус безусловно возвращается в active (дневной breach
//     восстановим; max breach терминален и сюда не попадает).
//
// Ошибка по одному аккаунту логируется и НЕ прерывает обработку
// остальных.
type DailyResetScheduler struct {
	accounts  AccountStore
	events    EventStore
	positions PositionProvider
	cfg       DailyResetConfig
	log       *zap.Logger
}

// NewDailyResetScheduler создаёт планировщик дневного сброса
func NewDailyResetScheduler(
	accounts AccountStore,
	events EventStore,
	positions PositionProvider,
	cfg DailyResetConfig,
	log *zap.Logger,
) *DailyResetScheduler {
	return &DailyResetScheduler{
		accounts:  accounts,
		events:    events,
		positions: positions,
		cfg:       cfg,
		log:       log,
	}
}

// Run выполняет один проход дневного сброса по всем аккаунтам
//
// Возвращает количество успешно сброшенных аккаунтов.
func (s *DailyResetScheduler) Run(ctx context.Context) (int, error) {
	accounts, err := s.accounts.GetActiveAndPaused()
	if err != nil {
		return 0, err
	}

	resetCount := 0
	for _, acc := range accounts {
		select {
		case <-ctx.Done():
			return resetCount, ctx.Err()
		default:
		}

		if err := s.resetAccount(ctx, acc); err != nil {
			DailyResetFailures.Inc()
			s.log.Warn("daily reset skipped for account",
				zap.Int("account_id", acc.ID),
				zap.Error(err),
			)
			continue
		}
		resetCount++
	}

	s.log.Info("daily reset completed",
		zap.Int("total", len(accounts)),
		zap.Int("reset", resetCount),
	)
	return resetCount, nil
}

// resetAccount сбрасывает дневной baseline одного аккаунта
func (s *DailyResetScheduler) resetAccount(ctx context.Context, acc *models.Account) error {
	posCtx, cancel := context.WithTimeout(ctx, s.cfg.PositionTimeout)
	positions, err := s.positions.GetPositions(posCtx, acc.ID)
	cancel()
	if err != nil {
		return err
	}

	equity := Equity(acc, positions)

	if err := s.accounts.UpdateDayStart(acc.ID, equity); err != nil {
		return err
	}
	acc.DayStartEquity = equity
	acc.Status = models.AccountStatusActive

	if err := s.events.Create(&models.Event{
		AccountID: acc.ID,
		Type:      models.EventDailyReset,
		Equity:    equity,
	}); err != nil {
		s.log.Warn("daily reset event not recorded", zap.Int("account_id", acc.ID), zap.Error(err))
	}

	DailyResetsTotal.Inc()
	return nil
}
