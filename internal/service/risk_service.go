package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"propcore/internal/models"
	"propcore/internal/risk"
	"propcore/internal/venue"
)

// RiskServiceConfig - конфигурация риск-сервиса
type RiskServiceConfig struct {
	// Таймаут запроса позиций у provider'а
	PositionTimeout time.Duration
}

// DefaultRiskServiceConfig возвращает конфигурацию по умолчанию
func DefaultRiskServiceConfig() RiskServiceConfig {
	return RiskServiceConfig{
		PositionTimeout: 10 * time.Second,
	}
}

// RiskService - бизнес-логика оценки риска и вывода профита
//
// Оборачивает DrawdownMonitor и HighWaterMarkTracker: загружает
// аккаунт, валидирует конфигурацию, получает позиции у внешнего
// провайдера с таймаутом и передаёт их чистым компонентам риск-ядра.
type RiskService struct {
	accounts  AccountRepositoryInterface
	monitor   *risk.DrawdownMonitor
	hwm       *risk.HighWaterMarkTracker
	positions venue.PositionProvider
	cfg       RiskServiceConfig
	log       *zap.Logger
}

// NewRiskService создает новый экземпляр риск-сервиса
func NewRiskService(
	accounts AccountRepositoryInterface,
	monitor *risk.DrawdownMonitor,
	hwm *risk.HighWaterMarkTracker,
	positions venue.PositionProvider,
	cfg RiskServiceConfig,
	log *zap.Logger,
) *RiskService {
	return &RiskService{
		accounts:  accounts,
		monitor:   monitor,
		hwm:       hwm,
		positions: positions,
		cfg:       cfg,
		log:       log,
	}
}

// EvaluateRisk выполняет одну оценку риска аккаунта
//
// Ошибка получения данных (аккаунт, позиции) возвращается БЕЗ
// изменения статуса: аккаунт будет переоценён в следующем цикле.
// Терминальный аккаунт отклоняется с risk.ErrAccountTerminal.
func (s *RiskService) EvaluateRisk(ctx context.Context, accountID int) (*risk.EvalResult, error) {
	acc, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	return s.EvaluateAccount(ctx, acc)
}

// EvaluateAccount оценивает уже загруженный аккаунт
//
// Используется движком в цикле по многим аккаунтам, чтобы не
// перечитывать каждый из store.
func (s *RiskService) EvaluateAccount(ctx context.Context, acc *models.Account) (*risk.EvalResult, error) {
	if err := risk.ValidateAccountConfig(acc); err != nil {
		return nil, err
	}
	if risk.IsTerminal(acc.Status) {
		return nil, risk.ErrAccountTerminal
	}

	posCtx, cancel := context.WithTimeout(ctx, s.cfg.PositionTimeout)
	positions, err := s.positions.GetPositions(posCtx, acc.ID)
	cancel()
	if err != nil {
		// Статус НЕ меняется: неудачный fetch не является breach'ем
		return nil, fmt.Errorf("fetch positions for account %d: %w", acc.ID, err)
	}

	start := time.Now()
	result, err := s.monitor.Evaluate(acc, positions)
	risk.EvaluationLatency.WithLabelValues(string(acc.Mode)).
		Observe(float64(time.Since(start).Milliseconds()))
	return result, err
}

// Withdraw применяет вывод профита к high-water mark аккаунта
//
// Возвращает новый HWM. Баланс не трогается - он мутируется только
// внешним settlement'ом.
func (s *RiskService) Withdraw(ctx context.Context, accountID int, amount float64) (float64, error) {
	acc, err := s.accounts.GetByID(accountID)
	if err != nil {
		return 0, err
	}
	if risk.IsTerminal(acc.Status) {
		return 0, risk.ErrAccountTerminal
	}
	return s.hwm.Withdraw(acc, amount)
}
