package service

import (
	"context"

	"go.uber.org/zap"

	"propcore/internal/risk"
	"propcore/internal/venue"
)

// CheckpointService - бизнес-логика evaluation-этапов
//
// Работает на собственной каденции, независимо от риск-циклов:
// читает снимки balance/positions и передаёт их CheckpointEvaluator.
type CheckpointService struct {
	accounts  AccountRepositoryInterface
	evaluator *risk.CheckpointEvaluator
	positions venue.PositionProvider
	cfg       RiskServiceConfig
	log       *zap.Logger
}

// NewCheckpointService создает новый экземпляр сервиса checkpoint'ов
func NewCheckpointService(
	accounts AccountRepositoryInterface,
	evaluator *risk.CheckpointEvaluator,
	positions venue.PositionProvider,
	cfg RiskServiceConfig,
	log *zap.Logger,
) *CheckpointService {
	return &CheckpointService{
		accounts:  accounts,
		evaluator: evaluator,
		positions: positions,
		cfg:       cfg,
		log:       log,
	}
}

// GetCheckpointProgress возвращает информационное состояние этапа
//
// Read-only: pass/fail персистится только deadline-оценкой.
func (s *CheckpointService) GetCheckpointProgress(ctx context.Context, accountID int) (*risk.Progress, error) {
	acc, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}

	posCtx, cancel := context.WithTimeout(ctx, s.cfg.PositionTimeout)
	positions, err := s.positions.GetPositions(posCtx, acc.ID)
	cancel()
	if err != nil {
		return nil, err
	}

	return s.evaluator.Progress(acc, positions)
}

// EvaluateDeadlines фиксирует результаты этапов с наступившим deadline
//
// Проходит по всем активным evaluation-аккаунтам; ошибка одного
// аккаунта логируется и не прерывает остальные.
func (s *CheckpointService) EvaluateDeadlines(ctx context.Context) error {
	accounts, err := s.accounts.GetEvaluationAccounts()
	if err != nil {
		return err
	}

	for _, acc := range accounts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := risk.ValidateAccountConfig(acc); err != nil {
			s.log.Warn("evaluation account skipped", zap.Int("account_id", acc.ID), zap.Error(err))
			continue
		}

		posCtx, cancel := context.WithTimeout(ctx, s.cfg.PositionTimeout)
		positions, err := s.positions.GetPositions(posCtx, acc.ID)
		cancel()
		if err != nil {
			s.log.Warn("positions unavailable, checkpoint deferred",
				zap.Int("account_id", acc.ID),
				zap.Error(err),
			)
			continue
		}

		if err := s.evaluator.EvaluateDeadline(acc, positions); err != nil {
			s.log.Warn("checkpoint deadline evaluation failed",
				zap.Int("account_id", acc.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}
