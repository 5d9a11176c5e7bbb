package risk

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"propcore/internal/models"
)

// ErrNotEvaluation возвращается при запросе прогресса этапов у
// аккаунта без checkpoint'ов (funded-аккаунт).
var ErrNotEvaluation = errors.New("account has no evaluation checkpoints")

// Progress - текущее (информационное) состояние evaluation-аккаунта
//
// Все поля кроме записанного pass/fail рассчитываются на лету для
// отображения; персистентный результат этапа фиксируется только
// в момент deadline через EvaluateDeadline.
type Progress struct {
	CurrentCheckpoint int     `json:"current_checkpoint"` // номер текущего этапа, 1..N
	HoursRemaining    int     `json:"hours_remaining"`    // часов до deadline этапа
	RequiredBalance   float64 `json:"required_balance"`   // целевое equity этапа
	CurrentEquity     float64 `json:"current_equity"`
	MeetsRequirement  bool    `json:"meets_requirement"` // equity ≥ required (live)
	Completed         bool    `json:"completed"`         // все этапы уже оценены

	// Только для одноэтапных аккаунтов (numCheckpoints == 1)
	ProgressPercent int `json:"progress_percent,omitempty"` // 0..100

	History []*models.Checkpoint `json:"history"`
}

// CheckpointEvaluator оценивает этапы профит-таргета evaluation-аккаунта
//
// Этап k (1-индексация):
//
//	previousBalance = balance этапа k−1 (или initial size для k=1)
//	requiredBalance = previousBalance × (1 + profitTargetPercent/100)
//	deadlineHour    = k × checkpointIntervalHours
//
// Записанный balance этапа k неизменяем и служит baseline этапа k+1.
type CheckpointEvaluator struct {
	accounts    AccountStore
	checkpoints CheckpointStore
	events      EventStore
	clock       Clock
	log         *zap.Logger
}

// NewCheckpointEvaluator создаёт оценщик checkpoint'ов
func NewCheckpointEvaluator(
	accounts AccountStore,
	checkpoints CheckpointStore,
	events EventStore,
	clock Clock,
	log *zap.Logger,
) *CheckpointEvaluator {
	return &CheckpointEvaluator{
		accounts:    accounts,
		checkpoints: checkpoints,
		events:      events,
		clock:       clock,
		log:         log,
	}
}

// Progress возвращает информационное состояние текущего этапа
//
// Read-only: ничего не персистит и не меняет статус аккаунта.
func (e *CheckpointEvaluator) Progress(acc *models.Account, positions []*models.Position) (*Progress, error) {
	if !acc.IsEvaluation() {
		return nil, fmt.Errorf("account %d: %w", acc.ID, ErrNotEvaluation)
	}

	history, err := e.checkpoints.GetByAccount(acc.ID)
	if err != nil {
		return nil, err
	}

	k := len(history) + 1
	if k > acc.NumCheckpoints {
		// Все этапы уже оценены
		return &Progress{
			CurrentCheckpoint: acc.NumCheckpoints,
			Completed:         true,
			History:           history,
		}, nil
	}

	prevBalance := e.previousBalance(acc, history, k)
	required := prevBalance * (1 + acc.ProfitTargetPercent/100)
	equity := Equity(acc, positions)

	p := &Progress{
		CurrentCheckpoint: k,
		HoursRemaining:    e.hoursRemaining(acc, k),
		RequiredBalance:   required,
		CurrentEquity:     equity,
		MeetsRequirement:  equity >= required,
		History:           history,
	}

	// Одноэтапные аккаунты показывают непрерывный прогресс к цели
	if acc.NumCheckpoints == 1 {
		p.ProgressPercent = progressPercent(equity, prevBalance, required)
	}

	return p, nil
}

// EvaluateDeadline фиксирует результат этапа, если его deadline наступил
//
// Boundary-событие: вызывается внешним триггером (тикер движка).
// Терминально для любого статуса кроме active - paused/failed/closed/
// passed аккаунты не оцениваются. Идемпотентно: если deadline ещё не
// наступил или этап уже записан, ничего не делает.
func (e *CheckpointEvaluator) EvaluateDeadline(acc *models.Account, positions []*models.Position) error {
	if !acc.IsEvaluation() || acc.Status != models.AccountStatusActive {
		return nil
	}

	history, err := e.checkpoints.GetByAccount(acc.ID)
	if err != nil {
		return err
	}

	k := len(history) + 1
	if k > acc.NumCheckpoints {
		return nil
	}
	if e.hoursRemaining(acc, k) > 0 {
		return nil
	}

	prevBalance := e.previousBalance(acc, history, k)
	required := prevBalance * (1 + acc.ProfitTargetPercent/100)
	equity := Equity(acc, positions)
	passed := equity >= required

	cp := &models.Checkpoint{
		AccountID: acc.ID,
		Number:    k,
		Balance:   equity,
		Passed:    &passed,
	}
	if err := e.checkpoints.Create(cp); err != nil {
		return fmt.Errorf("record checkpoint %d: %w", k, err)
	}

	eventType := models.EventCheckpointFailed
	outcome := "failed"
	if passed {
		eventType = models.EventCheckpointPassed
		outcome = "passed"
	}
	if err := e.events.Create(&models.Event{
		AccountID: acc.ID,
		Type:      eventType,
		Equity:    equity,
		Details:   fmt.Sprintf("checkpoint %d/%d, required %.2f", k, acc.NumCheckpoints, required),
	}); err != nil {
		e.log.Warn("checkpoint event not recorded", zap.Int("account_id", acc.ID), zap.Error(err))
	}
	CheckpointEvaluationsTotal.WithLabelValues(outcome).Inc()

	e.log.Info("checkpoint evaluated",
		zap.Int("account_id", acc.ID),
		zap.Int("checkpoint", k),
		zap.Float64("equity", equity),
		zap.Float64("required", required),
		zap.Bool("passed", passed),
	)

	// Провал этапа заканчивает evaluation; прохождение финального
	// этапа переводит аккаунт в passed.
	switch {
	case !passed:
		return e.transition(acc, models.AccountStatusFailed)
	case k == acc.NumCheckpoints:
		return e.transition(acc, models.AccountStatusPassed)
	}
	return nil
}

// previousBalance возвращает baseline этапа k
func (e *CheckpointEvaluator) previousBalance(acc *models.Account, history []*models.Checkpoint, k int) float64 {
	if k == 1 {
		return acc.InitialSize
	}
	return history[k-2].Balance
}

// hoursRemaining возвращает часы до deadline этапа k (не меньше 0)
func (e *CheckpointEvaluator) hoursRemaining(acc *models.Account, k int) int {
	elapsed := int(math.Ceil(e.clock.Now().Sub(acc.CreatedAt).Hours()))
	deadline := k * acc.CheckpointIntervalHours
	if remaining := deadline - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// transition меняет статус аккаунта с проверкой транзишн-таблицы
func (e *CheckpointEvaluator) transition(acc *models.Account, to models.AccountStatus) error {
	if !CanTransition(acc.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, acc.Status, to)
	}
	if err := e.accounts.UpdateStatus(acc.ID, to); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	acc.Status = to
	return nil
}

// progressPercent считает процент прогресса к цели одноэтапного аккаунта
//
// Прижимается к диапазону [0, 100]: перевыполненная цель отображается
// как 100%.
func progressPercent(equity, prevBalance, required float64) int {
	target := required - prevBalance
	if target <= 0 {
		return 0
	}
	profit := equity - prevBalance
	if profit < 0 {
		profit = 0
	}
	pct := int(math.Round(profit * 100 / target))
	if pct > 100 {
		pct = 100
	}
	return pct
}
