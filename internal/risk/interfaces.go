package risk

import (
	"context"

	"propcore/internal/models"
)

// AccountStore определяет операции над аккаунтами, нужные риск-ядру
type AccountStore interface {
	// UpdateStatus записывает новый статус аккаунта
	UpdateStatus(id int, status models.AccountStatus) error
	// UpdateHighWaterMark записывает новый high-water mark
	UpdateHighWaterMark(id int, hwm float64) error
	// UpdateDayStart записывает дневной baseline и переводит аккаунт в active
	UpdateDayStart(id int, equity float64) error
	// GetActiveAndPaused возвращает аккаунты со статусом active или paused
	GetActiveAndPaused() ([]*models.Account, error)
}

// EventStore определяет append-only операции аудит-журнала
type EventStore interface {
	// Create добавляет запись в журнал событий
	Create(event *models.Event) error
	// CreateSnapshot добавляет снимок equity
	CreateSnapshot(snap *models.EquitySnapshot) error
}

// CheckpointStore определяет операции над checkpoint-записями
type CheckpointStore interface {
	// Create фиксирует результат этапа (append-only)
	Create(cp *models.Checkpoint) error
	// GetByAccount возвращает checkpoint'ы аккаунта по возрастанию номера
	GetByAccount(accountID int) ([]*models.Checkpoint, error)
}

// PositionProvider поставляет открытые позиции аккаунта
//
// Внешний collaborator: вызовы обязаны нести caller-imposed timeout
// через context.
type PositionProvider interface {
	GetPositions(ctx context.Context, accountID int) ([]*models.Position, error)
}
