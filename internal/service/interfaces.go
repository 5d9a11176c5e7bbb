package service

import (
	"propcore/internal/models"
)

// AccountRepositoryInterface определяет интерфейс репозитория аккаунтов
type AccountRepositoryInterface interface {
	GetByID(id int) (*models.Account, error)
	GetActiveAndPaused() ([]*models.Account, error)
	GetEvaluationAccounts() ([]*models.Account, error)
	UpdateStatus(id int, status models.AccountStatus) error
	UpdateHighWaterMark(id int, hwm float64) error
	UpdateDayStart(id int, equity float64) error
}

// OrderRepositoryInterface определяет интерфейс репозитория ордеров
type OrderRepositoryInterface interface {
	GetByID(id int) (*models.Order, error)
	GetOpenByAccount(accountID int) ([]*models.Order, error)
	GetOpenBySymbol(symbol string) ([]*models.Order, error)
	GetOpenSymbols() ([]string, error)
	FillIfOpen(id int) (bool, error)
	CancelIfOpen(id int) (bool, error)
}

// CheckpointRepositoryInterface определяет интерфейс репозитория checkpoint'ов
type CheckpointRepositoryInterface interface {
	Create(cp *models.Checkpoint) error
	GetByAccount(accountID int) ([]*models.Checkpoint, error)
}

// EventRepositoryInterface определяет интерфейс репозитория аудит-журнала
type EventRepositoryInterface interface {
	Create(event *models.Event) error
	CreateSnapshot(snap *models.EquitySnapshot) error
	GetRecent(accountID, limit int) ([]*models.Event, error)
	GetSnapshots(accountID, limit int) ([]*models.EquitySnapshot, error)
}
