package service

import (
	"propcore/internal/models"
)

// AccountService - read-операции по аккаунтам для API
type AccountService struct {
	accounts AccountRepositoryInterface
	events   EventRepositoryInterface
}

// NewAccountService создает новый экземпляр сервиса аккаунтов
func NewAccountService(accounts AccountRepositoryInterface, events EventRepositoryInterface) *AccountService {
	return &AccountService{
		accounts: accounts,
		events:   events,
	}
}

// GetByID возвращает аккаунт
func (s *AccountService) GetByID(id int) (*models.Account, error) {
	return s.accounts.GetByID(id)
}

// GetEvents возвращает последние аудит-события аккаунта
func (s *AccountService) GetEvents(accountID, limit int) ([]*models.Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.events.GetRecent(accountID, limit)
}

// GetSnapshots возвращает последние снимки equity аккаунта
func (s *AccountService) GetSnapshots(accountID, limit int) ([]*models.EquitySnapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.events.GetSnapshots(accountID, limit)
}
