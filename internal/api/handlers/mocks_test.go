package handlers

import (
	"context"
	"errors"

	"propcore/internal/models"
	"propcore/internal/repository"
	"propcore/internal/risk"
)

// ErrMockDatabase - ошибка БД для тестов
var ErrMockDatabase = errors.New("mock database error")

// ============ Mock AccountService ============

type MockAccountService struct {
	accounts  map[int]*models.Account
	events    []*models.Event
	snapshots []*models.EquitySnapshot
	err       error
}

func NewMockAccountService() *MockAccountService {
	return &MockAccountService{accounts: make(map[int]*models.Account)}
}

func (m *MockAccountService) AddAccount(acc *models.Account) {
	m.accounts[acc.ID] = acc
}

func (m *MockAccountService) SetError(err error) {
	m.err = err
}

func (m *MockAccountService) GetByID(id int) (*models.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	acc, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return acc, nil
}

func (m *MockAccountService) GetEvents(accountID, limit int) ([]*models.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

func (m *MockAccountService) GetSnapshots(accountID, limit int) ([]*models.EquitySnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshots, nil
}

// ============ Mock RiskService ============

type MockRiskService struct {
	result      *risk.EvalResult
	hwm         float64
	evaluateErr error
	withdrawErr error

	withdrawnAmount float64
}

func NewMockRiskService() *MockRiskService {
	return &MockRiskService{
		result: &risk.EvalResult{Status: models.AccountStatusActive, Equity: 10000},
	}
}

func (m *MockRiskService) EvaluateRisk(ctx context.Context, accountID int) (*risk.EvalResult, error) {
	if m.evaluateErr != nil {
		return nil, m.evaluateErr
	}
	return m.result, nil
}

func (m *MockRiskService) Withdraw(ctx context.Context, accountID int, amount float64) (float64, error) {
	if m.withdrawErr != nil {
		return 0, m.withdrawErr
	}
	m.withdrawnAmount = amount
	return m.hwm, nil
}

// ============ Mock CheckpointService ============

type MockCheckpointService struct {
	progress *risk.Progress
	err      error
}

func NewMockCheckpointService() *MockCheckpointService {
	return &MockCheckpointService{}
}

func (m *MockCheckpointService) GetCheckpointProgress(ctx context.Context, accountID int) (*risk.Progress, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.progress, nil
}
