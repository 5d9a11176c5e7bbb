package service

import (
	"context"
	"time"

	"propcore/internal/models"
	"propcore/internal/repository"
)

// ============ Mock AccountRepository ============

// Реализует и AccountRepositoryInterface, и risk.AccountStore
type mockAccountRepo struct {
	accounts map[int]*models.Account

	getErr        error
	statusUpdates map[int]models.AccountStatus
	hwmUpdates    map[int]float64
}

func newMockAccountRepo(accounts ...*models.Account) *mockAccountRepo {
	m := &mockAccountRepo{
		accounts:      make(map[int]*models.Account),
		statusUpdates: make(map[int]models.AccountStatus),
		hwmUpdates:    make(map[int]float64),
	}
	for _, acc := range accounts {
		m.accounts[acc.ID] = acc
	}
	return m
}

func (m *mockAccountRepo) GetByID(id int) (*models.Account, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	acc, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return acc, nil
}

func (m *mockAccountRepo) GetActiveAndPaused() ([]*models.Account, error) {
	var out []*models.Account
	for _, acc := range m.accounts {
		if acc.Status == models.AccountStatusActive || acc.Status == models.AccountStatusPaused {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (m *mockAccountRepo) GetEvaluationAccounts() ([]*models.Account, error) {
	var out []*models.Account
	for _, acc := range m.accounts {
		if acc.Status == models.AccountStatusActive && acc.NumCheckpoints > 0 {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (m *mockAccountRepo) UpdateStatus(id int, status models.AccountStatus) error {
	m.statusUpdates[id] = status
	if acc, ok := m.accounts[id]; ok {
		acc.Status = status
	}
	return nil
}

func (m *mockAccountRepo) UpdateHighWaterMark(id int, hwm float64) error {
	m.hwmUpdates[id] = hwm
	return nil
}

func (m *mockAccountRepo) UpdateDayStart(id int, equity float64) error {
	if acc, ok := m.accounts[id]; ok {
		acc.DayStartEquity = equity
		acc.Status = models.AccountStatusActive
	}
	return nil
}

// ============ Mock EventRepository ============

type mockEventRepo struct {
	events    []*models.Event
	snapshots []*models.EquitySnapshot
}

func (m *mockEventRepo) Create(event *models.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventRepo) CreateSnapshot(snap *models.EquitySnapshot) error {
	m.snapshots = append(m.snapshots, snap)
	return nil
}

func (m *mockEventRepo) GetRecent(accountID, limit int) ([]*models.Event, error) {
	if limit < len(m.events) {
		return m.events[:limit], nil
	}
	return m.events, nil
}

func (m *mockEventRepo) GetSnapshots(accountID, limit int) ([]*models.EquitySnapshot, error) {
	return m.snapshots, nil
}

// ============ Mock CheckpointRepository ============

type mockCheckpointRepo struct {
	byAccount map[int][]*models.Checkpoint
	createErr error
}

func newMockCheckpointRepo() *mockCheckpointRepo {
	return &mockCheckpointRepo{byAccount: make(map[int][]*models.Checkpoint)}
}

func (m *mockCheckpointRepo) Create(cp *models.Checkpoint) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp.ID = len(m.byAccount[cp.AccountID]) + 1
	m.byAccount[cp.AccountID] = append(m.byAccount[cp.AccountID], cp)
	return nil
}

func (m *mockCheckpointRepo) GetByAccount(accountID int) ([]*models.Checkpoint, error) {
	return m.byAccount[accountID], nil
}

// ============ Mock PositionProvider ============

type mockPositions struct {
	positions map[int][]*models.Position
	errByID   map[int]error
	calls     int
}

func newMockPositions() *mockPositions {
	return &mockPositions{
		positions: make(map[int][]*models.Position),
		errByID:   make(map[int]error),
	}
}

func (m *mockPositions) GetPositions(ctx context.Context, accountID int) ([]*models.Position, error) {
	m.calls++
	if err := m.errByID[accountID]; err != nil {
		return nil, err
	}
	return m.positions[accountID], nil
}

// ============ Helpers ============

func serviceTestAccount() *models.Account {
	return &models.Account{
		ID:             1,
		Status:         models.AccountStatusActive,
		Mode:           models.AccountModeOneStep,
		Balance:        10000,
		InitialSize:    10000,
		DdMax:          1000,
		DdDaily:        500,
		DayStartEquity: 10000,
		HighWaterMark:  10000,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
