package risk

import (
	"context"
	"sync"
	"time"

	"propcore/internal/models"
)

// ============ Mock AccountStore ============

type mockAccountStore struct {
	mu sync.Mutex

	accounts []*models.Account

	statusUpdates   map[int]models.AccountStatus
	hwmUpdates      map[int]float64
	dayStartUpdates map[int]float64

	updateStatusErr   error
	updateHWMErr      error
	updateDayStartErr error
	listErr           error
}

func newMockAccountStore(accounts ...*models.Account) *mockAccountStore {
	return &mockAccountStore{
		accounts:        accounts,
		statusUpdates:   make(map[int]models.AccountStatus),
		hwmUpdates:      make(map[int]float64),
		dayStartUpdates: make(map[int]float64),
	}
}

func (m *mockAccountStore) UpdateStatus(id int, status models.AccountStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.statusUpdates[id] = status
	return nil
}

func (m *mockAccountStore) UpdateHighWaterMark(id int, hwm float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateHWMErr != nil {
		return m.updateHWMErr
	}
	m.hwmUpdates[id] = hwm
	return nil
}

func (m *mockAccountStore) UpdateDayStart(id int, equity float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateDayStartErr != nil {
		return m.updateDayStartErr
	}
	m.dayStartUpdates[id] = equity
	return nil
}

func (m *mockAccountStore) GetActiveAndPaused() ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.accounts, nil
}

// ============ Mock EventStore ============

type mockEventStore struct {
	mu sync.Mutex

	events    []*models.Event
	snapshots []*models.EquitySnapshot

	createErr   error
	snapshotErr error
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{}
}

func (m *mockEventStore) Create(event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventStore) CreateSnapshot(snap *models.EquitySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshotErr != nil {
		return m.snapshotErr
	}
	m.snapshots = append(m.snapshots, snap)
	return nil
}

func (m *mockEventStore) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}

// ============ Mock CheckpointStore ============

type mockCheckpointStore struct {
	mu sync.Mutex

	checkpoints map[int][]*models.Checkpoint
	nextID      int

	createErr error
	getErr    error
}

func newMockCheckpointStore() *mockCheckpointStore {
	return &mockCheckpointStore{
		checkpoints: make(map[int][]*models.Checkpoint),
		nextID:      1,
	}
}

func (m *mockCheckpointStore) Create(cp *models.Checkpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp.ID = m.nextID
	m.nextID++
	m.checkpoints[cp.AccountID] = append(m.checkpoints[cp.AccountID], cp)
	return nil
}

func (m *mockCheckpointStore) GetByAccount(accountID int) ([]*models.Checkpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.checkpoints[accountID], nil
}

// ============ Mock PositionProvider ============

type mockPositionProvider struct {
	mu sync.Mutex

	positions map[int][]*models.Position
	errByID   map[int]error
}

func newMockPositionProvider() *mockPositionProvider {
	return &mockPositionProvider{
		positions: make(map[int][]*models.Position),
		errByID:   make(map[int]error),
	}
}

func (m *mockPositionProvider) GetPositions(ctx context.Context, accountID int) ([]*models.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errByID[accountID]; err != nil {
		return nil, err
	}
	return m.positions[accountID], nil
}

// ============ Fake Clock ============

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

// ============ Helpers ============

func testAccount() *models.Account {
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

func evaluationAccount(numCheckpoints int) *models.Account {
	acc := testAccount()
	acc.NumCheckpoints = numCheckpoints
	acc.CheckpointIntervalHours = 72
	acc.ProfitTargetPercent = 8
	return acc
}
