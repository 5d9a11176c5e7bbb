package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"propcore/internal/models"
)

// ============================================================
// EventRepository Tests
// ============================================================

func TestEventRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(1, models.EventBreachDaily, 9500.0, 0.0, "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	repo := NewEventRepository(db)
	event := &models.Event{
		AccountID: 1,
		Type:      models.EventBreachDaily,
		Equity:    9500,
	}
	if err := repo.Create(event); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if event.ID != 11 {
		t.Errorf("ID = %d, want 11", event.ID)
	}
	if event.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEventRepositoryGetRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "account_id", "type", "equity", "amount", "details", "created_at"}).
		AddRow(2, 1, models.EventDailyReset, 10100.0, 0.0, "", now).
		AddRow(1, 1, models.EventBreachDaily, 9500.0, 0.0, "", now.Add(-24*time.Hour))

	mock.ExpectQuery(`FROM events`).
		WithArgs(1, 50).
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	events, err := repo.GetRecent(1, 50)
	if err != nil {
		t.Fatalf("GetRecent() error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != models.EventDailyReset {
		t.Errorf("first event = %s, want %s (newest first)", events[0].Type, models.EventDailyReset)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEventRepositoryCreateSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO equity_snapshots`).
		WithArgs(1, 9500.0, true, false, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	repo := NewEventRepository(db)
	snap := &models.EquitySnapshot{
		AccountID: 1,
		Equity:    9500,
		DailyFlag: true,
	}
	if err := repo.CreateSnapshot(snap); err != nil {
		t.Fatalf("CreateSnapshot() error: %v", err)
	}
	if snap.ID != 4 {
		t.Errorf("ID = %d, want 4", snap.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestEventRepositoryGetSnapshots(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "account_id", "equity", "daily_flag", "max_flag", "created_at"}).
		AddRow(1, 1, 9500.0, true, false, time.Now())

	mock.ExpectQuery(`FROM equity_snapshots`).
		WithArgs(1, 10).
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	snaps, err := repo.GetSnapshots(1, 10)
	if err != nil {
		t.Fatalf("GetSnapshots() error: %v", err)
	}
	if len(snaps) != 1 || !snaps[0].DailyFlag || snaps[0].MaxFlag {
		t.Errorf("unexpected snapshots: %+v", snaps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
