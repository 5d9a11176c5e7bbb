package repository

import (
	"database/sql"
	"time"

	"propcore/internal/models"
)

// EventRepository - работа с таблицами events и equity_snapshots
//
// Обе таблицы append-only: аудит-записи никогда не мутируются
// и не удаляются ядром.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository создает новый экземпляр репозитория
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create добавляет запись в журнал событий
func (r *EventRepository) Create(event *models.Event) error {
	query := `
		INSERT INTO events (account_id, type, equity, amount, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	event.CreatedAt = time.Now()

	return r.db.QueryRow(
		query,
		event.AccountID,
		event.Type,
		event.Equity,
		event.Amount,
		event.Details,
		event.CreatedAt,
	).Scan(&event.ID)
}

// GetRecent возвращает последние события аккаунта
func (r *EventRepository) GetRecent(accountID, limit int) ([]*models.Event, error) {
	query := `
		SELECT id, account_id, type, equity, amount, details, created_at
		FROM events
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		err := rows.Scan(
			&event.ID,
			&event.AccountID,
			&event.Type,
			&event.Equity,
			&event.Amount,
			&event.Details,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CountByType возвращает количество событий указанного типа
func (r *EventRepository) CountByType(accountID int, eventType string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM events WHERE account_id = $1 AND type = $2`,
		accountID, eventType,
	).Scan(&count)
	return count, err
}

// CreateSnapshot добавляет снимок equity
func (r *EventRepository) CreateSnapshot(snap *models.EquitySnapshot) error {
	query := `
		INSERT INTO equity_snapshots (account_id, equity, daily_flag, max_flag, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	snap.CreatedAt = time.Now()

	return r.db.QueryRow(
		query,
		snap.AccountID,
		snap.Equity,
		snap.DailyFlag,
		snap.MaxFlag,
		snap.CreatedAt,
	).Scan(&snap.ID)
}

// GetSnapshots возвращает последние снимки equity аккаунта
func (r *EventRepository) GetSnapshots(accountID, limit int) ([]*models.EquitySnapshot, error) {
	query := `
		SELECT id, account_id, equity, daily_flag, max_flag, created_at
		FROM equity_snapshots
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(query, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*models.EquitySnapshot
	for rows.Next() {
		snap := &models.EquitySnapshot{}
		err := rows.Scan(
			&snap.ID,
			&snap.AccountID,
			&snap.Equity,
			&snap.DailyFlag,
			&snap.MaxFlag,
			&snap.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
