package repository

import (
	"database/sql"
	"errors"
	"time"

	"propcore/internal/models"
)

// Ошибки репозитория аккаунтов
var (
	ErrAccountNotFound = errors.New("account not found")
)

// AccountRepository - работа с таблицей accounts
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository создает новый экземпляр репозитория
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, status, mode, balance, initial_size, dd_max, dd_daily,
		day_start_equity, high_water_mark, num_checkpoints, checkpoint_interval_hours,
		profit_target_percent, created_at, updated_at`

// Create создает запись об аккаунте
func (r *AccountRepository) Create(acc *models.Account) error {
	query := `
		INSERT INTO accounts (status, mode, balance, initial_size, dd_max, dd_daily,
			day_start_equity, high_water_mark, num_checkpoints, checkpoint_interval_hours,
			profit_target_percent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	now := time.Now()
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = now
	}
	acc.UpdatedAt = now

	return r.db.QueryRow(
		query,
		acc.Status,
		acc.Mode,
		acc.Balance,
		acc.InitialSize,
		acc.DdMax,
		acc.DdDaily,
		acc.DayStartEquity,
		acc.HighWaterMark,
		acc.NumCheckpoints,
		acc.CheckpointIntervalHours,
		acc.ProfitTargetPercent,
		acc.CreatedAt,
		acc.UpdatedAt,
	).Scan(&acc.ID)
}

// GetByID возвращает аккаунт по ID
func (r *AccountRepository) GetByID(id int) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1`

	acc := &models.Account{}
	err := r.db.QueryRow(query, id).Scan(
		&acc.ID,
		&acc.Status,
		&acc.Mode,
		&acc.Balance,
		&acc.InitialSize,
		&acc.DdMax,
		&acc.DdDaily,
		&acc.DayStartEquity,
		&acc.HighWaterMark,
		&acc.NumCheckpoints,
		&acc.CheckpointIntervalHours,
		&acc.ProfitTargetPercent,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return acc, nil
}

// GetActiveAndPaused возвращает аккаунты со статусом active или paused
//
// Терминальные аккаунты (failed/closed) дневным сбросом не
// затрагиваются: max-drawdown breach необратим.
func (r *AccountRepository) GetActiveAndPaused() ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE status IN ($1, $2)
		ORDER BY id`

	return r.queryAccounts(query, models.AccountStatusActive, models.AccountStatusPaused)
}

// GetByStatus возвращает аккаунты с указанным статусом
func (r *AccountRepository) GetByStatus(status models.AccountStatus) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE status = $1
		ORDER BY id`

	return r.queryAccounts(query, status)
}

// GetEvaluationAccounts возвращает активные evaluation-аккаунты
func (r *AccountRepository) GetEvaluationAccounts() ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE status = $1 AND num_checkpoints > 0
		ORDER BY id`

	return r.queryAccounts(query, models.AccountStatusActive)
}

// UpdateStatus записывает новый статус аккаунта
func (r *AccountRepository) UpdateStatus(id int, status models.AccountStatus) error {
	query := `
		UPDATE accounts
		SET status = $2, updated_at = $3
		WHERE id = $1`

	result, err := r.db.Exec(query, id, status, time.Now())
	if err != nil {
		return err
	}
	return requireRow(result, ErrAccountNotFound)
}

// UpdateHighWaterMark записывает новый high-water mark
func (r *AccountRepository) UpdateHighWaterMark(id int, hwm float64) error {
	query := `
		UPDATE accounts
		SET high_water_mark = $2, updated_at = $3
		WHERE id = $1`

	result, err := r.db.Exec(query, id, hwm, time.Now())
	if err != nil {
		return err
	}
	return requireRow(result, ErrAccountNotFound)
}

// UpdateDayStart записывает дневной baseline и переводит аккаунт в active
//
// Единый UPDATE: сброс baseline и реактивация paused аккаунта
// атомарны на уровне store.
func (r *AccountRepository) UpdateDayStart(id int, equity float64) error {
	query := `
		UPDATE accounts
		SET day_start_equity = $2, status = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.db.Exec(query, id, equity, models.AccountStatusActive, time.Now())
	if err != nil {
		return err
	}
	return requireRow(result, ErrAccountNotFound)
}

// Count возвращает количество аккаунтов
func (r *AccountRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}

// queryAccounts выполняет запрос и сканирует список аккаунтов
func (r *AccountRepository) queryAccounts(query string, args ...interface{}) ([]*models.Account, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		acc := &models.Account{}
		err := rows.Scan(
			&acc.ID,
			&acc.Status,
			&acc.Mode,
			&acc.Balance,
			&acc.InitialSize,
			&acc.DdMax,
			&acc.DdDaily,
			&acc.DayStartEquity,
			&acc.HighWaterMark,
			&acc.NumCheckpoints,
			&acc.CheckpointIntervalHours,
			&acc.ProfitTargetPercent,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// requireRow возвращает notFound если UPDATE не затронул ни одной строки
func requireRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
