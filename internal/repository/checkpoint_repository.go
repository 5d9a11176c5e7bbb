package repository

import (
	"database/sql"
	"errors"
	"time"

	"propcore/internal/models"
)

// Ошибки репозитория checkpoint'ов
var (
	ErrCheckpointExists = errors.New("checkpoint already recorded for this stage")
)

// CheckpointRepository - работа с таблицей checkpoints
//
// Таблица append-only: записи создаются при deadline-оценке этапа
// и никогда не изменяются. Уникальный индекс (account_id, number)
// защищает неизменяемость на уровне схемы.
type CheckpointRepository struct {
	db *sql.DB
}

// NewCheckpointRepository создает новый экземпляр репозитория
func NewCheckpointRepository(db *sql.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// Create фиксирует результат этапа
func (r *CheckpointRepository) Create(cp *models.Checkpoint) error {
	query := `
		INSERT INTO checkpoints (account_id, number, balance, passed, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	cp.CreatedAt = time.Now()

	err := r.db.QueryRow(
		query,
		cp.AccountID,
		cp.Number,
		cp.Balance,
		cp.Passed,
		cp.CreatedAt,
	).Scan(&cp.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCheckpointExists
		}
		return err
	}
	return nil
}

// GetByAccount возвращает checkpoint'ы аккаунта по возрастанию номера
func (r *CheckpointRepository) GetByAccount(accountID int) ([]*models.Checkpoint, error) {
	query := `
		SELECT id, account_id, number, balance, passed, created_at
		FROM checkpoints
		WHERE account_id = $1
		ORDER BY number ASC`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkpoints []*models.Checkpoint
	for rows.Next() {
		cp := &models.Checkpoint{}
		err := rows.Scan(
			&cp.ID,
			&cp.AccountID,
			&cp.Number,
			&cp.Balance,
			&cp.Passed,
			&cp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, rows.Err()
}

// CountByAccount возвращает количество зафиксированных этапов
func (r *CheckpointRepository) CountByAccount(accountID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM checkpoints WHERE account_id = $1`,
		accountID,
	).Scan(&count)
	return count, err
}

// isUniqueViolation проверяет нарушение уникального индекса postgres
func isUniqueViolation(err error) bool {
	type coder interface {
		SQLState() string
	}
	var c coder
	if errors.As(err, &c) {
		return c.SQLState() == "23505"
	}
	return false
}
