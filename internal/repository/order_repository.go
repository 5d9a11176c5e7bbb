package repository

import (
	"database/sql"
	"errors"
	"time"

	"propcore/internal/models"
)

// Ошибки репозитория ордеров
var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository - работа с таблицей orders
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository создает новый экземпляр репозитория
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, account_id, symbol, side, size, limit_price, status, reduce_only, created_at, filled_at`

// Create создает запись об ордере
func (r *OrderRepository) Create(order *models.Order) error {
	query := `
		INSERT INTO orders (account_id, symbol, side, size, limit_price, status, reduce_only, created_at, filled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	order.CreatedAt = time.Now()

	return r.db.QueryRow(
		query,
		order.AccountID,
		order.Symbol,
		order.Side,
		order.Size,
		order.LimitPrice,
		order.Status,
		order.ReduceOnly,
		order.CreatedAt,
		order.FilledAt,
	).Scan(&order.ID)
}

// GetByID возвращает ордер по ID
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1`

	order := &models.Order{}
	err := r.db.QueryRow(query, id).Scan(
		&order.ID,
		&order.AccountID,
		&order.Symbol,
		&order.Side,
		&order.Size,
		&order.LimitPrice,
		&order.Status,
		&order.ReduceOnly,
		&order.CreatedAt,
		&order.FilledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetOpenBySymbol возвращает открытые ордера по символу
//
// Сортировка по времени создания ASC: старые ордера исполняются
// первыми (oldest-first fairness).
func (r *OrderRepository) GetOpenBySymbol(symbol string) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE symbol = $1 AND status = $2
		ORDER BY created_at ASC`

	return r.queryOrders(query, symbol, models.OrderStatusOpen)
}

// GetOpenByAccount возвращает открытые ордера аккаунта
func (r *OrderRepository) GetOpenByAccount(accountID int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE account_id = $1 AND status = $2
		ORDER BY created_at ASC`

	return r.queryOrders(query, accountID, models.OrderStatusOpen)
}

// GetOpenSymbols возвращает символы, по которым есть открытые ордера
//
// Используется движком для подписки на ценовой поток.
func (r *OrderRepository) GetOpenSymbols() ([]string, error) {
	query := `
		SELECT DISTINCT symbol
		FROM orders
		WHERE status = $1
		ORDER BY symbol`

	rows, err := r.db.Query(query, models.OrderStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// FillIfOpen атомарно переводит ордер open→filled
//
// Условный UPDATE с guard'ом по текущему статусу - единственная
// точка взаимного исключения между конкурентными filler'ами
// (включая другие процессы). Возвращает false без ошибки, если
// ордер уже не open: проигранная гонка - benign no-op.
func (r *OrderRepository) FillIfOpen(id int) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3, filled_at = $4
		WHERE id = $1 AND status = $2`

	now := time.Now()
	result, err := r.db.Exec(query, id, models.OrderStatusOpen, models.OrderStatusFilled, now)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// CancelIfOpen атомарно переводит ордер open→cancelled
func (r *OrderRepository) CancelIfOpen(id int) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3
		WHERE id = $1 AND status = $2`

	result, err := r.db.Exec(query, id, models.OrderStatusOpen, models.OrderStatusCancelled)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// queryOrders выполняет запрос и сканирует список ордеров
func (r *OrderRepository) queryOrders(query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID,
			&order.AccountID,
			&order.Symbol,
			&order.Side,
			&order.Size,
			&order.LimitPrice,
			&order.Status,
			&order.ReduceOnly,
			&order.CreatedAt,
			&order.FilledAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
