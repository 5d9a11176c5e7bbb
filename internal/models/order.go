package models

import "time"

// OrderStatus - статус лимитного ордера
type OrderStatus string

// Статусы ордера
//
// Переход open→filled или open→cancelled происходит РОВНО один раз,
// через условный UPDATE в repository (guard по текущему статусу).
const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Стороны ордера
const (
	OrderSideBuy  = "buy"
	OrderSideSell = "sell"
)

// Order представляет отложенный лимитный ордер
type Order struct {
	ID         int         `json:"id" db:"id"`
	AccountID  int         `json:"account_id" db:"account_id"`
	Symbol     string      `json:"symbol" db:"symbol"`
	Side       string      `json:"side" db:"side"` // buy, sell
	Size       float64     `json:"size" db:"size"`
	LimitPrice float64     `json:"limit_price" db:"limit_price"`
	Status     OrderStatus `json:"status" db:"status"`
	ReduceOnly bool        `json:"reduce_only" db:"reduce_only"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	FilledAt   *time.Time  `json:"filled_at,omitempty" db:"filled_at"`
}

// Triggered возвращает true если ордер должен исполниться по текущей цене
//
// Buy исполняется когда цена опустилась до лимита (price ≤ limit),
// sell - когда цена поднялась до лимита (price ≥ limit).
// Равенство считается срабатыванием.
func (o *Order) Triggered(price float64) bool {
	if o.Side == OrderSideBuy {
		return price <= o.LimitPrice
	}
	return price >= o.LimitPrice
}
