// Package venue предоставляет интерфейс к торговой площадке.
//
// Площадка - внешний collaborator: размещение/отмена ордеров,
// открытые позиции и живые цены. Wallet/key management и подпись
// транзакций остаются на стороне площадки.
package venue

import (
	"context"
	"time"

	"propcore/internal/models"
)

// Типы ордеров venue
const (
	OrderTypeLimit  = "limit"
	OrderTypeMarket = "market"
)

// PlaceOrderParams - параметры размещения ордера
type PlaceOrderParams struct {
	AccountID  int     `json:"account_id"`
	Symbol     string  `json:"symbol"`
	IsBuy      bool    `json:"is_buy"`
	Size       float64 `json:"size"`
	Price      float64 `json:"price"`
	OrderType  string  `json:"order_type"` // limit, market
	ReduceOnly bool    `json:"reduce_only"`
}

// OrderResult - ответ venue на размещение ордера
type OrderResult struct {
	Status  string `json:"status"` // accepted, rejected
	OrderID string `json:"order_id"`
	Details string `json:"details,omitempty"`
}

// Ticker - текущая цена символа
type Ticker struct {
	Symbol    string    `json:"symbol"`
	LastPrice float64   `json:"last_price"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacer размещает и отменяет ордера на площадке
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*OrderResult, error)
	CancelOrder(ctx context.Context, symbol, orderID string) error
	CancelAllOrders(ctx context.Context, accountID int) error
}

// PositionProvider поставляет открытые позиции аккаунта
type PositionProvider interface {
	GetPositions(ctx context.Context, accountID int) ([]*models.Position, error)
}

// PriceProvider поставляет живую цену символа
type PriceProvider interface {
	GetPrice(ctx context.Context, symbol string) (*Ticker, error)
}

// Venue - полный интерфейс площадки
type Venue interface {
	OrderPlacer
	PositionProvider
	PriceProvider
}
