package models

import "time"

// Стороны позиции
const (
	PositionSideLong  = "long"
	PositionSideShort = "short"
)

// Position представляет открытую позицию аккаунта
//
// Поставляется внешним position-провайдером; ядро читает позиции
// для расчёта equity и создаёт новые через venue при исполнении ордера.
// RealizedPnl уже учтён в balance аккаунта settlement'ом и в формуле
// equity повторно не участвует.
type Position struct {
	AccountID      int       `json:"account_id"`
	Symbol         string    `json:"symbol"` // BTCUSDT
	Side           string    `json:"side"`   // long, short
	Size           float64   `json:"size"`   // объём в монетах
	EntryPrice     float64   `json:"entry_price"`
	UnrealizedPnl  float64   `json:"unrealized_pnl"`
	RealizedPnl    float64   `json:"realized_pnl"`
	FeesAccrued    float64   `json:"fees_accrued"`
	FundingAccrued float64   `json:"funding_accrued"`
	OpenedAt       time.Time `json:"opened_at"`
}
