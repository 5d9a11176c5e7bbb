package models

import "time"

// Типы аудит-событий
const (
	EventBreachDaily      = "BREACH_DAILY"      // дневной drawdown пробит
	EventBreachMax        = "BREACH_MAX"        // максимальный drawdown пробит
	EventDailyReset       = "DAILY_RESET"       // дневной baseline пересчитан
	EventWithdrawProfit   = "WITHDRAW_PROFIT"   // вывод профита, HWM скорректирован
	EventCheckpointPassed = "CHECKPOINT_PASSED" // этап evaluation пройден
	EventCheckpointFailed = "CHECKPOINT_FAILED" // этап evaluation провален
	EventOrderFilled      = "ORDER_FILLED"      // лимитный ордер исполнен
)

// Event - append-only запись аудит-журнала
//
// Никогда не мутируется. Amount заполняется для WITHDRAW_PROFIT,
// Equity - для событий, привязанных к расчёту equity.
type Event struct {
	ID        int       `json:"id" db:"id"`
	AccountID int       `json:"account_id" db:"account_id"`
	Type      string    `json:"type" db:"type"`
	Equity    float64   `json:"equity" db:"equity"`
	Amount    float64   `json:"amount" db:"amount"`
	Details   string    `json:"details,omitempty" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// EquitySnapshot - append-only снимок equity в момент breach-события
type EquitySnapshot struct {
	ID        int       `json:"id" db:"id"`
	AccountID int       `json:"account_id" db:"account_id"`
	Equity    float64   `json:"equity" db:"equity"`
	DailyFlag bool      `json:"daily_flag" db:"daily_flag"` // пробит дневной порог
	MaxFlag   bool      `json:"max_flag" db:"max_flag"`     // пробит максимальный порог
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
