package models

import "time"

// AccountStatus - статус аккаунта в жизненном цикле
//
// Допустимые переходы определены в risk.ValidTransitions.
// Статус меняется ТОЛЬКО ядром риск-менеджмента.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active" // торговля разрешена
	AccountStatusPaused AccountStatus = "paused" // дневной breach, восстанавливается при daily reset
	AccountStatusFailed AccountStatus = "failed" // max drawdown breach, терминальный
	AccountStatusClosed AccountStatus = "closed" // закрыт вручную, терминальный
	AccountStatusPassed AccountStatus = "passed" // все checkpoint'ы пройдены
)

// AccountMode - режим расчёта max drawdown
type AccountMode string

const (
	// AccountModeOneStep - baseline для max drawdown = balance
	AccountModeOneStep AccountMode = "one_step"
	// AccountModeTwoStep - baseline для max drawdown = high-water mark
	AccountModeTwoStep AccountMode = "two_step"
)

// Account представляет проп-трейдинговый аккаунт (funded или evaluation)
//
// Balance - авторитетное финансовое состояние, мутируется только внешним
// settlement'ом. Статус мутируется только риск-ядром.
type Account struct {
	ID             int           `json:"id" db:"id"`
	Status         AccountStatus `json:"status" db:"status"`
	Mode           AccountMode   `json:"mode" db:"mode"`
	Balance        float64       `json:"balance" db:"balance"`                   // расчётный капитал (settled)
	InitialSize    float64       `json:"initial_size" db:"initial_size"`         // стартовый размер аккаунта
	DdMax          float64       `json:"dd_max" db:"dd_max"`                     // абсолютный порог max drawdown
	DdDaily        float64       `json:"dd_daily" db:"dd_daily"`                 // абсолютный порог дневного drawdown
	DayStartEquity float64       `json:"day_start_equity" db:"day_start_equity"` // equity на начало торгового дня
	HighWaterMark  float64       `json:"high_water_mark" db:"high_water_mark"`   // пиковое equity (с учётом выводов)

	// Конфигурация evaluation
	NumCheckpoints          int     `json:"num_checkpoints" db:"num_checkpoints"`                     // количество этапов (0 = funded аккаунт)
	CheckpointIntervalHours int     `json:"checkpoint_interval_hours" db:"checkpoint_interval_hours"` // длительность этапа в часах
	ProfitTargetPercent     float64 `json:"profit_target_percent" db:"profit_target_percent"`         // требуемый профит за этап, %

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsEvaluation возвращает true если аккаунт проходит evaluation
func (a *Account) IsEvaluation() bool {
	return a.NumCheckpoints > 0
}
