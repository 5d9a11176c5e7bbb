package models

import "time"

// Checkpoint представляет зафиксированный этап evaluation-аккаунта
//
// Append-only: запись создаётся в момент deadline-оценки этапа и после
// этого не изменяется. Balance этапа k служит неизменяемым baseline
// для требуемого профита этапа k+1.
type Checkpoint struct {
	ID        int       `json:"id" db:"id"`
	AccountID int       `json:"account_id" db:"account_id"`
	Number    int       `json:"number" db:"number"` // 1..NumCheckpoints
	Balance   float64   `json:"balance" db:"balance"` // equity, зафиксированное при оценке
	Passed    *bool     `json:"passed" db:"passed"`   // nil = ещё не оценён
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
