package risk

import (
	"fmt"

	"propcore/internal/models"
)

// ConfigError - отсутствие или невалидность обязательного поля аккаунта
//
// Фатальна только для этого аккаунта: он пропускается, обработка
// остальных продолжается.
type ConfigError struct {
	AccountID int
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("account %d: configuration error: %s: %s", e.AccountID, e.Field, e.Reason)
}

// ValidateAccountConfig проверяет обязательные поля аккаунта
//
// Вызывается перед каждой оценкой: аккаунт с неполной конфигурацией
// не оценивается и статус его не меняется.
func ValidateAccountConfig(acc *models.Account) error {
	if acc.InitialSize <= 0 {
		return &ConfigError{AccountID: acc.ID, Field: "initial_size", Reason: "must be greater than 0"}
	}
	if acc.DdMax <= 0 {
		return &ConfigError{AccountID: acc.ID, Field: "dd_max", Reason: "must be greater than 0"}
	}
	if acc.DdDaily <= 0 {
		return &ConfigError{AccountID: acc.ID, Field: "dd_daily", Reason: "must be greater than 0"}
	}
	if acc.Mode != models.AccountModeOneStep && acc.Mode != models.AccountModeTwoStep {
		return &ConfigError{AccountID: acc.ID, Field: "mode", Reason: "unknown account mode"}
	}
	if acc.IsEvaluation() {
		if acc.CheckpointIntervalHours <= 0 {
			return &ConfigError{AccountID: acc.ID, Field: "checkpoint_interval_hours", Reason: "must be greater than 0"}
		}
		if acc.ProfitTargetPercent <= 0 {
			return &ConfigError{AccountID: acc.ID, Field: "profit_target_percent", Reason: "must be greater than 0"}
		}
	}
	return nil
}
