package risk

import (
	"testing"

	"propcore/internal/models"
)

func TestValidateAccountConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.Account)
		wantField string
	}{
		{"valid funded account", func(a *models.Account) {}, ""},
		{"valid evaluation account", func(a *models.Account) {
			a.NumCheckpoints = 3
			a.CheckpointIntervalHours = 72
			a.ProfitTargetPercent = 8
		}, ""},
		{"zero initial size", func(a *models.Account) { a.InitialSize = 0 }, "initial_size"},
		{"zero max drawdown", func(a *models.Account) { a.DdMax = 0 }, "dd_max"},
		{"negative daily drawdown", func(a *models.Account) { a.DdDaily = -1 }, "dd_daily"},
		{"unknown mode", func(a *models.Account) { a.Mode = "three_step" }, "mode"},
		{"evaluation without interval", func(a *models.Account) {
			a.NumCheckpoints = 3
			a.CheckpointIntervalHours = 0
			a.ProfitTargetPercent = 8
		}, "checkpoint_interval_hours"},
		{"evaluation without target", func(a *models.Account) {
			a.NumCheckpoints = 3
			a.CheckpointIntervalHours = 72
			a.ProfitTargetPercent = 0
		}, "profit_target_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := testAccount()
			tt.mutate(acc)

			err := ValidateAccountConfig(acc)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("field = %s, want %s", cfgErr.Field, tt.wantField)
			}
		})
	}
}
