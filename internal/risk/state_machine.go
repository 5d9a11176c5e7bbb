package risk

import (
	"errors"

	"propcore/internal/models"
)

// ErrInvalidTransition возвращается при попытке недопустимого перехода статуса
var ErrInvalidTransition = errors.New("invalid account status transition")

// ValidTransitions определяет допустимые переходы между статусами аккаунта
var ValidTransitions = map[models.AccountStatus][]models.AccountStatus{
	models.AccountStatusActive: {
		models.AccountStatusPaused, // дневной breach
		models.AccountStatusFailed, // max drawdown breach или проваленный checkpoint
		models.AccountStatusPassed, // финальный checkpoint пройден
		models.AccountStatusClosed, // ручное закрытие
	},
	models.AccountStatusPaused: {
		models.AccountStatusActive, // daily reset
		models.AccountStatusFailed, // max breach при оценке paused аккаунта
		models.AccountStatusClosed,
	},
	models.AccountStatusFailed: {}, // терминальный
	models.AccountStatusClosed: {}, // терминальный
	models.AccountStatusPassed: {
		models.AccountStatusClosed,
	},
}

// CanTransition проверяет допустимость перехода
func CanTransition(from, to models.AccountStatus) bool {
	allowed, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal возвращает true если из статуса нет выхода риск-ядром
//
// Терминальные аккаунты не подлежат повторной оценке: DrawdownMonitor
// отказывает им явным ErrAccountTerminal, чтобы исключить дублирование
// breach-событий при конкурентном polling'е.
func IsTerminal(s models.AccountStatus) bool {
	return s == models.AccountStatusFailed || s == models.AccountStatusClosed
}

// StateInfo возвращает описание статуса
func StateInfo(s models.AccountStatus) string {
	switch s {
	case models.AccountStatusActive:
		return "Аккаунт активен, торговля разрешена"
	case models.AccountStatusPaused:
		return "Дневной лимит потерь достигнут, торговля приостановлена до начала следующего дня"
	case models.AccountStatusFailed:
		return "Максимальный drawdown пробит, аккаунт закрыт"
	case models.AccountStatusClosed:
		return "Аккаунт закрыт"
	case models.AccountStatusPassed:
		return "Evaluation пройден"
	default:
		return "Неизвестный статус"
	}
}
