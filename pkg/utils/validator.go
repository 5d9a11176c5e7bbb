package utils

import (
	"fmt"
	"regexp"
)

// validator.go - валидация входных данных
//
// Невалидная запись пропускается с логом, батч продолжается.

// ValidationError - ошибка валидации записи
//
// Запись с такой ошибкой пропускается; обработка остальных записей
// батча продолжается.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// NewValidationError создаёт ошибку валидации
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

var symbolRe = regexp.MustCompile(`^[A-Z0-9]{2,20}$`)

// ValidateSymbol проверяет формат торгового символа (BTCUSDT)
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return NewValidationError("symbol", "must not be empty")
	}
	if !symbolRe.MatchString(symbol) {
		return NewValidationError("symbol", "must be 2-20 uppercase alphanumeric characters")
	}
	return nil
}

// ValidatePositive проверяет что значение строго положительно
func ValidatePositive(field string, value float64) error {
	if value <= 0 {
		return NewValidationError(field, "must be greater than 0")
	}
	return nil
}

// ValidateNonNegative проверяет что значение неотрицательно
func ValidateNonNegative(field string, value float64) error {
	if value < 0 {
		return NewValidationError(field, "must not be negative")
	}
	return nil
}
