package utils

import "math"

// math.go - математические утилиты денежных расчётов
//
// Все функции чистые, без побочных эффектов.

// RoundTo округляет значение до указанного количества знаков
//
// Примеры:
//   - RoundTo(10799.996, 2) = 10800.0
//   - RoundTo(0.123456, 4) = 0.1235
func RoundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

// Clamp прижимает значение к диапазону [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RelativeChange возвращает относительное изменение от base к value
//
// Используется debounce-политикой матчера: |change| < порога
// означает незначимое движение цены.
// Если base <= 0, возвращает 1 (изменение всегда значимо).
func RelativeChange(base, value float64) float64 {
	if base <= 0 {
		return 1
	}
	return math.Abs(value-base) / base
}

// CeilHours возвращает длительность в часах, округлённую вверх
//
// Checkpoint-математика считает неполный час прошедшим.
func CeilHours(hours float64) int {
	return int(math.Ceil(hours))
}
