package utils

import "time"

// time.go - утилиты границ торгового дня
//
// Торговый день считается в UTC: дневной baseline сбрасывается
// в полночь UTC (конфигурируемый час).

// DayStartFrom возвращает начало торгового дня для указанного времени
func DayStartFrom(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDailyBoundary возвращает ближайший будущий момент дневного сброса
//
// resetHour - час UTC (0-23), в который выполняется сброс.
// Если сегодняшний момент сброса уже прошёл, возвращается завтрашний.
func NextDailyBoundary(now time.Time, resetHour int) time.Time {
	now = now.UTC()
	boundary := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, time.UTC)
	if !boundary.After(now) {
		boundary = boundary.AddDate(0, 0, 1)
	}
	return boundary
}

// SameTradingDay возвращает true если оба момента в одном торговом дне UTC
func SameTradingDay(a, b time.Time) bool {
	return DayStartFrom(a).Equal(DayStartFrom(b))
}
