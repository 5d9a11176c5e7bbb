package risk

import "time"

// Clock - абстракция над wall-clock временем
//
// Вся checkpoint- и day-boundary математика использует инжектируемые
// часы вместо прямых вызовов time.Now(), что делает оценку этапов
// детерминированной в тестах.
type Clock interface {
	Now() time.Time
}

// SystemClock - реализация Clock поверх системного времени (UTC)
type SystemClock struct{}

// Now возвращает текущее время в UTC
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
