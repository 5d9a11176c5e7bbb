package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter - token bucket лимитер для внешних API вызовов
//
// Ведро наполняется с постоянной скоростью rate токенов/сек до
// ёмкости burst; каждый запрос потребляет один токен. Burst
// позволяет короткие всплески (параллельные fill-попытки),
// постоянный поток сглаживается до rate.
type RateLimiter struct {
	rate       float64 // токенов в секунду
	burst      float64 // ёмкость ведра
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// New создаёт rate limiter
//
// rate - запросов в секунду, burst - максимальный всплеск
// (обычно 1.5-2x rate). Невалидные значения заменяются дефолтами.
func New(rate, burst float64) *RateLimiter {
	if rate <= 0 {
		rate = 10
	}
	if burst < rate {
		burst = rate * 2
	}
	return &RateLimiter{
		rate:       rate,
		burst:      burst,
		tokens:     burst, // стартуем с полным ведром
		lastRefill: time.Now(),
	}
}

// refill пополняет токены; вызывается под mutex'ом
func (rl *RateLimiter) refill() {
	now := time.Now()
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.rate
	if rl.tokens > rl.burst {
		rl.tokens = rl.burst
	}
	rl.lastRefill = now
}

// Allow неблокирующе пытается взять токен
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait блокируется до получения токена или отмены контекста
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		rl.refill()
		if rl.tokens >= 1 {
			rl.tokens--
			rl.mu.Unlock()
			return nil
		}
		// Сколько ждать до появления следующего токена
		wait := time.Duration((1 - rl.tokens) / rl.rate * float64(time.Second))
		rl.mu.Unlock()

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
