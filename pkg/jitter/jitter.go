// Package jitter добавляет случайный разброс к интервалам повторов,
// чтобы клиенты не повторяли запросы синхронно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает d с разбросом в диапазоне [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}
	return d + time.Duration(rand.Float64()*factor*float64(d))
}

// Backoff описывает экспоненциальную задержку между попытками.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

// Delay возвращает задержку перед попыткой attempt (нумерация с нуля).
// До применения джиттера задержка не превышает Max.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt && d < b.Max; i++ {
		d *= 2
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return Duration(d, b.Factor)
}

// ExponentialBackoff сокращает Backoff{base, max, factor}.Delay(attempt).
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	return Backoff{Base: base, Max: max, Factor: factor}.Delay(attempt)
}
