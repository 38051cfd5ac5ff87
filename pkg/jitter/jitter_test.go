package jitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Duration(time.Second, DefaultJitter)
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}

	assert.Equal(t, time.Second, Duration(time.Second, 0))
	assert.Equal(t, time.Duration(0), Duration(0, DefaultJitter))
}

func TestBackoffDelay(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: time.Second}

	assert.Equal(t, 100*time.Millisecond, b.Delay(0))
	assert.Equal(t, 200*time.Millisecond, b.Delay(1))
	assert.Equal(t, 800*time.Millisecond, b.Delay(3))
	assert.Equal(t, time.Second, b.Delay(4))
	assert.Equal(t, time.Second, b.Delay(60))
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	for attempt := 0; attempt < 5; attempt++ {
		d := ExponentialBackoff(time.Second, 8*time.Second, attempt, DefaultJitter)
		base := Backoff{Base: time.Second, Max: 8 * time.Second}.Delay(attempt)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}
