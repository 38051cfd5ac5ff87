package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseRunsInReverseOrder(t *testing.T) {
	c := NewCloser(0)
	var order []string
	for _, name := range []string{"db", "cache", "http"} {
		c.Add(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http", "cache", "db"}, order)
}

func TestCloseCollectsErrorsAndRunsOnce(t *testing.T) {
	c := NewCloser(0)
	boom := errors.New("boom")
	calls := 0
	c.Add("redis", func(context.Context) error {
		calls++
		return boom
	})
	c.Add("grpc", func(context.Context) error { return nil })

	err := c.Close(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "redis")

	assert.Equal(t, err, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestCloseForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(time.Second)

	var mu sync.Mutex
	forced := map[string]bool{}
	for _, name := range []string{"db", "cache"} {
		c.Add(name, func(context.Context) error {
			mu.Lock()
			forced[name] = true
			mu.Unlock()
			return nil
		})
	}
	c.Add("slow", func(context.Context) error {
		time.Sleep(time.Second)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, forced["db"])
	assert.True(t, forced["cache"])
}
