// Package closer закрывает ресурсы приложения в порядке, обратном открытию.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func закрывает ресурс.
type Func func(ctx context.Context) error

type entry struct {
	name string
	fn   Func
}

// Closer потокобезопасно копит функции закрытия и вызывает их один раз.
type Closer struct {
	mu            sync.Mutex
	entries       []entry
	once          sync.Once
	err           error
	forcedTimeout time.Duration
}

// NewCloser создаёт Closer. forcedTimeout — время на принудительное закрытие того,
// что не успело закрыться до отмены контекста Close.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует функцию закрытия. Имя попадает в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{name: name, fn: f})
}

// Close закрывает ресурсы по одному в порядке LIFO.
// Если ctx отменяется раньше, оставшиеся ресурсы закрываются параллельно с собственным таймаутом.
// Повторные вызовы возвращают результат первого.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		entries := c.entries
		c.mu.Unlock()

		var errs []error
		for i := len(entries) - 1; i >= 0; i-- {
			done := make(chan error, 1)
			go func(en entry) { done <- en.fn(ctx) }(entries[i])

			select {
			case err := <-done:
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", entries[i].name, err))
				}
			case <-ctx.Done():
				errs = append(errs, fmt.Errorf("%s: %w", entries[i].name, ctx.Err()))
				errs = append(errs, c.forceClose(entries[:i])...)
				c.err = errors.Join(errs...)
				return
			}
		}

		c.err = errors.Join(errs...)
	})

	return c.err
}

// forceClose параллельно закрывает оставшиеся ресурсы.
func (c *Closer) forceClose(entries []entry) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, en := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := en.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s (forced): %w", en.name, err))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return errs
}
