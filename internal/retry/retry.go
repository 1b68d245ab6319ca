package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Config bounds the retry loop for delivery calls.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
}

// WithBackoff runs op until it succeeds, the attempt budget is spent, or
// ctx is done. Delays grow exponentially with jitter.
func WithBackoff(ctx context.Context, cfg Config, op func(context.Context) error) error {
	var err error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}

		delay := cfg.BaseDelay*time.Duration(1<<attempt) + time.Duration(rand.Int63n(int64(cfg.BaseDelay)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("after %d attempts: %w", cfg.MaxRetries+1, err)
}
