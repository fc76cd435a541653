package retry

import (
	"context"
	"fmt"
	"time"
)

// Config bounds a retried operation. With Linear set, the delay before
// attempt n+1 is n*Delay (1s, 2s, ... for Delay=1s).
type Config struct {
	MaxAttempts int
	Delay       time.Duration
	Linear      bool
}

// Do invokes fn until it succeeds or MaxAttempts is reached. The context
// cancels waiting between attempts, not fn itself.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.Delay
		if cfg.Linear {
			delay = time.Duration(attempt) * cfg.Delay
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
