package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v35/github"
	"go.uber.org/zap"
)

// Retry retries an upstream call that fails with a transient error.
type Retry struct {
	// Attempts is the total number of calls, including the first one.
	Attempts int
	Delay    time.Duration
}

func DefaultRetry() Retry {
	return Retry{
		Attempts: 3,
		Delay:    5 * time.Second,
	}
}

// Do calls fn until it succeeds, fails with a non-transient error, or runs
// out of attempts.
func (r Retry) Do(ctx context.Context, logger *zap.Logger, op string, fn func() error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		logger.Warn("transient error, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", r.Delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.Delay):
		}
	}
	return fmt.Errorf("max retries exceeded after %d attempts: %w", attempts, err)
}

// IsTransient reports whether err is a GitHub gateway error that is
// likely to succeed on retry.
func IsTransient(err error) bool {
	var e *github.ErrorResponse
	if !errors.As(err, &e) || e.Response == nil {
		return false
	}
	switch e.Response.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
