package translate

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// sleepFunc waits for d or until the context is cancelled. Injectable so
// tests can observe delays without waiting them out.
type sleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Engine wraps a single model call with bounded retries and a pass/fail
// classifier. A fixed delay separates attempts. Exhausting the budget is a
// terminal outcome for the page; the engine is never re-entered for it.
type Engine struct {
	maxRetries int
	delay      time.Duration
	sleep      sleepFunc
	logger     zerolog.Logger
}

// NewEngine creates a retry engine. maxRetries is the number of additional
// attempts beyond the first.
func NewEngine(maxRetries int, delay time.Duration, logger zerolog.Logger) *Engine {
	return &Engine{
		maxRetries: maxRetries,
		delay:      delay,
		sleep:      defaultSleep,
		logger:     logger,
	}
}

// Attempt executes fn until it returns a payload or the attempt budget is
// exhausted. It returns the payload, the number of retries performed
// (attempts beyond the first), and the last error when every attempt failed.
// Transport errors, unparsable responses, and validation failures are all
// just errors here; fn owns the classification.
func (e *Engine) Attempt(ctx context.Context, fn func(ctx context.Context) (*pagePayload, error)) (*pagePayload, int, error) {
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		payload, err := fn(ctx)
		if err == nil {
			return payload, attempt, nil
		}
		lastErr = err

		if attempt == e.maxRetries {
			break
		}

		e.logger.Warn().
			Int("attempt", attempt+1).
			Int("max_attempts", e.maxRetries+1).
			Dur("delay", e.delay).
			Err(err).
			Msg("attempt failed, retrying")

		if serr := e.sleep(ctx, e.delay); serr != nil {
			return nil, attempt, serr
		}
	}

	return nil, e.maxRetries, lastErr
}
