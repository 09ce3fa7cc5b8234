package translate

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

// recordingSleep captures requested delays instead of waiting.
func recordingSleep(delays *[]time.Duration) sleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func TestEngine_SuccessFirstAttempt(t *testing.T) {
	engine := NewEngine(3, 3*time.Second, zerolog.Nop())
	var delays []time.Duration
	engine.sleep = recordingSleep(&delays)

	payload, retries, err := engine.Attempt(context.Background(), func(ctx context.Context) (*pagePayload, error) {
		return &pagePayload{Translation: "תרגום תקין לחלוטין"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 0, retries)
	assert.Equal(t, "תרגום תקין לחלוטין", payload.Translation)
	assert.Empty(t, delays)
}

func TestEngine_SuccessAfterRetries(t *testing.T) {
	engine := NewEngine(3, 3*time.Second, zerolog.Nop())
	var delays []time.Duration
	engine.sleep = recordingSleep(&delays)

	calls := 0
	payload, retries, err := engine.Attempt(context.Background(), func(ctx context.Context) (*pagePayload, error) {
		calls++
		if calls < 3 {
			return nil, domain.APIError("transient", nil)
		}
		return &pagePayload{Translation: "הצלחה בניסיון השלישי"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, retries)
	assert.Equal(t, 3, calls)
	assert.NotNil(t, payload)

	// A fixed delay between each failed attempt and the next.
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, delays)
}

func TestEngine_ExhaustsAttemptBudget(t *testing.T) {
	engine := NewEngine(3, 3*time.Second, zerolog.Nop())
	var delays []time.Duration
	engine.sleep = recordingSleep(&delays)

	calls := 0
	payload, retries, err := engine.Attempt(context.Background(), func(ctx context.Context) (*pagePayload, error) {
		calls++
		return nil, domain.TranslationError("translation field is too short", nil)
	})

	require.Error(t, err)
	assert.Nil(t, payload)
	// maxRetries+1 total attempts, with the fixed delay between each pair
	// but not after the last.
	assert.Equal(t, 4, calls)
	assert.Equal(t, 3, retries)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second}, delays)
}

func TestEngine_ZeroRetries(t *testing.T) {
	engine := NewEngine(0, time.Second, zerolog.Nop())
	var delays []time.Duration
	engine.sleep = recordingSleep(&delays)

	calls := 0
	_, retries, err := engine.Attempt(context.Background(), func(ctx context.Context) (*pagePayload, error) {
		calls++
		return nil, domain.APIError("down", nil)
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, retries)
	assert.Empty(t, delays)
}

func TestEngine_ContextCancelledDuringDelay(t *testing.T) {
	engine := NewEngine(3, time.Second, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	engine.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	calls := 0
	_, _, err := engine.Attempt(ctx, func(ctx context.Context) (*pagePayload, error) {
		calls++
		return nil, domain.APIError("down", nil)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDefaultSleep_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := defaultSleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}
