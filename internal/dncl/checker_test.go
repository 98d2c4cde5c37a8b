package dncl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"dnclcli/internal/config"
)

func newTestChecker(t *testing.T, retries int, attempt func(ctx context.Context, phone string) (Result, error)) *Checker {
	t.Helper()
	cfg := config.Default()
	cfg.Lookup.Retries = retries

	c := NewChecker(cfg.Browser, cfg.Lookup, nil)
	c.browserCtx = context.Background()
	c.attempt = attempt
	return c
}

func TestVerifyRetriesInteractionFailure(t *testing.T) {
	calls := 0
	c := newTestChecker(t, 1, func(ctx context.Context, phone string) (Result, error) {
		calls++
		return Result{}, errors.New("form did not load")
	})

	result := c.Verify(context.Background(), "514-555-0199")

	assert.Equal(t, 2, calls)
	assert.Equal(t, StatusUnknown, result.Status)
	assert.Equal(t, "514-555-0199", result.Phone)
	assert.Contains(t, result.Err, "failed after 2 attempts")
}

func TestVerifySucceedsOnSecondAttempt(t *testing.T) {
	calls := 0
	c := newTestChecker(t, 1, func(ctx context.Context, phone string) (Result, error) {
		calls++
		if calls == 1 {
			return Result{}, errors.New("failed to click next")
		}
		return Result{Status: StatusNotOnList}, nil
	})

	result := c.Verify(context.Background(), "416-555-0142")

	assert.Equal(t, 2, calls)
	assert.Equal(t, StatusNotOnList, result.Status)
	assert.Equal(t, "416-555-0142", result.Phone)
	assert.Empty(t, result.Err)
}

func TestVerifyCaptchaTimeoutNotRetried(t *testing.T) {
	calls := 0
	c := newTestChecker(t, 3, func(ctx context.Context, phone string) (Result, error) {
		calls++
		return Result{}, errCaptchaTimeout
	})

	result := c.Verify(context.Background(), "514-555-0199")

	assert.Equal(t, 1, calls)
	assert.Equal(t, StatusUnknown, result.Status)
	assert.Equal(t, "CAPTCHA solution timeout", result.Err)
}

func TestVerifyHonorsCancellation(t *testing.T) {
	calls := 0
	c := newTestChecker(t, 1, func(ctx context.Context, phone string) (Result, error) {
		calls++
		return Result{Status: StatusNotOnList}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := c.Verify(ctx, "514-555-0199")

	assert.Equal(t, 0, calls)
	assert.Equal(t, StatusUnknown, result.Status)
	assert.Equal(t, context.Canceled.Error(), result.Err)
}

func TestVerifyRequiresStartedBrowser(t *testing.T) {
	c := NewChecker(config.Default().Browser, config.Default().Lookup, nil)

	result := c.Verify(context.Background(), "514-555-0199")

	assert.Equal(t, StatusUnknown, result.Status)
	assert.Equal(t, "browser not started", result.Err)
}
