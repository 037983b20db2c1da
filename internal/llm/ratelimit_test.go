package llm

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_BackoffWindow(t *testing.T) {
	r := NewRateLimiter(0, 0)

	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	r.RecordRateLimitError(time.Hour)
	r.RecordRateLimitError(time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := r.Wait(ctx); err == nil {
		t.Error("Wait() should block for the longer window and fail on ctx timeout")
	}
}

func TestRateLimiter_IgnoresNonPositive(t *testing.T) {
	r := NewRateLimiter(100, 1)
	r.RecordRateLimitError(0)
	r.RecordRateLimitError(-time.Second)

	if err := r.Wait(context.Background()); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}
