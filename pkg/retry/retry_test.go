package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	ctx := context.Background()
	retrier := NewDefaultRetrier()

	counter := 0
	attempts, err := retrier.Do(ctx, func(int) error {
		counter++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter != 1 || attempts != 1 {
		t.Errorf("expected 1 attempt, got counter=%d attempts=%d", counter, attempts)
	}
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	ctx := context.Background()
	retrier := NewRetrier(NewImmediateConfig(3))

	var seen []int
	attempts, err := retrier.Do(ctx, func(attempt int) error {
		seen = append(seen, attempt)
		if attempt < 2 {
			return errors.New("temporary error")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("unexpected attempt numbers: %v", seen)
	}
}

func TestRetry_MaxAttemptsExceeded(t *testing.T) {
	ctx := context.Background()
	retrier := NewRetrier(NewImmediateConfig(3))

	expectedErr := errors.New("permanent error")
	counter := 0
	attempts, err := retrier.Do(ctx, func(int) error {
		counter++
		return expectedErr
	})
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected %v, got %v", expectedErr, err)
	}
	if counter != 3 || attempts != 3 {
		t.Errorf("expected 3 attempts, got counter=%d attempts=%d", counter, attempts)
	}
}

func TestRetry_PermanentStopsEarly(t *testing.T) {
	ctx := context.Background()
	retrier := NewRetrier(NewImmediateConfig(5))

	cause := errors.New("bad credentials")
	counter := 0
	attempts, err := retrier.Do(ctx, func(int) error {
		counter++
		return Permanent(cause)
	})
	if !errors.Is(err, cause) {
		t.Errorf("expected %v, got %v", cause, err)
	}
	if counter != 1 || attempts != 1 {
		t.Errorf("expected a single attempt, got %d", counter)
	}
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	retrier := NewRetrier(&Config{})
	counter := 0
	_, _ = retrier.Do(context.Background(), func(int) error {
		counter++
		return errors.New("x")
	})
	if counter != 1 {
		t.Errorf("expected 1 attempt, got %d", counter)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	retrier := NewDefaultRetrier()

	_, err := retrier.Do(ctx, func(int) error {
		cancel()
		return errors.New("operation error after cancel")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_BackoffAndJitter(t *testing.T) {
	ctx := context.Background()
	config := &Config{
		MaxAttempts:   3,
		BackoffFactor: 2.0,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      1 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
	retrier := NewRetrier(config)

	start := time.Now()
	attempts, _ := retrier.Do(ctx, func(int) error {
		return errors.New("error")
	})
	elapsed := time.Since(start)

	// Two waits: 100ms+j and 200ms+j.
	minExpectedDelay := 300 * time.Millisecond
	maxExpectedDelay := 400*time.Millisecond + 50*time.Millisecond

	if elapsed < minExpectedDelay || elapsed > maxExpectedDelay {
		t.Errorf("expected total delay between %v and %v, got %v", minExpectedDelay, maxExpectedDelay, elapsed)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}
