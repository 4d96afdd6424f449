package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Operation is invoked once per attempt with the 1-based attempt number.
type Operation = func(attempt int) error

type Config struct {
	MaxAttempts   int
	BackoffFactor float64
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	Jitter        time.Duration
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxAttempts:   3,
		BackoffFactor: 2.15,
		InitialDelay:  300 * time.Millisecond,
		MaxDelay:      20 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

// NewImmediateConfig retries without waiting between attempts.
func NewImmediateConfig(maxAttempts int) *Config {
	return &Config{MaxAttempts: maxAttempts, BackoffFactor: 1}
}

type Retrier struct {
	config *Config
}

func NewRetrier(config *Config) *Retrier {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Retrier{
		config: config,
	}
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs op until it succeeds, returns a permanent error, or MaxAttempts is
// reached. It reports how many attempts were made.
func (r *Retrier) Do(ctx context.Context, op Operation) (int, error) {
	var err error
	delay := r.config.InitialDelay
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		err = op(attempt)
		if err == nil {
			return attempt, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return attempt, perm.err
		}

		if attempt == r.config.MaxAttempts {
			return attempt, err
		}

		if delay <= 0 && r.config.Jitter <= 0 {
			if ctx.Err() != nil {
				return attempt, ctx.Err()
			}
			continue
		}

		var jitter time.Duration
		if r.config.Jitter > 0 {
			jitter = time.Duration(rnd.Float64() * float64(r.config.Jitter))
		}
		nextDelay := delay + jitter
		if r.config.MaxDelay > 0 && nextDelay > r.config.MaxDelay {
			nextDelay = r.config.MaxDelay + jitter
		}

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(nextDelay):
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if r.config.MaxDelay > 0 && delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return r.config.MaxAttempts, err
}
