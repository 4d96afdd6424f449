package llm

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCompletion = errors.New("empty completion")
	ErrExhausted       = errors.New("all providers exhausted")
	ErrNotConfigured   = errors.New("provider not configured")
)

// ProviderError is a transient failure of a single provider call.
// Every ProviderError is considered retryable.
type ProviderError struct {
	Provider string
	Status   int
	Attempt  int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Attempt > 0 {
		return fmt.Sprintf("%s attempt %d: %v", e.Provider, e.Attempt, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ConfigError reports a provider that cannot be constructed, such as a
// missing API key. It is never retried.
type ConfigError struct {
	Provider string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("llm provider %q: %s", e.Provider, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrNotConfigured
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
