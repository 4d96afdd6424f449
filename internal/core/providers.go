package core

import "context"

// GenerationOptions are the sampling parameters for a completion.
type GenerationOptions struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

type AIProvider interface {
	Name() string
	Complete(ctx context.Context, messages []Message, opts GenerationOptions) (string, error)
	Models(ctx context.Context) ([]Model, error)
}

// ResponseCache stores successful turn results keyed by prompt fingerprint.
type ResponseCache interface {
	Get(ctx context.Context, key string) (TurnResult, bool)
	Put(ctx context.Context, key string, value TurnResult)
	Sweep(ctx context.Context) int
}
