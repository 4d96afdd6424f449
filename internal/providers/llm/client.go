package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/log"
	"github.com/sandevgo/taleforge/pkg/otel"
	"github.com/sandevgo/taleforge/pkg/retry"
)

type ClientConfig struct {
	// MaxAttempts is the total number of calls made to each provider.
	MaxAttempts int
	// RetryDelay is the constant wait between attempts. Zero retries immediately.
	RetryDelay time.Duration
	Options    core.GenerationOptions
	// TracerProvider receives attempt spans. Nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// Attempt records one provider call.
type Attempt struct {
	Provider string
	Number   int
	Latency  time.Duration
	Length   int
	Err      error
}

// Outcome is the terminal state of Generate: either Text is set, or Err
// explains why every provider was exhausted.
type Outcome struct {
	Text     string
	Provider string
	Attempts []Attempt
	Err      error
}

func (o Outcome) Exhausted() bool {
	return o.Err != nil
}

// Client runs the bounded attempt loop against a primary provider and then
// each fallback provider in order.
type Client struct {
	providers []core.AIProvider
	retrier   *retry.Retrier
	opts      core.GenerationOptions
	tracer    trace.Tracer
}

func NewClient(cfg ClientConfig, primary core.AIProvider, fallbacks ...core.AIProvider) (*Client, error) {
	if primary == nil {
		return nil, &ConfigError{Provider: "primary", Reason: "no provider configured"}
	}
	if cfg.MaxAttempts < 1 {
		return nil, &ConfigError{Provider: primary.Name(), Reason: "max attempts must be at least 1"}
	}

	rc := retry.NewImmediateConfig(cfg.MaxAttempts)
	if cfg.RetryDelay > 0 {
		rc.InitialDelay = cfg.RetryDelay
		rc.MaxDelay = cfg.RetryDelay
	}

	providers := make([]core.AIProvider, 0, 1+len(fallbacks))
	providers = append(providers, primary)
	for _, f := range fallbacks {
		if f != nil {
			providers = append(providers, f)
		}
	}

	return &Client{
		providers: providers,
		retrier:   retry.NewRetrier(rc),
		opts:      cfg.Options,
		tracer:    otel.TracerFrom(cfg.TracerProvider, "taleforge/llm"),
	}, nil
}

// Generate never returns an error directly; callers inspect Outcome.
func (c *Client) Generate(ctx context.Context, messages []core.Message) Outcome {
	logger := log.FromCtx(ctx)
	out := Outcome{}
	var errs []error

	for _, p := range c.providers {
		var text string
		_, err := c.retrier.Do(ctx, func(attempt int) error {
			a := c.attempt(ctx, p, attempt, messages, &text)
			out.Attempts = append(out.Attempts, a)
			return a.Err
		})
		if err == nil {
			out.Text = text
			out.Provider = p.Name()
			return out
		}

		errs = append(errs, err)
		logger.Warn().
			Err(err).
			Str("provider", p.Name()).
			Msg("provider exhausted")

		if ctx.Err() != nil {
			break
		}
	}

	out.Err = fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
	return out
}

func (c *Client) attempt(ctx context.Context, p core.AIProvider, n int, messages []core.Message, text *string) Attempt {
	ctx, span := c.tracer.Start(ctx, otel.SpanLLMComplete, trace.WithAttributes(
		otel.AttrProvider.String(p.Name()),
		otel.AttrAttempt.Int(n),
		otel.AttrMessages.Int(len(messages)),
	))
	defer span.End()

	start := time.Now()
	result, err := p.Complete(ctx, messages, c.opts)
	a := Attempt{
		Provider: p.Name(),
		Number:   n,
		Latency:  time.Since(start),
		Length:   len(result),
	}

	if err == nil && result == "" {
		err = ErrEmptyCompletion
	}
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			pe.Attempt = n
		} else {
			err = &ProviderError{Provider: p.Name(), Attempt: n, Err: err}
		}
		a.Err = err

		span.RecordError(err)
		span.SetStatus(codes.Error, "attempt failed")
		log.FromCtx(ctx).Warn().
			Err(err).
			Str("provider", a.Provider).
			Int("attempt", n).
			Dur("latency", a.Latency).
			Msg("llm attempt failed")
		return a
	}

	*text = result
	span.SetAttributes(otel.AttrResponseLength.Int(a.Length))
	log.FromCtx(ctx).Debug().
		Str("provider", a.Provider).
		Int("attempt", n).
		Dur("latency", a.Latency).
		Int("length", a.Length).
		Msg("llm attempt succeeded")
	return a
}
