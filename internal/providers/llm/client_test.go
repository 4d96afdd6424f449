package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/otel"
)

type fakeProvider struct {
	name    string
	replies []string
	errs    []error
	calls   int
	gotOpts core.GenerationOptions
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, messages []core.Message, opts core.GenerationOptions) (string, error) {
	i := f.calls
	f.calls++
	f.gotOpts = opts
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	if len(f.replies) > 0 {
		return f.replies[len(f.replies)-1], nil
	}
	return "", errors.New("no reply")
}

func (f *fakeProvider) Models(ctx context.Context) ([]core.Model, error) { return nil, nil }

func failing(name string) *fakeProvider {
	return &fakeProvider{name: name}
}

var prompt = []core.Message{
	{Role: core.RoleSystem, Content: "You are the narrator."},
	{Role: core.RoleUser, Content: "I open the door."},
}

func TestClient_Generate(t *testing.T) {
	boom := errors.New("503")

	tests := []struct {
		name          string
		primary       *fakeProvider
		fallbacks     []*fakeProvider
		wantText      string
		wantProvider  string
		wantAttempts  int
		wantExhausted bool
	}{
		{
			name:         "success on first attempt",
			primary:      &fakeProvider{name: "p", replies: []string{"The door opens."}},
			wantText:     "The door opens.",
			wantProvider: "p",
			wantAttempts: 1,
		},
		{
			name:         "success after transient failures",
			primary:      &fakeProvider{name: "p", errs: []error{boom, boom}, replies: []string{"", "", "Finally."}},
			wantText:     "Finally.",
			wantProvider: "p",
			wantAttempts: 3,
		},
		{
			name:          "always failing exhausts exactly max attempts",
			primary:       failing("p"),
			wantAttempts:  3,
			wantExhausted: true,
		},
		{
			name:         "empty completion is retried",
			primary:      &fakeProvider{name: "p", replies: []string{"", "Text."}},
			wantText:     "Text.",
			wantProvider: "p",
			wantAttempts: 2,
		},
		{
			name:         "fallback provider used after primary exhausted",
			primary:      failing("p"),
			fallbacks:    []*fakeProvider{{name: "f", replies: []string{"From fallback."}}},
			wantText:     "From fallback.",
			wantProvider: "f",
			wantAttempts: 4,
		},
		{
			name:          "every provider exhausted",
			primary:       failing("p"),
			fallbacks:     []*fakeProvider{failing("f1"), failing("f2")},
			wantAttempts:  9,
			wantExhausted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fbs []core.AIProvider
			for _, f := range tt.fallbacks {
				fbs = append(fbs, f)
			}

			c, err := NewClient(ClientConfig{MaxAttempts: 3}, tt.primary, fbs...)
			require.NoError(t, err)

			out := c.Generate(context.Background(), prompt)

			assert.Equal(t, tt.wantExhausted, out.Exhausted())
			assert.Equal(t, tt.wantText, out.Text)
			assert.Equal(t, tt.wantProvider, out.Provider)
			assert.Len(t, out.Attempts, tt.wantAttempts)
			if tt.wantExhausted {
				assert.ErrorIs(t, out.Err, ErrExhausted)
			}
		})
	}
}

func TestClient_AttemptsAreNumbered(t *testing.T) {
	p := failing("p")
	c, err := NewClient(ClientConfig{MaxAttempts: 3}, p)
	require.NoError(t, err)

	out := c.Generate(context.Background(), prompt)
	require.Len(t, out.Attempts, 3)

	for i, a := range out.Attempts {
		assert.Equal(t, i+1, a.Number)
		assert.Equal(t, "p", a.Provider)

		var pe *ProviderError
		require.ErrorAs(t, a.Err, &pe)
		assert.Equal(t, i+1, pe.Attempt)
	}
}

func TestClient_PassesGenerationOptions(t *testing.T) {
	p := &fakeProvider{name: "p", replies: []string{"ok"}}
	opts := core.GenerationOptions{MaxTokens: 800, Temperature: 0.75, TopP: 0.9}

	c, err := NewClient(ClientConfig{MaxAttempts: 1, Options: opts}, p)
	require.NoError(t, err)

	c.Generate(context.Background(), prompt)
	assert.Equal(t, opts, p.gotOpts)
}

func TestClient_RetryDelay(t *testing.T) {
	p := failing("p")
	c, err := NewClient(ClientConfig{MaxAttempts: 3, RetryDelay: 20 * time.Millisecond}, p)
	require.NoError(t, err)

	start := time.Now()
	out := c.Generate(context.Background(), prompt)

	assert.True(t, out.Exhausted())
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestNewClient_ConfigErrors(t *testing.T) {
	_, err := NewClient(ClientConfig{MaxAttempts: 3}, nil)
	assert.True(t, IsConfigError(err))

	_, err = NewClient(ClientConfig{MaxAttempts: 0}, failing("p"))
	assert.True(t, IsConfigError(err))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestClient_TracesEveryAttempt(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	primary := &fakeProvider{name: "deepseek", errs: []error{errors.New("503")}, replies: []string{"", "The bridge holds."}}
	c, err := NewClient(ClientConfig{MaxAttempts: 3, TracerProvider: tp}, primary)
	require.NoError(t, err)

	out := c.Generate(context.Background(), prompt)
	require.False(t, out.Exhausted())

	spans := sr.Ended()
	require.Len(t, spans, 2)

	for i, s := range spans {
		assert.Equal(t, otel.SpanLLMComplete, s.Name())
		attrs := spanAttrs(s)
		assert.Equal(t, "deepseek", attrs[otel.AttrProvider].AsString())
		assert.Equal(t, int64(i+1), attrs[otel.AttrAttempt].AsInt64())
		assert.Equal(t, int64(len(prompt)), attrs[otel.AttrMessages].AsInt64())
	}

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.NotEqual(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, int64(len("The bridge holds.")), spanAttrs(spans[1])[otel.AttrResponseLength].AsInt64())
}
