package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/taleforge/internal/config"
)

func TestNewProvider(t *testing.T) {
	full := &config.ProviderConfig{
		OpenAIAPIKey:        "o",
		DeepSeekAPIKey:      "d",
		AnthropicAPIKey:     "a",
		OpenRouterAPIKey:    "r",
		OllamaBaseURL:       "http://localhost:11434",
		CustomOpenAIBaseURL: "http://localhost:8000",
	}

	tests := []struct {
		name      string
		provider  string
		model     string
		cfg       *config.ProviderConfig
		wantName  string
		wantError bool
	}{
		{name: "openai", provider: "openai", cfg: full, wantName: "openai"},
		{name: "deepseek", provider: "deepseek", cfg: full, wantName: "deepseek"},
		{name: "anthropic", provider: "anthropic", cfg: full, wantName: "anthropic"},
		{name: "openrouter", provider: "openrouter", cfg: full, wantName: "openrouter"},
		{name: "ollama", provider: "ollama", cfg: full, wantName: "ollama"},
		{name: "custom with model", provider: "custom", model: "local", cfg: full, wantName: "custom"},
		{name: "custom without model", provider: "custom", cfg: full, wantError: true},
		{name: "missing key", provider: "deepseek", cfg: &config.ProviderConfig{}, wantError: true},
		{name: "unknown", provider: "gemini", cfg: full, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), tt.provider, tt.model, tt.cfg, DefaultHTTPOptions())
			if tt.wantError {
				assert.True(t, IsConfigError(err), "expected ConfigError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewProviderChain(t *testing.T) {
	cfg := &config.ProviderConfig{
		Provider:          "deepseek",
		DeepSeekAPIKey:    "d",
		OpenAIAPIKey:      "o",
		FallbackProviders: []string{"openai"},
	}

	primary, fallbacks, err := NewProviderChain(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", primary.Name())
	require.Len(t, fallbacks, 1)
	assert.Equal(t, "openai", fallbacks[0].Name())

	cfg.FallbackProviders = []string{"anthropic"}
	_, _, err = NewProviderChain(context.Background(), cfg)
	assert.True(t, IsConfigError(err))
}

func TestDynamicProvider_SetModel(t *testing.T) {
	cfg := &config.ProviderConfig{Provider: "deepseek", DeepSeekAPIKey: "d", OpenAIAPIKey: "o"}

	d, err := NewDynamicProvider(context.Background(), cfg, DefaultHTTPOptions())
	require.NoError(t, err)
	assert.Equal(t, "deepseek", d.Name())

	require.NoError(t, d.SetModel(context.Background(), "openai/gpt-4o"))
	assert.Equal(t, "openai", d.Name())
	assert.Equal(t, "gpt-4o", d.GetModel())

	// anthropic has no key; the previous provider stays active
	err = d.SetModel(context.Background(), "anthropic/claude")
	assert.Error(t, err)
	assert.Equal(t, "openai", d.Name())
	assert.Equal(t, "openai", cfg.GetProvider())
	assert.Equal(t, "gpt-4o", cfg.GetModel())
}
