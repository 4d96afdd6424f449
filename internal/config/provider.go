package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/taleforge/pkg/log"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderDeepSeek   = "deepseek"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderCustom     = "custom"
)

var defaultModels = map[string]string{
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderAnthropic:  "claude-3-5-sonnet-latest",
	ProviderDeepSeek:   "deepseek-chat",
	ProviderOpenRouter: "deepseek/deepseek-chat",
	ProviderOllama:     "llama3.1",
	ProviderCustom:     "",
}

// KnownProviders lists provider names in display order.
func KnownProviders() []string {
	return []string{ProviderDeepSeek, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter, ProviderOllama, ProviderCustom}
}

func IsKnownProvider(name string) bool {
	_, ok := defaultModels[name]
	return ok
}

// DefaultModel returns the model used for a provider when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

type ProviderConfig struct {
	Provider          string   `env:"LLM_PROVIDER" envDefault:"deepseek"`
	Model             string   `env:"LLM_MODEL"`
	FallbackProviders []string `env:"LLM_FALLBACK_PROVIDERS" envSeparator:","`
	FallbackModel     string   `env:"LLM_FALLBACK_MODEL"`

	MaxTokens   int     `env:"LLM_MAX_TOKENS" envDefault:"2000"`
	Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.9"`
	TopP        float64 `env:"LLM_TOP_P" envDefault:"0.95"`

	ConnectTimeout time.Duration `env:"LLM_CONNECT_TIMEOUT" envDefault:"10s"`
	RequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"60s"`
	MaxRetries     int           `env:"LLM_MAX_RETRIES" envDefault:"3"`
	RetryDelay     time.Duration `env:"LLM_RETRY_DELAY" envDefault:"0s"`

	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	DeepSeekAPIKey      string `env:"DEEPSEEK_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	mu sync.RWMutex
}

// LoadProviderConfig parses and validates the provider settings from the environment.
func LoadProviderConfig() (*ProviderConfig, error) {
	c := &ProviderConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse provider config: %w", err)
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	for i, p := range c.FallbackProviders {
		c.FallbackProviders[i] = strings.ToLower(strings.TrimSpace(p))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func NewProviderConfig(ctx context.Context) *ProviderConfig {
	c, err := LoadProviderConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Provider config")
	}
	return c
}

func (c *ProviderConfig) Validate() error {
	var errs []error
	if !IsKnownProvider(c.Provider) {
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.Provider))
	}
	for _, p := range c.FallbackProviders {
		if !IsKnownProvider(p) {
			errs = append(errs, fmt.Errorf("unknown fallback provider %q", p))
		}
	}
	if c.MaxRetries < 1 {
		errs = append(errs, errors.New("LLM_MAX_RETRIES must be at least 1"))
	}
	if c.MaxTokens < 1 {
		errs = append(errs, errors.New("LLM_MAX_TOKENS must be positive"))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, errors.New("LLM_TEMPERATURE must be within [0, 2]"))
	}
	if c.TopP <= 0 || c.TopP > 1 {
		errs = append(errs, errors.New("LLM_TOP_P must be within (0, 1]"))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, errors.New("LLM_RETRY_DELAY must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *ProviderConfig) GetProvider() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Provider
}

// GetModel returns the configured model or the provider default.
func (c *ProviderConfig) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Provider)
}

// SetModel accepts "model" or "provider/model". A leading segment naming a
// known provider switches the provider too; otherwise the whole string is the
// model id (OpenRouter ids contain slashes).
func (c *ProviderConfig) SetModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return errors.New("model must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix, rest, ok := strings.Cut(model, "/"); ok && IsKnownProvider(prefix) && rest != "" {
		c.Provider = prefix
		c.Model = rest
		return nil
	}
	c.Model = model
	return nil
}

func (c *ProviderConfig) GetFallbackProviders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.FallbackProviders...)
}

func (c *ProviderConfig) GetFallbackModel(provider string) string {
	if c.FallbackModel != "" {
		return c.FallbackModel
	}
	return DefaultModel(provider)
}

func (c *ProviderConfig) GetAnthropicAPIKey() string     { return c.AnthropicAPIKey }
func (c *ProviderConfig) GetOpenAIAPIKey() string        { return c.OpenAIAPIKey }
func (c *ProviderConfig) GetDeepSeekAPIKey() string      { return c.DeepSeekAPIKey }
func (c *ProviderConfig) GetOpenRouterAPIKey() string    { return c.OpenRouterAPIKey }
func (c *ProviderConfig) GetOllamaAPIKey() string        { return c.OllamaAPIKey }
func (c *ProviderConfig) GetOllamaBaseURL() string       { return c.OllamaBaseURL }
func (c *ProviderConfig) GetCustomOpenAIBaseURL() string { return c.CustomOpenAIBaseURL }
func (c *ProviderConfig) GetCustomOpenAIAPIKey() string  { return c.CustomOpenAIAPIKey }
