package llm

import (
	"context"

	"github.com/sandevgo/taleforge/internal/config"
	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/log"
)

// NewProvider creates the named provider, or a *ConfigError when it lacks
// the credentials or endpoint it needs.
func NewProvider(ctx context.Context, name, model string, cfg core.ProviderConfig, opts HTTPOptions) (core.AIProvider, error) {
	if model == "" {
		model = config.DefaultModel(name)
	}

	log.FromCtx(ctx).Debug().
		Str("provider", name).
		Str("model", model).
		Msg("building llm provider")

	switch name {
	case config.ProviderOpenAI:
		if cfg.GetOpenAIAPIKey() == "" {
			return nil, &ConfigError{Provider: name, Reason: "OPENAI_API_KEY is not set"}
		}
		return NewOpenAI(cfg.GetOpenAIAPIKey(), model, opts), nil
	case config.ProviderDeepSeek:
		if cfg.GetDeepSeekAPIKey() == "" {
			return nil, &ConfigError{Provider: name, Reason: "DEEPSEEK_API_KEY is not set"}
		}
		return NewDeepSeek(cfg.GetDeepSeekAPIKey(), model, opts), nil
	case config.ProviderAnthropic:
		if cfg.GetAnthropicAPIKey() == "" {
			return nil, &ConfigError{Provider: name, Reason: "ANTHROPIC_API_KEY is not set"}
		}
		return NewAnthropic(cfg.GetAnthropicAPIKey(), model, opts), nil
	case config.ProviderOpenRouter:
		if cfg.GetOpenRouterAPIKey() == "" {
			return nil, &ConfigError{Provider: name, Reason: "OPENROUTER_API_KEY is not set"}
		}
		return NewOpenRouter(cfg.GetOpenRouterAPIKey(), model, opts), nil
	case config.ProviderOllama:
		if cfg.GetOllamaBaseURL() == "" {
			return nil, &ConfigError{Provider: name, Reason: "OLLAMA_BASE_URL is not set"}
		}
		return NewOllama(cfg.GetOllamaBaseURL(), cfg.GetOllamaAPIKey(), model, opts), nil
	case config.ProviderCustom:
		if cfg.GetCustomOpenAIBaseURL() == "" {
			return nil, &ConfigError{Provider: name, Reason: "CUSTOM_OPENAI_BASE_URL is not set"}
		}
		if model == "" {
			return nil, &ConfigError{Provider: name, Reason: "LLM_MODEL is required for a custom endpoint"}
		}
		return NewCustomOpenAI(cfg.GetCustomOpenAIBaseURL(), cfg.GetCustomOpenAIAPIKey(), model, opts), nil
	default:
		return nil, &ConfigError{Provider: name, Reason: "unknown provider"}
	}
}

// NewProviderChain returns the switchable primary provider followed by the
// configured fallbacks, in order.
func NewProviderChain(ctx context.Context, cfg *config.ProviderConfig) (*DynamicProvider, []core.AIProvider, error) {
	opts := HTTPOptions{
		ConnectTimeout: cfg.ConnectTimeout,
		RequestTimeout: cfg.RequestTimeout,
	}

	primary, err := NewDynamicProvider(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}

	var fallbacks []core.AIProvider
	for _, name := range cfg.GetFallbackProviders() {
		p, err := NewProvider(ctx, name, cfg.GetFallbackModel(name), cfg, opts)
		if err != nil {
			return nil, nil, err
		}
		fallbacks = append(fallbacks, p)
	}
	return primary, fallbacks, nil
}
