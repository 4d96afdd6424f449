package core

import "context"

type ProviderConfig interface {
	GetProvider() string
	GetModel() string
	SetModel(model string) error
	GetFallbackProviders() []string
	GetAnthropicAPIKey() string
	GetOpenAIAPIKey() string
	GetDeepSeekAPIKey() string
	GetOpenRouterAPIKey() string
	GetOllamaAPIKey() string
	GetOllamaBaseURL() string
	GetCustomOpenAIBaseURL() string
	GetCustomOpenAIAPIKey() string
}

type TelegramConfig interface {
	GetTelegramToken() string
	GetTelegramOwnerID() int64
}

type GlobalState interface {
	ChangeModel(ctx context.Context, model string) error
}
