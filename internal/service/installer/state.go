package installer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/taleforge/internal/config"
)

const (
	envProvider       = "LLM_PROVIDER"
	envModel          = "LLM_MODEL"
	envEnableHTTP     = "ENABLE_HTTP"
	envEnableTelegram = "ENABLE_TELEGRAM"
	envTelegramToken  = "TELEGRAM_TOKEN"
	envTelegramOwner  = "TELEGRAM_OWNER_ID"
	envDebug          = "TALEFORGE_DEBUG"

	channelTerminal = "Terminal"
	channelHTTP     = "HTTP API"
	channelTelegram = "Telegram"
)

type InstallState struct {
	EnvVars map[string]string
	Channel string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) Provider() string {
	return s.EnvVars[envProvider]
}

// APIKeyEnv names the key variable for a provider. Ollama and custom
// endpoints may run without a key.
func APIKeyEnv(provider string) (key string, optional bool) {
	switch provider {
	case config.ProviderOpenAI:
		return "OPENAI_API_KEY", false
	case config.ProviderAnthropic:
		return "ANTHROPIC_API_KEY", false
	case config.ProviderDeepSeek:
		return "DEEPSEEK_API_KEY", false
	case config.ProviderOpenRouter:
		return "OPENROUTER_API_KEY", false
	case config.ProviderOllama:
		return "OLLAMA_API_KEY", true
	case config.ProviderCustom:
		return "CUSTOM_OPENAI_API_KEY", true
	}
	return "", true
}

// BaseURLEnv names the endpoint variable for providers that need one.
func BaseURLEnv(provider string) (key, placeholder string) {
	switch provider {
	case config.ProviderOllama:
		return "OLLAMA_BASE_URL", "http://localhost:11434"
	case config.ProviderCustom:
		return "CUSTOM_OPENAI_BASE_URL", "https://api.example.com"
	}
	return "", ""
}

// ProviderConfig builds a provider config from the collected answers, used
// to list models before anything is written to disk.
func (s *InstallState) ProviderConfig() *config.ProviderConfig {
	v := s.EnvVars
	cfg := &config.ProviderConfig{
		Provider:            v[envProvider],
		AnthropicAPIKey:     v["ANTHROPIC_API_KEY"],
		OpenAIAPIKey:        v["OPENAI_API_KEY"],
		DeepSeekAPIKey:      v["DEEPSEEK_API_KEY"],
		OpenRouterAPIKey:    v["OPENROUTER_API_KEY"],
		OllamaAPIKey:        v["OLLAMA_API_KEY"],
		OllamaBaseURL:       v["OLLAMA_BASE_URL"],
		CustomOpenAIBaseURL: v["CUSTOM_OPENAI_BASE_URL"],
		CustomOpenAIAPIKey:  v["CUSTOM_OPENAI_API_KEY"],
	}
	if cfg.OllamaBaseURL == "" {
		_, cfg.OllamaBaseURL = BaseURLEnv(config.ProviderOllama)
	}
	return cfg
}

// Finalize fills derived and default values and drops empty answers.
func (s *InstallState) Finalize() {
	v := s.EnvVars

	if v[envModel] == "" {
		if m := config.DefaultModel(v[envProvider]); m != "" {
			v[envModel] = m
		}
	}

	v[envEnableHTTP] = fmt.Sprint(s.Channel == channelHTTP)
	v[envEnableTelegram] = fmt.Sprint(s.Channel == channelTelegram)
	if s.Channel != channelTelegram {
		delete(v, envTelegramToken)
		delete(v, envTelegramOwner)
	}

	if v[envDebug] == "" {
		v[envDebug] = "0"
	}

	for k, val := range v {
		if strings.TrimSpace(val) == "" {
			delete(v, k)
		}
	}
}

// RenderEnv formats vars as a .env file with keys sorted.
func RenderEnv(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		val := vars[k]
		if strings.ContainsAny(val, " #\"'") {
			val = fmt.Sprintf("%q", val)
		}
		fmt.Fprintf(&sb, "%s=%s\n", k, val)
	}
	return sb.String()
}
