package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sandevgo/taleforge/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
}

type OpenAICompatibleConfig struct {
	Name         string
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
	HTTP         HTTPOptions
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.Name, strings.TrimSuffix(cfg.BaseURL, "/"), cfg.APIKey, cfg.Model, cfg.HTTP),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
}

func (o *OpenAICompatible) headers() map[string]string {
	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (o *OpenAICompatible) Complete(ctx context.Context, messages []core.Message, opts core.GenerationOptions) (string, error) {
	payload := map[string]any{
		"model":    o.model,
		"messages": messages,
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		payload["temperature"] = opts.Temperature
	}
	if opts.TopP > 0 {
		payload["top_p"] = opts.TopP
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, o.headers())
	if err != nil {
		return "", &ProviderError{Provider: o.name, Err: err}
	}

	data, err := o.readBody(resp)
	if err != nil {
		return "", err
	}
	return o.parseCompletion(data)
}

func (o *OpenAICompatible) parseCompletion(data []byte) (string, error) {
	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &ProviderError{Provider: o.name, Status: http.StatusOK, Err: fmt.Errorf("decode: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &ProviderError{Provider: o.name, Status: http.StatusOK, Err: fmt.Errorf("empty choices: %w", ErrEmptyCompletion)}
	}
	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", &ProviderError{Provider: o.name, Status: http.StatusOK, Err: ErrEmptyCompletion}
	}
	return text, nil
}

// Models lists models from the OpenAI style /v1/models endpoint.
func (o *OpenAICompatible) Models(ctx context.Context) ([]core.Model, error) {
	resp, err := o.doRequest(ctx, http.MethodGet, "/v1/models", nil, o.headers())
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	data, err := o.readBody(resp)
	if err != nil {
		return nil, err
	}

	var apiResp struct {
		Data []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			ContextLength int    `json:"context_length"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &apiResp); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}

	models := make([]core.Model, 0, len(apiResp.Data))
	for _, m := range apiResp.Data {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		models = append(models, core.Model{
			ID:            m.ID,
			Name:          name,
			ContextLength: m.ContextLength,
		})
	}
	return models, nil
}
