package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sandevgo/taleforge/internal/core"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string, opts HTTPOptions) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider("anthropic", anthropicBaseURL, apiKey, model, opts),
	}
}

func (a *Anthropic) headers() map[string]string {
	return map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}
}

// Complete sends system messages through the top level "system" field; the
// messages API only accepts user and assistant turns.
func (a *Anthropic) Complete(ctx context.Context, messages []core.Message, opts core.GenerationOptions) (string, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	var system []string
	turns := make([]msg, 0, len(messages))
	for _, m := range messages {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, msg{Role: m.Role, Content: m.Content})
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": maxTokens,
		"messages":   turns,
	}
	if len(system) > 0 {
		payload["system"] = strings.Join(system, "\n\n")
	}
	if opts.Temperature > 0 {
		payload["temperature"] = min(opts.Temperature, 1.0)
	}

	resp, err := a.doRequest(ctx, http.MethodPost, "/v1/messages", payload, a.headers())
	if err != nil {
		return "", &ProviderError{Provider: a.name, Err: err}
	}

	data, err := a.readBody(resp)
	if err != nil {
		return "", err
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &ProviderError{Provider: a.name, Status: http.StatusOK, Err: fmt.Errorf("decode: %w", err)}
	}

	var sb strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &ProviderError{Provider: a.name, Status: http.StatusOK, Err: ErrEmptyCompletion}
	}
	return text, nil
}

func (a *Anthropic) Models(ctx context.Context) ([]core.Model, error) {
	var models []core.Model
	afterID := ""

	for {
		path := "/v1/models?limit=1000"
		if afterID != "" {
			path = fmt.Sprintf("%s&after_id=%s", path, url.QueryEscape(afterID))
		}

		resp, err := a.doRequest(ctx, http.MethodGet, path, nil, a.headers())
		if err != nil {
			return nil, err
		}

		data, err := a.readBody(resp)
		if err != nil {
			return nil, err
		}

		var result struct {
			Data []struct {
				ID          string `json:"id"`
				DisplayName string `json:"display_name"`
				Type        string `json:"type"`
			} `json:"data"`
			HasMore bool   `json:"has_more"`
			LastID  string `json:"last_id"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		for _, m := range result.Data {
			if m.Type == "model" {
				models = append(models, core.Model{ID: m.ID, Name: m.DisplayName})
			}
		}

		if !result.HasMore {
			break
		}
		afterID = result.LastID
	}

	return models, nil
}
