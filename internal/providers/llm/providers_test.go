package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/taleforge/internal/core"
)

func newCompatible(url string) *OpenAICompatible {
	return NewOpenAICompatible(OpenAICompatibleConfig{
		Name:       "test",
		BaseURL:    url,
		APIKey:     "secret",
		Model:      "story-model",
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		ExtraHeaders: map[string]string{
			"X-Title": core.AppName,
		},
		HTTP: DefaultHTTPOptions(),
	})
}

func TestOpenAICompatible_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, core.AppName, r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  The fog lifts.  "}}]}`))
	}))
	defer srv.Close()

	p := newCompatible(srv.URL)
	text, err := p.Complete(context.Background(), prompt, core.GenerationOptions{MaxTokens: 800, Temperature: 0.75, TopP: 0.9})
	require.NoError(t, err)

	assert.Equal(t, "The fog lifts.", text)
	assert.Equal(t, "story-model", got["model"])
	assert.Equal(t, float64(800), got["max_tokens"])
	assert.Equal(t, 0.75, got["temperature"])
	assert.Equal(t, 0.9, got["top_p"])
	assert.Len(t, got["messages"], 2)
}

func TestOpenAICompatible_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: `overloaded`, wantStatus: 503},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `slow down`, wantStatus: 429},
		{name: "redirect without location", status: http.StatusMultipleChoices, body: `moved`, wantStatus: 300},
		{name: "malformed body", status: http.StatusOK, body: `{not json`, wantStatus: 200},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantStatus: 200},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":""}}]}`, wantStatus: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newCompatible(srv.URL).Complete(context.Background(), prompt, core.GenerationOptions{})
			require.Error(t, err)

			var pe *ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantStatus, pe.Status)
			assert.Equal(t, "test", pe.Provider)
		})
	}
}

func TestOpenAICompatible_AcceptsAny2xx(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusNonAuthoritativeInfo} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"The tide turns."}}]}`))
			}))
			defer srv.Close()

			text, err := newCompatible(srv.URL).Complete(context.Background(), prompt, core.GenerationOptions{})
			require.NoError(t, err)
			assert.Equal(t, "The tide turns.", text)
		})
	}
}

func TestOpenAICompatible_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p := NewOpenAICompatible(OpenAICompatibleConfig{
		Name:    "slow",
		BaseURL: srv.URL,
		Model:   "m",
		HTTP:    HTTPOptions{ConnectTimeout: time.Second, RequestTimeout: 50 * time.Millisecond},
	})

	_, err := p.Complete(context.Background(), prompt, core.GenerationOptions{})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, pe.Status)
}

func TestOpenAICompatible_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"deepseek-chat"},{"id":"x/y","name":"Y","context_length":8192}]}`))
	}))
	defer srv.Close()

	models, err := newCompatible(srv.URL).Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Model{
		{ID: "deepseek-chat", Name: "deepseek-chat"},
		{ID: "x/y", Name: "Y", ContextLength: 8192},
	}, models)
}

func TestAnthropic_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Rain "},{"type":"tool_use"},{"type":"text","text":"falls."}]}`))
	}))
	defer srv.Close()

	a := NewAnthropic("key", "claude", DefaultHTTPOptions())
	a.baseURL = srv.URL

	text, err := a.Complete(context.Background(), prompt, core.GenerationOptions{MaxTokens: 500, Temperature: 1.4})
	require.NoError(t, err)

	assert.Equal(t, "Rain falls.", text)
	assert.Equal(t, "You are the narrator.", got["system"])
	assert.Equal(t, float64(500), got["max_tokens"])
	assert.Equal(t, 1.0, got["temperature"])

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
}

func TestAnthropic_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewAnthropic("key", "claude", DefaultHTTPOptions())
	a.baseURL = srv.URL

	_, err := a.Complete(context.Background(), prompt, core.GenerationOptions{})
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 500, pe.Status)
	assert.Equal(t, "anthropic", pe.Provider)
}

func TestOllama_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1"}]}`))
	}))
	defer srv.Close()

	models, err := NewOllama(srv.URL, "", "llama3.1", DefaultHTTPOptions()).Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "llama3.1", models[0].ID)
}
