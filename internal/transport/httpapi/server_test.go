package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/taleforge/internal/core"
)

type fakePlayer struct {
	got core.TurnRequest
	err error
}

func (p *fakePlayer) Play(ctx context.Context, req core.TurnRequest) (core.TurnResult, error) {
	p.got = req
	if p.err != nil {
		return core.TurnResult{}, p.err
	}
	return core.TurnResult{
		Text:       "The lamp flickers.",
		Characters: []core.CharacterRecord{},
		Episode:    core.EpisodeNumber(len(req.History)),
	}, nil
}

func newTestServer(t *testing.T, p *fakePlayer) *httptest.Server {
	t.Helper()
	s := NewServer(context.Background(), ":0", p)
	ts := httptest.NewServer(s.Handler(context.Background()))
	t.Cleanup(ts.Close)
	return ts
}

func TestHandleTurn(t *testing.T) {
	p := &fakePlayer{}
	ts := newTestServer(t, p)

	body := `{"action":"I light the lamp","settings":{"role":"hero","narrativeMode":"third","setting":"Lighthouse"},
		"history":[{"type":"user","content":"a"},{"type":"ai","content":"b"}],"memory":{}}`
	resp, err := http.Post(ts.URL+"/v1/turn", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res core.TurnResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))

	assert.Equal(t, "The lamp flickers.", res.Text)
	assert.Equal(t, 2, res.Episode)
	assert.Equal(t, "Lighthouse", p.got.Settings.Setting)
	assert.Equal(t, core.RoleAssistant, p.got.History[1].Role())
}

func TestHandleTurn_Errors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		err    error
		want   int
	}{
		{name: "wrong method", method: http.MethodGet, want: http.StatusMethodNotAllowed},
		{name: "malformed json", method: http.MethodPost, body: "{", want: http.StatusBadRequest},
		{name: "misconfigured", method: http.MethodPost, body: `{"action":"x"}`, err: errors.New("not configured"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, &fakePlayer{err: tt.err})

			req, err := http.NewRequest(tt.method, ts.URL+"/v1/turn", strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.want, resp.StatusCode)
			var e errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestHandleHelpers(t *testing.T) {
	ts := newTestServer(t, &fakePlayer{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/v1/characters", "application/json",
		strings.NewReader(`{"text":"[NPC: Elena | Role: Innkeeper | Appearance: tall, red hair] Welcome."}`))
	require.NoError(t, err)
	var chars struct {
		Characters []core.CharacterRecord `json:"characters"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&chars))
	resp.Body.Close()
	assert.Equal(t, []core.CharacterRecord{{Name: "Elena", Role: "Innkeeper", Description: "tall, red hair"}}, chars.Characters)

	resp, err = http.Post(ts.URL+"/v1/analyze", "application/json", strings.NewReader(`{"action":"I attack the guard"}`))
	require.NoError(t, err)
	var analysis core.DecisionAnalysis
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&analysis))
	resp.Body.Close()
	assert.Equal(t, core.ToneAggressive, analysis.EmotionalTone)
	assert.False(t, analysis.IsMajorChoice)
}
