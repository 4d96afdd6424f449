package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
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
	return core.TurnResult{Text: "Snow falls.", Characters: []core.CharacterRecord{}, Episode: 1}, nil
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	s, err := New(&fakePlayer{})
	require.NoError(t, err)
	assert.NotNil(t, s.mcpServer)
}

func TestServeRequiresConfiguredServer(t *testing.T) {
	var s *Server
	assert.Error(t, s.Serve(context.Background()))
	assert.Error(t, (&Server{}).Serve(context.Background()))
}

func TestPlayTurnHandler(t *testing.T) {
	p := &fakePlayer{}
	h := playTurnHandler(p)

	res, err := h(context.Background(), callRequest("play_turn", map[string]any{
		"action":   "I step outside",
		"settings": map[string]any{"setting": "Arctic station", "narrativeMode": "first"},
		"history":  []any{},
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Arctic station", p.got.Settings.Setting)
	assert.Equal(t, core.ModeFirstPerson, p.got.Settings.NarrativeMode)

	turn, ok := res.StructuredContent.(core.TurnResult)
	require.True(t, ok)
	assert.Equal(t, "Snow falls.", turn.Text)

	res, err = h(context.Background(), callRequest("play_turn", map[string]any{
		"action":  " ",
		"history": []any{map[string]any{"type": "user", "content": "hi"}},
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	p.err = errors.New("turn orchestrator not configured")
	res, err = h(context.Background(), callRequest("play_turn", map[string]any{"action": "go"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestExtractCharactersHandler(t *testing.T) {
	res, err := extractCharactersHandler(context.Background(), callRequest("extract_characters", map[string]any{
		"text": `"Stay close," Elena whispered.`,
	}))
	require.NoError(t, err)

	out, ok := res.StructuredContent.(CharactersResult)
	require.True(t, ok)
	assert.Equal(t, []core.CharacterRecord{{Name: "Elena", Role: "NPC"}}, out.Characters)
}

func TestAnalyzeActionHandler(t *testing.T) {
	res, err := analyzeActionHandler(context.Background(), callRequest("analyze_action", map[string]any{
		"action": "I kiss her and promise to return",
	}))
	require.NoError(t, err)

	out, ok := res.StructuredContent.(core.DecisionAnalysis)
	require.True(t, ok)
	assert.Equal(t, core.ToneRomantic, out.EmotionalTone)
	assert.True(t, out.IsMajorChoice)
}
