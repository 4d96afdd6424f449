package turn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/internal/providers/cache"
	"github.com/sandevgo/taleforge/internal/providers/llm"
	"github.com/sandevgo/taleforge/internal/service/prompt"
	"github.com/sandevgo/taleforge/pkg/clock"
)

type scriptedProvider struct {
	reply string
	fail  bool
	calls int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, messages []core.Message, opts core.GenerationOptions) (string, error) {
	p.calls++
	if p.fail {
		return "", &llm.ProviderError{Provider: "scripted", Status: 503, Err: errors.New("unavailable")}
	}
	return p.reply, nil
}

func (p *scriptedProvider) Models(ctx context.Context) ([]core.Model, error) { return nil, nil }

type fixture struct {
	orch     *Orchestrator
	provider *scriptedProvider
	cache    *cache.Memory
	clock    *clock.Fake
}

func newFixture(t *testing.T, provider *scriptedProvider) *fixture {
	t.Helper()

	client, err := llm.NewClient(llm.ClientConfig{MaxAttempts: 3}, provider)
	require.NoError(t, err)

	clk := clock.NewFake(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	c := cache.NewMemory(30*time.Minute, 100, clk)

	orch, err := New(prompt.NewBuilder(prompt.Config{HistoryLimit: 10}), client, c)
	require.NoError(t, err)

	return &fixture{orch: orch, provider: provider, cache: c, clock: clk}
}

func entries(n int) []core.HistoryEntry {
	out := make([]core.HistoryEntry, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = core.UserEntry("act")
		} else {
			out[i] = core.AssistantEntry("reply")
		}
	}
	return out
}

const reply = `**[STATUS]**
⏰ Time/place: Night, the docks
🎬 Events: the warehouse burns
---
[NPC: Mira | Role: Smuggler | Appearance: soot-streaked coat] "Run," Mira said. Captain Vell shouted orders.`

func TestPlay_Success(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: reply})

	res, err := f.orch.Play(context.Background(), core.TurnRequest{
		Action:   "I decide to trust Mira and help her",
		Settings: core.GameSettings{Setting: "Port city"},
		History:  entries(2),
	})
	require.NoError(t, err)

	assert.False(t, res.Degraded)
	assert.False(t, res.Cached)
	assert.Equal(t, "scripted", res.Provider)
	assert.Equal(t, 2, res.Episode)
	assert.NotContains(t, res.Text, "[STATUS]")
	assert.Contains(t, res.Text, "Captain Vell shouted")

	assert.Equal(t, []core.CharacterRecord{
		{Name: "Mira", Role: "Smuggler", Description: "soot-streaked coat"},
		{Name: "Captain Vell", Role: "NPC"},
	}, res.Characters)

	require.NotNil(t, res.Decision)
	assert.Equal(t, core.ToneFriendly, res.Decision.EmotionalTone)
	assert.True(t, res.Decision.IsMajorChoice)

	require.NotNil(t, res.Status)
	assert.Equal(t, "Night, the docks", res.Status.TimeAndPlace)

	require.NotNil(t, res.Memory)
	require.Len(t, res.Memory.KeyMoments, 1)
	assert.Equal(t, 2, res.Memory.KeyMoments[0].Turn)
	assert.Equal(t, 5, res.Memory.CharacterRelationships["Mira"])
	assert.Equal(t, []string{"the warehouse burns"}, res.Memory.WorldChanges)
}

func TestPlay_EpisodeNumbering(t *testing.T) {
	tests := []struct {
		history int
		want    int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 3},
	}

	for _, tt := range tests {
		f := newFixture(t, &scriptedProvider{reply: "Waves."})
		res, err := f.orch.Play(context.Background(), core.TurnRequest{Action: "look", History: entries(tt.history)})
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Episode, "history %d", tt.history)

		failing := newFixture(t, &scriptedProvider{fail: true})
		res, err = failing.orch.Play(context.Background(), core.TurnRequest{Action: "look", History: entries(tt.history)})
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Episode, "fallback, history %d", tt.history)
	}
}

func TestPlay_AlwaysFailingProvider(t *testing.T) {
	f := newFixture(t, &scriptedProvider{fail: true})
	req := core.TurnRequest{
		Action:  "I attack",
		History: entries(3),
		Memory:  core.NarrativeMemory{CharacterRelationships: map[string]int{"Mira": 10}},
	}

	res, err := f.orch.Play(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, f.provider.calls, "exactly max attempts")
	assert.True(t, res.Degraded)
	assert.NotEmpty(t, res.Text)
	assert.Equal(t, FallbackText(core.GameSettings{}, req.History), res.Text)
	assert.Empty(t, res.Characters)
	require.NotNil(t, res.Decision)
	assert.Equal(t, core.ToneAggressive, res.Decision.EmotionalTone)
	assert.Equal(t, req.Memory, *res.Memory, "memory unchanged on fallback")

	assert.Equal(t, 0, f.cache.Len(), "fallback never cached")

	_, err = f.orch.Play(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 6, f.provider.calls, "second call retries the provider")
}

func TestPlay_CacheHit(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "The door creaks. Mira nodded."})
	req := core.TurnRequest{Action: "I knock", History: entries(2), Settings: core.GameSettings{Setting: "Manor"}}

	first, err := f.orch.Play(context.Background(), req)
	require.NoError(t, err)
	second, err := f.orch.Play(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, f.provider.calls)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Characters, second.Characters)
	assert.Equal(t, first.Episode, second.Episode)
	assert.Equal(t, first.Memory, second.Memory)
}

func TestPlay_CacheExpiry(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "Ash falls."})
	req := core.TurnRequest{Action: "wait", History: entries(1)}

	_, err := f.orch.Play(context.Background(), req)
	require.NoError(t, err)

	f.clock.Advance(30 * time.Minute)

	res, err := f.orch.Play(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 2, f.provider.calls)
}

func TestPlay_DifferentActionMisses(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "Ok."})

	_, _ = f.orch.Play(context.Background(), core.TurnRequest{Action: "left", History: entries(1)})
	_, _ = f.orch.Play(context.Background(), core.TurnRequest{Action: "right", History: entries(1)})

	assert.Equal(t, 2, f.provider.calls)
}

func TestPlay_InputMemoryNotMutated(t *testing.T) {
	f := newFixture(t, &scriptedProvider{reply: "Mira smiled warmly."})
	mem := core.NarrativeMemory{CharacterRelationships: map[string]int{"Mira": 40}}

	res, err := f.orch.Play(context.Background(), core.TurnRequest{Action: "I hug Mira", History: entries(1), Memory: mem})
	require.NoError(t, err)

	assert.Equal(t, 40, mem.CharacterRelationships["Mira"])
	assert.Equal(t, 45, res.Memory.CharacterRelationships["Mira"])
}

func TestNew_RequiresDependencies(t *testing.T) {
	b := prompt.NewBuilder(prompt.Config{})
	c := cache.NewMemory(time.Minute, 1, nil)
	client, err := llm.NewClient(llm.ClientConfig{MaxAttempts: 1}, &scriptedProvider{})
	require.NoError(t, err)

	_, err = New(nil, client, c)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = New(b, nil, c)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = New(b, client, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	var zero *Orchestrator
	_, err = zero.Play(context.Background(), core.TurnRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFallbackText(t *testing.T) {
	opening := FallbackText(core.GameSettings{Setting: "Mars colony"}, nil)
	assert.Contains(t, opening, "Mars colony")

	for n := 1; n <= 10; n++ {
		h := entries(n)
		assert.Equal(t, fallbackTemplates[n%len(fallbackTemplates)], FallbackText(core.GameSettings{}, h))
		assert.Equal(t, FallbackText(core.GameSettings{}, h), FallbackText(core.GameSettings{}, h))
	}
}
