// Package turn runs one player turn through the narrative pipeline.
package turn

import (
	"context"
	"errors"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/internal/providers/cache"
	"github.com/sandevgo/taleforge/internal/providers/llm"
	"github.com/sandevgo/taleforge/internal/service/decision"
	"github.com/sandevgo/taleforge/internal/service/extract"
	"github.com/sandevgo/taleforge/internal/service/memory"
	"github.com/sandevgo/taleforge/internal/service/prompt"
	"github.com/sandevgo/taleforge/pkg/log"
)

var ErrNotConfigured = errors.New("turn orchestrator not configured")

type Generator interface {
	Generate(ctx context.Context, messages []core.Message) llm.Outcome
}

// Path names the terminal branch a turn took, for logs.
type Path string

const (
	PathCacheHit Path = "cache_hit"
	PathProvider Path = "provider"
	PathFallback Path = "fallback"
)

type Orchestrator struct {
	builder   *prompt.Builder
	generator Generator
	cache     core.ResponseCache
}

func New(builder *prompt.Builder, generator Generator, cache core.ResponseCache) (*Orchestrator, error) {
	switch {
	case builder == nil:
		return nil, errors.Join(ErrNotConfigured, errors.New("prompt builder is nil"))
	case generator == nil:
		return nil, errors.Join(ErrNotConfigured, errors.New("generator is nil"))
	case cache == nil:
		return nil, errors.Join(ErrNotConfigured, errors.New("response cache is nil"))
	}
	return &Orchestrator{builder: builder, generator: generator, cache: cache}, nil
}

// Play runs one turn. Provider failures never surface as errors: they yield
// a degraded fallback result. The only error is a misconfigured orchestrator.
func (o *Orchestrator) Play(ctx context.Context, req core.TurnRequest) (core.TurnResult, error) {
	if o == nil || o.builder == nil || o.generator == nil || o.cache == nil {
		return core.TurnResult{}, ErrNotConfigured
	}

	logger := log.FromCtx(ctx)
	settings := req.Settings.WithDefaults()
	episode := core.EpisodeNumber(len(req.History))
	analysis := decision.Analyze(req.Action, req.History)

	messages := o.builder.Build(prompt.Input{
		Settings:  settings,
		Memory:    req.Memory,
		History:   req.History,
		Action:    req.Action,
		Analysis:  analysis,
		FirstTurn: len(req.History) == 0,
	})
	key := cache.ComputeKey(messages)

	logger.Debug().
		Int("episode", episode).
		Int("messages", len(messages)).
		Int("tokens", prompt.CountTokens(messages)).
		Str("tone", string(analysis.EmotionalTone)).
		Bool("major", analysis.IsMajorChoice).
		Msg("prompt built")

	if cached, ok := o.cache.Get(ctx, key); ok {
		cached.Episode = episode
		cached.Decision = &analysis
		cached.Cached = true
		mem := o.remember(req, episode, analysis, cached.Text, cached.Characters, cached.Status)
		cached.Memory = &mem
		logTurn(ctx, PathCacheHit, episode, cached)
		return cached, nil
	}

	outcome := o.generator.Generate(ctx, messages)
	if outcome.Exhausted() {
		mem := req.Memory.Clone()
		result := core.TurnResult{
			Text:       FallbackText(settings, req.History),
			Characters: []core.CharacterRecord{},
			Episode:    episode,
			Decision:   &analysis,
			Memory:     &mem,
			Degraded:   true,
		}
		logger.Warn().Err(outcome.Err).Int("attempts", len(outcome.Attempts)).Msg("narrator unavailable, using fallback")
		logTurn(ctx, PathFallback, episode, result)
		return result, nil
	}

	result := core.TurnResult{
		Text:       outcome.Text,
		Characters: extract.Characters(outcome.Text),
		Episode:    episode,
		Decision:   &analysis,
		Provider:   outcome.Provider,
	}
	if block, story, ok := extract.StatusBlock(outcome.Text); ok {
		result.Text = story
		result.Status = &block
	}
	mem := o.remember(req, episode, analysis, result.Text, result.Characters, result.Status)
	result.Memory = &mem

	o.cache.Put(ctx, key, result)
	logTurn(ctx, PathProvider, episode, result)
	return result, nil
}

func (o *Orchestrator) remember(
	req core.TurnRequest,
	episode int,
	analysis core.DecisionAnalysis,
	text string,
	characters []core.CharacterRecord,
	status *core.StatusBlock,
) core.NarrativeMemory {
	return memory.Apply(req.Memory, memory.TurnFacts{
		Turn:       episode,
		Analysis:   analysis,
		Reply:      text,
		Characters: characters,
		Status:     status,
	})
}

func logTurn(ctx context.Context, path Path, episode int, r core.TurnResult) {
	log.FromCtx(ctx).Info().
		Str("path", string(path)).
		Int("episode", episode).
		Int("characters", len(r.Characters)).
		Int("length", len(r.Text)).
		Str("provider", r.Provider).
		Msg("turn complete")
}
