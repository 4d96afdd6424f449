// Package session keeps per-game state between turns and drives the
// orchestrator for transports that do not own history themselves.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/log"
)

const openerAction = "Begin the story in the setting: %s"

var ErrEmptyAction = errors.New("action is empty")

type Player interface {
	Play(ctx context.Context, req core.TurnRequest) (core.TurnResult, error)
}

type Service struct {
	repo   core.SessionRepository
	player Player

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is dropped from the map once nobody holds or waits for it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(repo core.SessionRepository, player Player) *Service {
	return &Service{
		repo:   repo,
		player: player,
		locks:  make(map[string]*sessionLock),
	}
}

// lock serializes operations on one game; different games run in parallel.
func (s *Service) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// Start begins a new game, discarding any previous one under the same id.
func (s *Service) Start(ctx context.Context, id string, settings core.GameSettings) (core.Session, error) {
	defer s.lock(id)()

	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return core.Session{}, fmt.Errorf("failed to clear session: %w", err)
	}

	sess := core.Session{
		ID:       id,
		Settings: settings.WithDefaults(),
		Memory:   core.NarrativeMemory{CharacterRelationships: map[string]int{}},
	}
	if err := s.repo.SaveSession(ctx, sess); err != nil {
		return core.Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	log.FromCtx(ctx).Info().Str("session", id).Str("setting", sess.Settings.Setting).Msg("game started")
	return sess, nil
}

// Play runs one turn of the game. A missing game is started with default
// settings. An empty action on a fresh game opens the story.
func (s *Service) Play(ctx context.Context, id, action string) (core.TurnResult, error) {
	defer s.lock(id)()
	logger := log.FromCtx(ctx)

	sess, err := s.load(ctx, id)
	if err != nil {
		return core.TurnResult{}, err
	}

	history, err := s.repo.GetHistory(ctx, id, 0)
	if err != nil {
		return core.TurnResult{}, fmt.Errorf("failed to load history: %w", err)
	}

	action = strings.TrimSpace(action)
	if action == "" {
		if len(history) > 0 {
			return core.TurnResult{}, ErrEmptyAction
		}
		action = fmt.Sprintf(openerAction, sess.Settings.Setting)
	}

	result, err := s.player.Play(ctx, core.TurnRequest{
		Action:   action,
		Settings: sess.Settings,
		History:  history,
		Memory:   sess.Memory,
	})
	if err != nil {
		return core.TurnResult{}, fmt.Errorf("turn failed: %w", err)
	}

	// Degraded replies are shown but not persisted, so the turn can be replayed.
	if result.Degraded {
		logger.Warn().Str("session", id).Msg("degraded turn not persisted")
		return result, nil
	}

	if err := s.repo.AppendEntries(ctx, id, core.UserEntry(action), core.AssistantEntry(result.Text)); err != nil {
		return core.TurnResult{}, fmt.Errorf("failed to save turn: %w", err)
	}
	if result.Memory != nil {
		sess.Memory = *result.Memory
	}
	if err := s.repo.SaveSession(ctx, sess); err != nil {
		return core.TurnResult{}, fmt.Errorf("failed to save memory: %w", err)
	}

	return result, nil
}

// Update applies fn to the game settings and stores them.
func (s *Service) Update(ctx context.Context, id string, fn func(*core.GameSettings)) (core.GameSettings, error) {
	defer s.lock(id)()

	sess, err := s.load(ctx, id)
	if err != nil {
		return core.GameSettings{}, err
	}
	fn(&sess.Settings)
	sess.Settings = sess.Settings.WithDefaults()

	if err := s.repo.SaveSession(ctx, sess); err != nil {
		return core.GameSettings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return sess.Settings, nil
}

func (s *Service) Memory(ctx context.Context, id string) (core.NarrativeMemory, error) {
	defer s.lock(id)()

	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return core.NarrativeMemory{}, err
	}
	return sess.Memory, nil
}

func (s *Service) Settings(ctx context.Context, id string) (core.GameSettings, error) {
	defer s.lock(id)()

	sess, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return core.GameSettings{}, err
	}
	return sess.Settings, nil
}

// Reset drops the game with its history and memory.
func (s *Service) Reset(ctx context.Context, id string) error {
	defer s.lock(id)()

	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	log.FromCtx(ctx).Info().Str("session", id).Msg("game reset")
	return nil
}

func (s *Service) load(ctx context.Context, id string) (core.Session, error) {
	sess, err := s.repo.GetSession(ctx, id)
	if errors.Is(err, core.ErrSessionNotFound) {
		sess = core.Session{
			ID:       id,
			Settings: core.GameSettings{}.WithDefaults(),
			Memory:   core.NarrativeMemory{CharacterRelationships: map[string]int{}},
		}
		if err := s.repo.SaveSession(ctx, sess); err != nil {
			return core.Session{}, fmt.Errorf("failed to create session: %w", err)
		}
		return sess, nil
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}
