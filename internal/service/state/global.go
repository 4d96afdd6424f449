// Package state holds process-wide mutable settings shared by all games.
package state

import (
	"context"
	"strings"

	"github.com/sandevgo/taleforge/pkg/log"
)

type provider interface {
	SetModel(ctx context.Context, model string) error
}

type GlobalState struct {
	provider provider
}

func NewGlobalState(
	provider provider,
) *GlobalState {
	return &GlobalState{
		provider: provider,
	}
}

// ChangeModel switches the narrator model for every game. Cached replies of
// the previous model keep being served until they expire.
func (s *GlobalState) ChangeModel(ctx context.Context, model string) error {
	model = strings.TrimSpace(model)
	if err := s.provider.SetModel(ctx, model); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("model", model).Msg("model change rejected")
		return err
	}
	return nil
}
