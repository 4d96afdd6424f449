package core

import "context"

type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}

// GameService is the per-chat game surface commands operate on.
type GameService interface {
	Start(ctx context.Context, sessionID string, settings GameSettings) (Session, error)
	Play(ctx context.Context, sessionID, action string) (TurnResult, error)
	Update(ctx context.Context, sessionID string, fn func(*GameSettings)) (GameSettings, error)
	Memory(ctx context.Context, sessionID string) (NarrativeMemory, error)
	Reset(ctx context.Context, sessionID string) error
}
