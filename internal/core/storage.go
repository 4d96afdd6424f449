package core

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is a persisted game.
type Session struct {
	ID        string          `json:"id"`
	Settings  GameSettings    `json:"settings"`
	Memory    NarrativeMemory `json:"memory"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type SessionRepository interface {
	GetSession(ctx context.Context, id string) (Session, error)
	SaveSession(ctx context.Context, s Session) error
	DeleteSession(ctx context.Context, id string) error
	AppendEntries(ctx context.Context, sessionID string, entries ...HistoryEntry) error
	GetHistory(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error)
}
