package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/log"
)

type SessionsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db, now: time.Now}
}

func (r *SessionsRepo) GetSession(ctx context.Context, id string) (core.Session, error) {
	query := `SELECT id, settings, memory, created_at, updated_at FROM sessions WHERE id = ?`

	var (
		s                core.Session
		settings, memory string
		created, updated time.Time
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &settings, &memory, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Session{}, core.ErrSessionNotFound
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("failed to query session: %w", err)
	}

	if err := json.Unmarshal([]byte(settings), &s.Settings); err != nil {
		return core.Session{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := json.Unmarshal([]byte(memory), &s.Memory); err != nil {
		return core.Session{}, fmt.Errorf("failed to unmarshal memory: %w", err)
	}
	if s.Memory.CharacterRelationships == nil {
		s.Memory.CharacterRelationships = map[string]int{}
	}
	s.CreatedAt, s.UpdatedAt = created.UTC(), updated.UTC()

	return s, nil
}

// SaveSession inserts or replaces the session row. History entries are kept.
func (r *SessionsRepo) SaveSession(ctx context.Context, s core.Session) error {
	settings, err := json.Marshal(s.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	memory, err := json.Marshal(s.Memory)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	now := r.now().UTC()
	created := s.CreatedAt
	if created.IsZero() {
		created = now
	}

	query := `INSERT INTO sessions (id, settings, memory, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET settings = excluded.settings, memory = excluded.memory, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, s.ID, string(settings), string(memory), created, now); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionsRepo) DeleteSession(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return tx.Commit()
}

func (r *SessionsRepo) AppendEntries(ctx context.Context, sessionID string, entries ...core.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (session_id, type, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, sessionID, e.Type, e.Content); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, r.now().UTC(), sessionID); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return tx.Commit()
}

// GetHistory returns the last limit entries in chronological order.
// A limit of zero or less returns the full history.
func (r *SessionsRepo) GetHistory(ctx context.Context, sessionID string, limit int) ([]core.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `SELECT type, content FROM entries WHERE session_id = ? ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []core.HistoryEntry{}
	for rows.Next() {
		var e core.HistoryEntry
		if err := rows.Scan(&e.Type, &e.Content); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest first from the query; flip back to chronological order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(entries)).Str("session", sessionID).Msg("loaded history")
	return entries, nil
}
