package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/pkg/clock"
	"github.com/sandevgo/taleforge/pkg/log"
)

type entry struct {
	value      core.TurnResult
	insertedAt time.Time
}

// Memory is an in-process TTL cache. Expired entries are dropped lazily on
// lookup and in bulk when the entry count exceeds capacity. Live entries are
// never evicted, so the cache can stay above capacity until they expire.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	capacity int
	clock    clock.Clock
}

func NewMemory(ttl time.Duration, capacity int, clk clock.Clock) *Memory {
	if clk == nil {
		clk = clock.New()
	}
	return &Memory{
		entries:  make(map[string]entry),
		ttl:      ttl,
		capacity: capacity,
		clock:    clk,
	}
}

func (m *Memory) expired(e entry, now time.Time) bool {
	return now.Sub(e.insertedAt) >= m.ttl
}

func (m *Memory) Get(ctx context.Context, key string) (core.TurnResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return core.TurnResult{}, false
	}
	if m.expired(e, m.clock.Now()) {
		delete(m.entries, key)
		return core.TurnResult{}, false
	}
	return cloneResult(e.value), true
}

func (m *Memory) Put(ctx context.Context, key string, value core.TurnResult) {
	m.mu.Lock()
	m.entries[key] = entry{value: cloneResult(value), insertedAt: m.clock.Now()}
	over := len(m.entries) > m.capacity
	m.mu.Unlock()

	if over {
		if removed := m.Sweep(ctx); removed > 0 {
			log.FromCtx(ctx).Debug().Int("removed", removed).Msg("cache sweep")
		}
	}
}

// Sweep removes every expired entry and reports how many were dropped.
func (m *Memory) Sweep(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	removed := 0
	for k, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func cloneResult(r core.TurnResult) core.TurnResult {
	r.Characters = append([]core.CharacterRecord(nil), r.Characters...)
	if r.Decision != nil {
		d := *r.Decision
		r.Decision = &d
	}
	if r.Memory != nil {
		m := r.Memory.Clone()
		r.Memory = &m
	}
	if r.Status != nil {
		s := *r.Status
		r.Status = &s
	}
	return r
}
