package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps players in process memory. All balance changes happen
// under one mutex, which gives the same no-lost-update guarantee as the
// conditional UPDATE in Store.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[string]*Player
	entries map[string][]BalanceEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[string]*Player),
		entries: make(map[string][]BalanceEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() {}

func (m *MemoryStore) GetPlayer(_ context.Context, id string) (*Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) GetOrCreatePlayer(_ context.Context, id, name string) (*Player, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.players[id]; ok {
		cp := *p
		return &cp, false, nil
	}
	p := m.insertLocked(id, name, 0)
	cp := *p
	return &cp, true, nil
}

func (m *MemoryStore) EnsurePlayer(_ context.Context, id, name string, initialCents int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[id]; ok {
		return false, nil
	}
	m.insertLocked(id, name, initialCents)
	return true, nil
}

func (m *MemoryStore) AdjustBalance(_ context.Context, playerID string, adj Adjustment) (*BalanceEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	next := p.BalanceCents + adj.DeltaCents
	if (adj.DeltaCents > 0 && next < p.BalanceCents) || (adj.DeltaCents < 0 && next > p.BalanceCents) {
		return nil, ErrBalanceOverflow
	}
	if !adj.AllowNegative && next < 0 {
		return nil, ErrInsufficientBalance
	}
	now := m.now()
	p.BalanceCents = next
	p.UpdatedAt = now

	entry := BalanceEntry{
		ID:                NewEntryID(),
		PlayerID:          playerID,
		Action:            adj.Action,
		AmountCents:       adj.amountCents(),
		BalanceAfterCents: next,
		CreatedAt:         now,
	}
	m.entries[playerID] = append(m.entries[playerID], entry)
	return &entry, nil
}

func (m *MemoryStore) ListBalanceEntries(_ context.Context, playerID string, limit, offset int) ([]BalanceEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.RLock()
	all := append([]BalanceEntry(nil), m.entries[playerID]...)
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []BalanceEntry{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemoryStore) insertLocked(id, name string, balance int64) *Player {
	now := m.now()
	p := &Player{ID: id, Name: name, BalanceCents: balance, CreatedAt: now, UpdatedAt: now}
	m.players[id] = p
	return p
}
