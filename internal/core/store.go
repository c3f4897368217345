package core

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps rosters in process memory. Rosters are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	rosters map[string]*Roster
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rosters: make(map[string]*Roster)}
}

func (m *MemoryStore) Save(_ context.Context, r *Roster) error {
	stored := *r
	m.mu.Lock()
	m.rosters[r.ID] = &stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Roster, error) {
	m.mu.RLock()
	r, ok := m.rosters[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrRosterNotFound
	}
	out := *r
	return &out, nil
}

func (m *MemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for id, r := range m.rosters {
		if r.CreatedAt.Before(cutoff) {
			delete(m.rosters, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored rosters.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rosters)
}
