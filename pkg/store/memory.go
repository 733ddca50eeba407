package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps snapshots in a map.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, s Snapshot) (Snapshot, error) {
	s = prepare(s)
	m.mu.Lock()
	m.snapshots[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return s, nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context, repo string, limit int) ([]Snapshot, error) {
	m.mu.RLock()
	out := make([]Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		if repo == "" || s.Repo == repo {
			out = append(out, s)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Snapshot) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snapshots[id]; !ok {
		return ErrNotFound
	}
	delete(m.snapshots, id)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
