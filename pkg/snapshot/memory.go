package snapshot

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Snapshot)}
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, name string, html []byte, meta map[string]string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	snap := &Snapshot{
		Name:        name,
		HTML:        append([]byte(nil), html...),
		ContentType: ContentType,
		Metadata:    copyMeta(meta),
	}
	s.mu.Lock()
	s.items[name] = snap
	s.mu.Unlock()
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, name string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.items[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	out := *snap
	out.HTML = append([]byte(nil), snap.HTML...)
	out.Metadata = copyMeta(snap.Metadata)
	return &out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	delete(s.items, name)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored snapshots.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
