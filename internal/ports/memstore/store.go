// Package memstore keeps scorecard snapshots in process memory.
package memstore

import (
	"context"
	"sync"

	"ohhell/internal/ports"
)

// Store is a concurrency-safe in-memory GameStore.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func New() *Store {
	return &Store{snapshots: make(map[string][]byte)}
}

func (s *Store) Load(ctx context.Context, ownerID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.snapshots[ownerID]
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) Save(ctx context.Context, ownerID string, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[ownerID] = append([]byte(nil), snapshot...)
	return nil
}

func (s *Store) Delete(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, ownerID)
	return nil
}

var _ ports.GameStore = (*Store)(nil)
