package memory

import (
	"context"
	"sync"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
)

// SnapshotStore keeps inventory snapshots in process memory.
type SnapshotStore struct {
	mu sync.RWMutex
	m  map[string]domain.InventorySnapshot
}

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{m: make(map[string]domain.InventorySnapshot)}
}

func (s *SnapshotStore) Get(_ context.Context, key domain.SnapshotKey) (domain.InventorySnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.m[key.String()]
	return snapshot, ok, nil
}

func (s *SnapshotStore) Upsert(_ context.Context, snapshot domain.InventorySnapshot) error {
	snapshot = snapshot.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[snapshot.ID] = snapshot
	return nil
}

func (s *SnapshotStore) GetAll(_ context.Context) ([]domain.InventorySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.InventorySnapshot, 0, len(s.m))
	for _, snapshot := range s.m {
		out = append(out, snapshot)
	}
	return out, nil
}

func (s *SnapshotStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string]domain.InventorySnapshot)
	return nil
}

// Len reports the number of stored snapshots.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)
