package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
)

// SnapshotStore persists inventory snapshots in sqlite.
type SnapshotStore struct {
	db snapshotDatabase
}

// NewSnapshotStore wraps a database handle.
func NewSnapshotStore(database snapshotDatabase) *SnapshotStore {
	return &SnapshotStore{db: database}
}

func (s *SnapshotStore) Get(ctx context.Context, key domain.SnapshotKey) (domain.InventorySnapshot, bool, error) {
	row, err := s.db.GetInventorySnapshot(ctx, key.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InventorySnapshot{}, false, nil
		}
		return domain.InventorySnapshot{}, false, err
	}
	return snapshotFromRow(row), true, nil
}

func (s *SnapshotStore) Upsert(ctx context.Context, snapshot domain.InventorySnapshot) error {
	return s.db.UpsertInventorySnapshot(ctx, snapshotToRow(snapshot.Normalize()))
}

func (s *SnapshotStore) GetAll(ctx context.Context) ([]domain.InventorySnapshot, error) {
	rows, err := s.db.ListInventorySnapshots(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.InventorySnapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotFromRow(row))
	}
	return out, nil
}

func (s *SnapshotStore) Clear(ctx context.Context) error {
	return s.db.ClearInventorySnapshots(ctx)
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)
