package sqlite

import (
	"github.com/fr0stylo/stockwatch/internal/app/ports"
	"github.com/fr0stylo/stockwatch/internal/db"
)

// Stores bundles the sqlite adapters that share one database handle.
// It is the ingestion store factory: opened stores never close the handle.
type Stores struct {
	database  *db.Database
	snapshots *SnapshotStore
	feed      *FeedStore
}

func NewStores(database *db.Database) *Stores {
	return &Stores{
		database:  database,
		snapshots: NewSnapshotStore(database),
		feed:      NewFeedStore(database),
	}
}

func (s *Stores) Snapshots() *SnapshotStore {
	return s.snapshots
}

func (s *Stores) Feed() *FeedStore {
	return s.feed
}

// Open returns a request-scoped ingestion store.
func (s *Stores) Open() (ports.IngestionStore, error) {
	return newIngestionStore(s.database), nil
}

var _ ports.IngestionStoreFactory = (*Stores)(nil)
