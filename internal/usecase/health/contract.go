package health

import (
	"context"

	"github.com/scentlab/fragrec/internal/catalog"
)

// SnapshotProvider supplies the current catalog snapshot.
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}

// CachePinger checks explanation cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ExplainerChecker reports explanation provider availability.
type ExplainerChecker interface {
	IsAvailable() bool
}
