package recommend

import "github.com/scentlab/fragrec/internal/catalog"

// SnapshotProvider supplies the current catalog snapshot. Requests read
// the snapshot once up front and work against that view for their whole
// lifetime, even across a concurrent reload.
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}
