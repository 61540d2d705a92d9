package repository

import "context"

// SnapshotRepository archives raw fetched page content before extraction.
// Snapshot failures are never fatal to an item.
type SnapshotRepository interface {
	// Save stores one content snapshot under the given object name.
	Save(ctx context.Context, objectName, content string) error
}
