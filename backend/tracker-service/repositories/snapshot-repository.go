package repositories

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load when nothing was saved under the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is a key-value blob store holding full-state snapshots.
// Save always overwrites the previous value.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close(ctx context.Context) error
}
