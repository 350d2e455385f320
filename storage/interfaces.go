package storage

import (
	"context"

	"github.com/poiesic/foundit/core"
)

// IndexSnapshot is the persisted form of a built search index.
// Vectors is parallel to Documents: Vectors[i] is the embedding of
// Documents[i].
type IndexSnapshot struct {
	Info      core.IndexInfo
	Documents []core.Document
	Vectors   [][]float32
}

// IndexCache persists one index snapshot across restarts.
// Implementations must be thread-safe for concurrent use.
type IndexCache interface {
	// Save replaces the cached snapshot.
	Save(ctx context.Context, snapshot *IndexSnapshot) error

	// Load returns the cached snapshot.
	// Returns ErrNotFound when no snapshot has been saved, and
	// ErrCorruptSnapshot when the stored data is inconsistent.
	Load(ctx context.Context) (*IndexSnapshot, error)

	// Clear removes the cached snapshot. Clearing an empty cache is a no-op.
	Clear(ctx context.Context) error

	// Close releases resources held by the cache.
	Close() error
}
