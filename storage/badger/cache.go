// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/foundit/core"
	"github.com/poiesic/foundit/storage"
)

// IndexCache implements storage.IndexCache on a BadgerDB backend.
type IndexCache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.IndexCache = (*IndexCache)(nil)

// NewIndexCache creates an index cache on the given backend.
func NewIndexCache(backend *Backend) (*IndexCache, error) {
	if backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &IndexCache{
		backend: backend,
		logger:  slog.Default().With("component", "index-cache"),
	}, nil
}

// Save replaces the cached snapshot. Documents and vectors go through a
// write batch (a snapshot can exceed transaction size limits); the info
// record is written last so a torn save never loads as a valid snapshot.
func (c *IndexCache) Save(ctx context.Context, snapshot *storage.IndexSnapshot) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(snapshot.Documents) != len(snapshot.Vectors) {
		return storage.ErrCorruptSnapshot
	}

	if err := c.Clear(ctx); err != nil {
		return err
	}

	batch := c.backend.NewWriteBatch()
	defer batch.Cancel()

	for i := range snapshot.Documents {
		if err := batch.Set(makeDocKey(i), storage.MarshalDocument(&snapshot.Documents[i])); err != nil {
			return err
		}
		if err := batch.Set(makeVectorKey(i), storage.MarshalVector(snapshot.Vectors[i])); err != nil {
			return err
		}
	}
	if err := batch.Flush(); err != nil {
		return err
	}

	info := snapshot.Info
	info.DocumentCount = len(snapshot.Documents)
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(indexInfoKey), storage.MarshalIndexInfo(&info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	c.logger.Debug("snapshot saved",
		"documents", len(snapshot.Documents),
		"model", info.Model,
		"dimensions", info.Dimensions)
	return nil
}

// Load returns the cached snapshot.
func (c *IndexCache) Load(ctx context.Context) (*storage.IndexSnapshot, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var snapshot storage.IndexSnapshot

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(indexInfoKey))
		if err == badger.ErrKeyNotFound {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}

		var info *core.IndexInfo
		if err := item.Value(func(val []byte) error {
			info, err = storage.UnmarshalIndexInfo(val)
			return err
		}); err != nil {
			return err
		}
		snapshot.Info = *info

		snapshot.Documents = make([]core.Document, 0, info.DocumentCount)
		if err := iteratePrefix(tx, indexDocPrefix, func(val []byte) error {
			doc, err := storage.UnmarshalDocument(val)
			if err != nil {
				return err
			}
			snapshot.Documents = append(snapshot.Documents, *doc)
			return nil
		}); err != nil {
			return err
		}

		snapshot.Vectors = make([][]float32, 0, info.DocumentCount)
		return iteratePrefix(tx, indexVectorPrefix, func(val []byte) error {
			vector, err := storage.UnmarshalVector(val)
			if err != nil {
				return err
			}
			snapshot.Vectors = append(snapshot.Vectors, vector)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	if len(snapshot.Documents) != snapshot.Info.DocumentCount ||
		len(snapshot.Vectors) != snapshot.Info.DocumentCount {
		c.logger.Warn("cached snapshot is inconsistent",
			"expected", snapshot.Info.DocumentCount,
			"documents", len(snapshot.Documents),
			"vectors", len(snapshot.Vectors))
		return nil, storage.ErrCorruptSnapshot
	}

	return &snapshot, nil
}

// Clear removes the cached snapshot.
func (c *IndexCache) Clear(ctx context.Context) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return c.backend.DropPrefix(
		[]byte(indexInfoKey),
		[]byte(indexDocPrefix),
		[]byte(indexVectorPrefix),
	)
}

// Close releases the cache. The shared backend is closed by its owner.
func (c *IndexCache) Close() error {
	return nil
}

// iteratePrefix visits values for all keys under prefix in key order.
func iteratePrefix(tx *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix + ":")
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := iter.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
