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


package search

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/foundit/ai"
	"github.com/poiesic/foundit/core"
	"github.com/poiesic/foundit/storage"
)

const (
	// embedBatchSize limits how many enriched texts go to the embedder per
	// call during an index build.
	embedBatchSize = 32

	// cacheContentLimit caps per-document content bytes in the persisted
	// snapshot. The index only needs content at build time; the cache keeps
	// enough for previews and readback without ballooning.
	cacheContentLimit = 5000

	// Embedding batches are retried; local embedding daemons drop the
	// occasional request under load.
	embedMaxAttempts = 3
	embedRetryDelay  = 500 * time.Millisecond
)

// Engine builds and queries the semantic vector index.
// Build and query methods are safe for concurrent use; a build blocks
// queries until it completes.
type Engine struct {
	embedder ai.Embedder
	cache    storage.IndexCache
	model    string
	logger   *slog.Logger

	mu        sync.RWMutex
	documents []core.Document
	vectors   [][]float32
	info      core.IndexInfo
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithCache sets a persistent index cache. Without one, every start
// re-embeds the corpus.
func WithCache(cache storage.IndexCache) Option {
	return func(e *Engine) error {
		e.cache = cache
		return nil
	}
}

// WithModelName records the embedding model identifier in the index info.
func WithModelName(model string) Option {
	return func(e *Engine) error {
		e.model = model
		return nil
	}
}

// New creates a search engine backed by the given embedder.
func New(embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		embedder: embedder,
		logger:   slog.Default().With("component", "search-engine"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// BuildIndex classifies and embeds all documents, replacing any previous
// index. When a cache is configured the new index is persisted with
// content truncated.
func (e *Engine) BuildIndex(ctx context.Context, documents []core.Document) error {
	if len(documents) == 0 {
		return ErrNoDocuments
	}

	e.logger.Info("building index", "documents", len(documents))

	docs := make([]core.Document, len(documents))
	copy(docs, documents)

	texts := make([]string, len(docs))
	for i := range docs {
		docs[i].DocType = Classify(docs[i].Content)
		texts[i] = enrichedText(&docs[i])
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		var batch [][]float32
		chunk := texts[start:end]
		err := retryWithBackoff(ctx, func() error {
			var embedErr error
			batch, embedErr = e.embedder.EmbedTexts(ctx, chunk)
			return embedErr
		}, embedMaxAttempts, embedRetryDelay)
		if err != nil {
			e.logger.Error("error embedding batch", "start", start, "err", err)
			return err
		}
		vectors = append(vectors, batch...)
	}
	for _, v := range vectors {
		normalizeL2(v)
	}

	dimensions := 0
	if len(vectors) > 0 {
		dimensions = len(vectors[0])
	}
	info := core.IndexInfo{
		Model:         e.model,
		Dimensions:    dimensions,
		DocumentCount: len(docs),
		BuiltAt:       time.Now().UTC(),
	}

	e.mu.Lock()
	e.documents = docs
	e.vectors = vectors
	e.info = info
	e.mu.Unlock()

	if e.cache != nil {
		if err := e.saveToCache(ctx); err != nil {
			e.logger.Error("error caching index", "err", err)
		}
	}

	e.logger.Info("index built", "documents", len(docs), "dimensions", dimensions)
	return nil
}

// Load restores the index from the cache, skipping re-embedding.
// Returns storage.ErrNotFound when no usable snapshot exists.
func (e *Engine) Load(ctx context.Context) error {
	if e.cache == nil {
		return storage.ErrNotFound
	}

	snapshot, err := e.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			e.logger.Warn("error loading cached index", "err", err)
		}
		return err
	}

	e.mu.Lock()
	e.documents = snapshot.Documents
	e.vectors = snapshot.Vectors
	e.info = snapshot.Info
	e.mu.Unlock()

	e.logger.Info("index restored from cache",
		"documents", snapshot.Info.DocumentCount,
		"built_at", snapshot.Info.BuiltAt)
	return nil
}

// Search retrieves the topK most relevant documents for the query.
// Returned candidates carry metadata and score breakdowns, never content.
func (e *Engine) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	if topK <= 0 {
		topK = 10
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.vectors) == 0 {
		return nil, ErrIndexNotBuilt
	}

	queryVector, err := e.embedder.EmbedText(ctx, expandQuery(query))
	if err != nil {
		return nil, err
	}
	normalizeL2(queryVector)

	searchK := topK * 3
	if searchK > len(e.documents) {
		searchK = len(e.documents)
	}
	nearest := e.nearestLocked(queryVector, searchK)

	queryLower := strings.ToLower(query)
	queryTerms := strings.Fields(queryLower)
	intent := DetectIntent(query)

	candidates := make([]core.Candidate, 0, len(nearest))
	for _, hit := range nearest {
		doc := &e.documents[hit.index]

		semantic := float64(hit.score)
		fnBoost := filenameBoost(queryLower, queryTerms, doc.FileName)
		typeBoost := docTypeBoost(intent, doc.DocType)

		final := semantic + fnBoost + typeBoost
		if final < 0 {
			final = 0
		}
		if final > 1 {
			final = 1
		}

		candidates = append(candidates, core.Candidate{
			FilePath:      doc.FilePath,
			FileName:      doc.FileName,
			FileType:      doc.FileType,
			Preview:       doc.Preview,
			DocType:       doc.DocType,
			IndexedAt:     doc.IndexedAt,
			Score:         final,
			SemanticScore: semantic,
			FilenameBoost: fnBoost,
			DocTypeBoost:  typeBoost,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// Ready reports whether the index can serve queries.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.vectors) > 0
}

// Count returns the number of indexed documents.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.documents)
}

// Info returns metadata about the current index.
func (e *Engine) Info() core.IndexInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.info
}

// Lookup returns the indexed document for a file name, or nil.
// The returned copy includes content as held by the index (possibly
// truncated when restored from cache).
func (e *Engine) Lookup(fileName string) *core.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for i := range e.documents {
		if e.documents[i].FileName == fileName {
			doc := e.documents[i]
			return &doc
		}
	}
	return nil
}

// Clear drops the in-memory index and the cached snapshot.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	e.documents = nil
	e.vectors = nil
	e.info = core.IndexInfo{}
	e.mu.Unlock()

	e.logger.Info("search index cleared")

	if e.cache != nil {
		return e.cache.Clear(ctx)
	}
	return nil
}

type scoredIndex struct {
	index int
	score float32
}

// nearestLocked returns the k best documents by inner product.
// Caller must hold at least a read lock.
func (e *Engine) nearestLocked(queryVector []float32, k int) []scoredIndex {
	scored := make([]scoredIndex, len(e.vectors))
	for i, v := range e.vectors {
		scored[i] = scoredIndex{index: i, score: dotProduct(queryVector, v)}
	}
	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func (e *Engine) saveToCache(ctx context.Context) error {
	e.mu.RLock()
	snapshot := &storage.IndexSnapshot{
		Info:      e.info,
		Documents: make([]core.Document, len(e.documents)),
		Vectors:   e.vectors,
	}
	copy(snapshot.Documents, e.documents)
	e.mu.RUnlock()

	for i := range snapshot.Documents {
		if len(snapshot.Documents[i].Content) > cacheContentLimit {
			snapshot.Documents[i].Content = snapshot.Documents[i].Content[:cacheContentLimit]
		}
	}
	return e.cache.Save(ctx, snapshot)
}

// enrichedText combines the classified label with filename, type, and
// content so embeddings capture identity as well as substance.
func enrichedText(doc *core.Document) string {
	var b strings.Builder
	b.WriteString("Category: ")
	b.WriteString(doc.DocType)
	b.WriteString(". Filename: ")
	b.WriteString(doc.FileName)
	b.WriteString(". Type: ")
	b.WriteString(doc.FileType)
	b.WriteString(". Content: ")
	b.WriteString(doc.Content)
	return b.String()
}

// filenameBoost rewards lexical filename matches: the full query as a
// substring earns 0.3, any single term 0.15.
func filenameBoost(queryLower string, queryTerms []string, fileName string) float64 {
	name := strings.ToLower(fileName)
	if strings.Contains(name, queryLower) {
		return 0.3
	}
	for _, term := range queryTerms {
		if strings.Contains(name, term) {
			return 0.15
		}
	}
	return 0
}
