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


package foundit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/poiesic/foundit/ai"
	"github.com/poiesic/foundit/ai/anthropic"
	"github.com/poiesic/foundit/ai/ollama"
	"github.com/poiesic/foundit/ai/openai"
	"github.com/poiesic/foundit/core"
	"github.com/poiesic/foundit/indexer"
	"github.com/poiesic/foundit/parser"
	"github.com/poiesic/foundit/rag"
	"github.com/poiesic/foundit/search"
	"github.com/poiesic/foundit/storage"
	badgerstore "github.com/poiesic/foundit/storage/badger"
)

// indexCacheFile is the badger directory name under the data dir.
const indexCacheFile = "index_cache"

// App wires the indexer, search engine, and conversational layer into
// one unit owning the data directory. Construct with New, release with
// Close.
type App struct {
	dataDir string
	parser  *parser.Parser
	indexer *indexer.Indexer
	backend *badgerstore.Backend
	engine  *search.Engine
	rag     *rag.Engine
	llm     ai.LLM
	logger  *slog.Logger
}

// Status summarises the application state for UIs.
type Status struct {
	IndexedFiles   int
	IndexReady     bool
	EmbeddingModel string
	Provider       string // active LLM backend, or "" when degraded
	ScanActive     bool
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig  *ai.Config
	logger    *slog.Logger
	llm       ai.LLM
	llmSet    bool
	embedder  ai.Embedder
	inMemory  bool
	ragOption []rag.Option
}

// WithAIConfig sets the provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLLM injects a language model, bypassing provider probing.
// Passing nil explicitly selects degraded mode.
func WithLLM(llm ai.LLM) AppOption {
	return func(o *appOptions) {
		o.llm = llm
		o.llmSet = true
	}
}

// WithEmbedder injects an embedder, bypassing provider construction.
func WithEmbedder(embedder ai.Embedder) AppOption {
	return func(o *appOptions) {
		o.embedder = embedder
	}
}

// WithInMemoryStorage keeps the index cache off disk.
func WithInMemoryStorage() AppOption {
	return func(o *appOptions) {
		o.inMemory = true
	}
}

// WithRAGOptions forwards options to the conversational engine.
func WithRAGOptions(opts ...rag.Option) AppOption {
	return func(o *appOptions) {
		o.ragOption = append(o.ragOption, opts...)
	}
}

// New creates the application rooted at dataDir. The LLM is chosen by
// probing providers in order ollama, openai, anthropic; when none
// responds the app still works with deterministic fallbacks. A cached
// search index, if present, is restored without re-embedding.
func New(ctx context.Context, dataDir string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	config := options.aiConfig
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ai config: %w", err)
	}

	logger := options.logger
	p := parser.New(parser.WithLogger(logger))

	ix, err := indexer.New(dataDir, p, indexer.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	backend, err := badgerstore.OpenBackend(filepath.Join(dataDir, indexCacheFile), options.inMemory)
	if err != nil {
		return nil, err
	}
	cache, err := badgerstore.NewIndexCache(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = ollama.NewEmbedder(config)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	llm := options.llm
	if !options.llmSet {
		llm = pickLLM(ctx, config, logger)
	}

	engine, err := search.New(embedder,
		search.WithCache(cache),
		search.WithModelName(config.EmbeddingModel),
		search.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	ragOpts := append([]rag.Option{rag.WithParser(p), rag.WithLogger(logger)}, options.ragOption...)
	ragEngine, err := rag.New(engine, llm, ragOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	app := &App{
		dataDir: dataDir,
		parser:  p,
		indexer: ix,
		backend: backend,
		engine:  engine,
		rag:     ragEngine,
		llm:     llm,
		logger:  logger,
	}

	if err := engine.Load(ctx); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("ignoring unusable index cache", "err", err)
	}

	return app, nil
}

// pickLLM probes providers in priority order. Construction failures and
// unreachable backends both just disqualify a candidate.
func pickLLM(ctx context.Context, config *ai.Config, logger *slog.Logger) ai.LLM {
	var candidates []ai.LLM
	for _, build := range []func(*ai.Config) (ai.LLM, error){ollama.New, openai.New, anthropic.New} {
		llm, err := build(config)
		if err != nil {
			logger.Debug("provider unavailable", "err", err)
			continue
		}
		candidates = append(candidates, llm)
	}

	llm, err := ai.FirstAvailable(ctx, candidates...)
	if err != nil {
		logger.Warn("no language model reachable, running with fallbacks only")
		return nil
	}
	logger.Info("language model selected", "provider", llm.Name())
	return llm
}

// Close releases the conversational engine and storage.
func (a *App) Close() error {
	a.rag.Close()
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing index cache", "err", err)
		return err
	}
	return nil
}

// ScanDirectory synchronously indexes root and rebuilds the search index
// when the corpus changed. Set force to re-read unchanged files.
func (a *App) ScanDirectory(ctx context.Context, root string, force bool) (*core.ScanStats, error) {
	stats, err := a.indexer.Scan(ctx, root, indexer.ScanOptions{Force: force})
	if err != nil {
		return nil, err
	}
	if err := a.rebuildIndex(ctx, stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// StartScan begins an asynchronous scan. The search index is rebuilt in
// the background once the scan completes; a cancelled scan persists its
// partial corpus but does not trigger a rebuild.
func (a *App) StartScan(ctx context.Context, root string, force bool, onProgress indexer.ProgressFunc) (*indexer.Operation, error) {
	op, err := a.indexer.StartScan(ctx, root, indexer.ScanOptions{Force: force, OnProgress: onProgress})
	if err != nil {
		return nil, err
	}

	go func() {
		stats, scanErr := op.Wait()
		if scanErr != nil {
			return
		}
		if err := a.rebuildIndex(context.Background(), stats); err != nil {
			a.logger.Error("error rebuilding index after scan", "err", err)
		}
	}()

	return op, nil
}

// CancelScan cancels the active scan, if any.
func (a *App) CancelScan() bool {
	op := a.indexer.ActiveOperation()
	if op == nil {
		return false
	}
	op.Cancel()
	return true
}

// ScanProgress reports the active scan's progress. ok is false when no
// scan is running.
func (a *App) ScanProgress() (p indexer.Progress, ok bool) {
	op := a.indexer.ActiveOperation()
	if op == nil {
		return indexer.Progress{}, false
	}
	return op.Progress(), true
}

// rebuildIndex re-embeds the corpus after a scan that changed it.
// Cancelled scans never reach the index build.
func (a *App) rebuildIndex(ctx context.Context, stats *core.ScanStats) error {
	if stats.Status == core.ScanStatusCancelled {
		return nil
	}

	docs := a.indexer.Documents()

	// Indexed==0 alone does not mean the corpus is unchanged: a force
	// rescan clears records first, so it can shrink the corpus without
	// indexing anything. Skip the rebuild only when the vector count
	// still matches the corpus.
	if stats.Indexed == 0 && a.engine.Ready() && len(docs) == a.engine.Count() {
		return nil
	}

	if len(docs) == 0 {
		return a.engine.Clear(ctx)
	}
	return a.engine.BuildIndex(ctx, docs)
}

// Search runs a direct query against the search index.
func (a *App) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	return a.engine.Search(ctx, query, topK)
}

// Chat answers a conversational request.
func (a *App) Chat(ctx context.Context, message string, topK int) (*rag.Result, error) {
	return a.rag.Chat(ctx, message, topK)
}

// ClearIndex drops the corpus index, the search index, and its cache.
func (a *App) ClearIndex(ctx context.Context) error {
	if err := a.indexer.Clear(); err != nil {
		return err
	}
	return a.engine.Clear(ctx)
}

// ConversationHistory returns the chat session's turns.
func (a *App) ConversationHistory() []core.ConversationTurn {
	return a.rag.History()
}

// ClearConversation forgets the chat session.
func (a *App) ClearConversation() {
	a.rag.ClearHistory()
}

// Status reports the current application state.
func (a *App) Status(ctx context.Context) Status {
	s := Status{
		IndexedFiles:   a.indexer.Count(),
		IndexReady:     a.engine.Ready(),
		EmbeddingModel: a.engine.Info().Model,
		ScanActive:     a.indexer.ActiveOperation() != nil,
	}
	if a.llm != nil && a.llm.IsAvailable(ctx) {
		s.Provider = a.llm.Name()
	}
	return s
}
