package indexer

import (
	"log/slog"
	"sync"

	"github.com/poiesic/foundit/core"
	"github.com/poiesic/foundit/parser"
)

// Indexer owns the corpus of indexed documents and their fingerprints.
// All exported methods are safe for concurrent use, with the exception that
// only one scan may run at a time.
type Indexer struct {
	parser    *parser.Parser
	store     *store
	logger    *slog.Logger
	previewLn int

	mu           sync.RWMutex
	documents    []core.Document
	fingerprints map[string]core.Fingerprint

	opMu     sync.Mutex
	activeOp *Operation
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// WithPreviewLength sets the preview length stored on document records.
// Default is parser.DefaultPreviewLen.
func WithPreviewLength(n int) Option {
	return func(ix *Indexer) error {
		if n > 0 {
			ix.previewLn = n
		}
		return nil
	}
}

// New creates an indexer whose document store lives under dataDir.
// An existing store is loaded so scans resume from the last known state;
// a missing or unreadable store starts empty.
func New(dataDir string, p *parser.Parser, opts ...Option) (*Indexer, error) {
	if p == nil {
		return nil, ErrParserRequired
	}

	ix := &Indexer{
		parser:       p,
		store:        newStore(dataDir),
		logger:       slog.Default().With("component", "indexer"),
		previewLn:    parser.DefaultPreviewLen,
		fingerprints: make(map[string]core.Fingerprint),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}

	docs, fps, err := ix.store.load()
	if err != nil {
		ix.logger.Error("error loading document store, starting empty", "err", err)
	} else if docs != nil {
		ix.documents = docs
		ix.fingerprints = fps
		ix.logger.Info("loaded document store", "documents", len(docs))
	}

	return ix, nil
}

// Documents returns a snapshot of all indexed documents.
func (ix *Indexer) Documents() []core.Document {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	docs := make([]core.Document, len(ix.documents))
	copy(docs, ix.documents)
	return docs
}

// Count returns the number of indexed documents.
func (ix *Indexer) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.documents)
}

// Lookup returns the document for a file name, or nil if none is indexed.
func (ix *Indexer) Lookup(fileName string) *core.Document {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for i := range ix.documents {
		if ix.documents[i].FileName == fileName {
			doc := ix.documents[i]
			return &doc
		}
	}
	return nil
}

// Clear removes all documents and fingerprints and persists the empty state.
func (ix *Indexer) Clear() error {
	ix.mu.Lock()
	ix.documents = nil
	ix.fingerprints = make(map[string]core.Fingerprint)
	ix.mu.Unlock()

	ix.logger.Info("index cleared")
	return ix.persist()
}

// persist saves the current documents and fingerprints to the store.
func (ix *Indexer) persist() error {
	ix.mu.RLock()
	docs := make([]core.Document, len(ix.documents))
	copy(docs, ix.documents)
	fps := make(map[string]core.Fingerprint, len(ix.fingerprints))
	for k, v := range ix.fingerprints {
		fps[k] = v
	}
	ix.mu.RUnlock()

	return ix.store.save(docs, fps)
}
