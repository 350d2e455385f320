package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/foundit/core"
)

// Progress is a point-in-time snapshot of a running scan.
type Progress struct {
	Processed int
	Total     int
	Percent   int
}

// ProgressFunc is invoked after every file is processed, including skips and
// unsupported types. Returning a non-nil error cancels the scan.
type ProgressFunc func(p Progress) error

// ScanOptions holds optional parameters for a scan.
type ScanOptions struct {
	// Force clears all existing records and fingerprints before scanning.
	Force bool

	// OnProgress, if set, receives a progress snapshot after every file.
	OnProgress ProgressFunc
}

// Scan enumerates all regular files under root and indexes those whose
// fingerprint changed since the previous scan. Extraction failures are
// counted per file and never abort the scan. The document store is
// persisted on every terminal outcome, including cancellation.
//
// Cancellation (via ctx or a non-nil OnProgress return) is observed at file
// granularity and reported through ScanStats.Status, not as an error. Only
// structural preconditions return an error: a missing root directory or a
// scan already in progress.
func (ix *Indexer) Scan(ctx context.Context, root string, opts ScanOptions) (*core.ScanStats, error) {
	if err := ix.beginScan(nil); err != nil {
		return nil, err
	}
	defer ix.endScan()

	return ix.scan(ctx, root, opts, nil)
}

// StartScan runs a scan asynchronously and returns an Operation handle that
// exposes progress and cancellation for that scan. Structural errors (bad
// root, scan in progress) are returned synchronously.
func (ix *Indexer) StartScan(ctx context.Context, root string, opts ScanOptions) (*Operation, error) {
	if _, err := statDir(root); err != nil {
		return nil, err
	}

	scanCtx, cancel := context.WithCancel(ctx)
	op := &Operation{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if err := ix.beginScan(op); err != nil {
		cancel()
		return nil, err
	}

	go func() {
		defer ix.endScan()
		defer cancel()

		stats, err := ix.scan(scanCtx, root, opts, op)
		op.finish(stats, err)
	}()

	return op, nil
}

// ActiveOperation returns the handle of the in-flight scan, or nil.
func (ix *Indexer) ActiveOperation() *Operation {
	ix.opMu.Lock()
	defer ix.opMu.Unlock()
	return ix.activeOp
}

func (ix *Indexer) beginScan(op *Operation) error {
	ix.opMu.Lock()
	defer ix.opMu.Unlock()

	if ix.activeOp != nil {
		return ErrScanInProgress
	}
	if op == nil {
		// Synchronous scans still occupy the single scan slot.
		op = &Operation{done: make(chan struct{})}
	}
	ix.activeOp = op
	return nil
}

func (ix *Indexer) endScan() {
	ix.opMu.Lock()
	defer ix.opMu.Unlock()
	ix.activeOp = nil
}

// scan is the single-scan body. op may be nil for synchronous scans.
func (ix *Indexer) scan(ctx context.Context, root string, opts ScanOptions, op *Operation) (*core.ScanStats, error) {
	rootPath, err := statDir(root)
	if err != nil {
		return nil, err
	}

	ix.logger.Info("scanning directory", "root", rootPath, "force", opts.Force)

	if opts.Force {
		ix.mu.Lock()
		ix.documents = nil
		ix.fingerprints = make(map[string]core.Fingerprint)
		ix.mu.Unlock()
	}

	// First pass: a deterministic total before processing begins.
	files := collectFiles(rootPath)

	stats := &core.ScanStats{Total: len(files)}
	report := func(processed int) error {
		p := Progress{Processed: processed, Total: len(files)}
		if len(files) > 0 {
			p.Percent = processed * 100 / len(files)
		}
		if op != nil {
			op.setProgress(p)
		}
		if opts.OnProgress != nil {
			return opts.OnProgress(p)
		}
		return nil
	}

	if err := report(0); err != nil {
		stats.Status = core.ScanStatusCancelled
		ix.saveAfterScan()
		return stats, nil
	}

	for i, path := range files {
		select {
		case <-ctx.Done():
			stats.Status = core.ScanStatusCancelled
			ix.logger.Info("scan cancelled", "processed", i, "total", len(files))
			ix.saveAfterScan()
			return stats, nil
		default:
		}

		ix.processFile(path, opts.Force, stats)

		if err := report(i + 1); err != nil {
			stats.Status = core.ScanStatusCancelled
			ix.logger.Info("scan cancelled by progress callback", "processed", i+1, "total", len(files))
			ix.saveAfterScan()
			return stats, nil
		}
	}

	stats.Status = core.ScanStatusCompleted
	ix.saveAfterScan()

	ix.logger.Info("scan complete",
		"indexed", stats.Indexed,
		"total", stats.Total,
		"skipped", stats.Skipped,
		"errors", stats.Errors)
	return stats, nil
}

// processFile indexes a single file, updating stats in place.
func (ix *Indexer) processFile(path string, force bool, stats *core.ScanStats) {
	info, err := os.Stat(path)
	if err != nil {
		ix.logger.Warn("error stating file", "path", path, "err", err)
		stats.Errors++
		return
	}

	fp := core.FingerprintFromStat(info.ModTime(), info.Size())

	if !force {
		ix.mu.RLock()
		stored, ok := ix.fingerprints[path]
		ix.mu.RUnlock()
		if ok && stored == fp {
			stats.Skipped++
			return
		}
	}

	if !ix.parser.CanParse(path) {
		return
	}

	content, err := ix.parser.Parse(path)
	if err != nil {
		ix.logger.Warn("error extracting file", "path", path, "err", err)
		stats.Errors++
		return
	}
	if strings.TrimSpace(content) == "" {
		ix.logger.Debug("no extractable text", "path", path)
		return
	}

	doc := core.Document{
		FilePath:  path,
		FileName:  filepath.Base(path),
		FileType:  strings.ToLower(filepath.Ext(path)),
		Content:   content,
		Preview:   ix.parser.Preview(content, ix.previewLn),
		IndexedAt: time.Now().UTC(),
	}

	ix.mu.Lock()
	// Replace any prior record for this path so the corpus never holds two
	// records for the same file.
	for i := range ix.documents {
		if ix.documents[i].FilePath == path {
			ix.documents = append(ix.documents[:i], ix.documents[i+1:]...)
			break
		}
	}
	ix.documents = append(ix.documents, doc)
	ix.fingerprints[path] = fp
	ix.mu.Unlock()

	stats.Indexed++
}

func (ix *Indexer) saveAfterScan() {
	if err := ix.persist(); err != nil {
		ix.logger.Error("error persisting document store", "err", err)
	}
}

// collectFiles lists every regular file under root in lexical walk order.
// Unreadable subtrees are skipped rather than failing the scan.
func collectFiles(root string) []string {
	var files []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files
}

func statDir(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
	}
	return root, nil
}

// Operation is the per-scan handle exposing progress and cancellation.
// Progress state is scoped to one scan; it is never shared across scans.
type Operation struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	progress Progress
	stats    *core.ScanStats
	err      error
}

// Progress returns the latest progress snapshot.
func (o *Operation) Progress() Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Cancel requests cooperative cancellation of the scan.
// The scan observes the request within one file's processing.
func (o *Operation) Cancel() {
	if o.cancel != nil {
		o.cancel()
	}
}

// Done returns a channel closed when the scan reaches a terminal outcome.
func (o *Operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the scan finishes and returns its result.
func (o *Operation) Wait() (*core.ScanStats, error) {
	<-o.done
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats, o.err
}

func (o *Operation) setProgress(p Progress) {
	o.mu.Lock()
	o.progress = p
	o.mu.Unlock()
}

func (o *Operation) finish(stats *core.ScanStats, err error) {
	o.mu.Lock()
	o.stats = stats
	o.err = err
	o.mu.Unlock()
	close(o.done)
}
