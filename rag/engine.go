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


package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/foundit/ai"
	"github.com/poiesic/foundit/core"
	"github.com/poiesic/foundit/expand"
	"github.com/poiesic/foundit/parser"
)

const (
	// DefaultTopK is the number of files returned when callers pass 0.
	DefaultTopK = 5

	// DefaultConfidenceThreshold is the minimum top score for the
	// full-confidence fallback when LLM reasoning is unavailable.
	DefaultConfidenceThreshold = 0.15

	// DefaultLowConfidenceFloor is the minimum top score below which
	// nothing is returned at all.
	DefaultLowConfidenceFloor = 0.05

	defaultExpansionTimeout = 10 * time.Second
	defaultReasoningTimeout = 60 * time.Second

	// singleSearchK is the retrieval depth of the non-phrasing fallback.
	singleSearchK = 20

	// readbackLimit caps per-file content bytes fed to follow-up analysis.
	readbackLimit = 3000

	reasoningMaxTokens = 4000
	analysisMaxTokens  = 2000

	// lowConfidenceCap limits how many files a low-confidence answer shows.
	lowConfidenceCap = 3
)

// Searcher is the retrieval surface the reasoning engine depends on.
// *search.Engine satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]core.Candidate, error)
	Lookup(fileName string) *core.Document
	Count() int
	Ready() bool
}

// Result is one answered chat turn.
type Result struct {
	Response  string                 // natural-language answer
	Files     []core.PhraseCandidate // selected files, best first
	Reasoning string                 // how the selection was made
}

// Engine is the conversational layer over retrieval. It owns the
// session's conversation history and a worker pool for per-phrasing
// searches. Safe for concurrent use, though a chat session is naturally
// sequential.
type Engine struct {
	searcher Searcher
	llm      ai.LLM
	expander *expand.Expander
	parser   *parser.Parser
	pool     *ants.Pool
	logger   *slog.Logger

	confidenceThreshold float64
	lowConfidenceFloor  float64
	expansionTimeout    time.Duration
	reasoningTimeout    time.Duration

	conv conversation
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

// WithConfidenceThreshold sets the minimum top score for the
// full-confidence fallback path.
func WithConfidenceThreshold(threshold float64) Option {
	return func(e *Engine) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("confidence threshold %v out of range [0, 1]", threshold)
		}
		e.confidenceThreshold = threshold
		return nil
	}
}

// WithLowConfidenceFloor sets the score below which no results are shown.
func WithLowConfidenceFloor(floor float64) Option {
	return func(e *Engine) error {
		if floor < 0 || floor > 1 {
			return fmt.Errorf("low confidence floor %v out of range [0, 1]", floor)
		}
		e.lowConfidenceFloor = floor
		return nil
	}
}

// WithExpansionTimeout bounds phrasing generation per chat turn.
func WithExpansionTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d > 0 {
			e.expansionTimeout = d
		}
		return nil
	}
}

// WithReasoningTimeout bounds LLM file selection per chat turn.
func WithReasoningTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d > 0 {
			e.reasoningTimeout = d
		}
		return nil
	}
}

// WithParser sets the parser used for follow-up content readback.
func WithParser(p *parser.Parser) Option {
	return func(e *Engine) error {
		if p != nil {
			e.parser = p
		}
		return nil
	}
}

// New creates a reasoning engine over the given searcher. llm may be
// nil: phrasing generation and file selection then run on their
// deterministic fallbacks. Close must be called to release the worker
// pool.
func New(searcher Searcher, llm ai.LLM, opts ...Option) (*Engine, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	pool, err := ants.NewPool(expand.PhrasingCount)
	if err != nil {
		return nil, fmt.Errorf("creating search pool: %w", err)
	}

	e := &Engine{
		searcher:            searcher,
		llm:                 llm,
		parser:              parser.New(),
		pool:                pool,
		logger:              slog.Default().With("component", "rag-engine"),
		confidenceThreshold: DefaultConfidenceThreshold,
		lowConfidenceFloor:  DefaultLowConfidenceFloor,
		expansionTimeout:    defaultExpansionTimeout,
		reasoningTimeout:    defaultReasoningTimeout,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			pool.Release()
			return nil, err
		}
	}
	e.expander = expand.New(llm, expand.WithLogger(e.logger))
	return e, nil
}

// Close releases the worker pool.
func (e *Engine) Close() {
	e.pool.Release()
}

// History returns a copy of the session's conversation turns.
func (e *Engine) History() []core.ConversationTurn {
	return e.conv.history()
}

// ClearHistory forgets the session's conversation.
func (e *Engine) ClearHistory() {
	e.conv.clear()
}

// Chat answers one user message. Help-style messages get usage hints,
// follow-ups referencing earlier results get content analysis, and
// everything else runs the file-search pipeline. Both sides of the
// exchange are recorded in the session history.
func (e *Engine) Chat(ctx context.Context, message string, topK int) (*Result, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	e.conv.add(core.RoleUser, message, nil)

	var (
		result *Result
		err    error
	)
	switch {
	case isHelpRequest(message):
		result = &Result{Response: helpResponse, Reasoning: "Help requested"}

	case isAnalysisRequest(message):
		if files := e.conv.referencedFiles(); len(files) > 0 {
			result, err = e.analyzeReferenced(ctx, message, files)
			break
		}
		// Nothing to refer back to; treat it as a search.
		result, err = e.fileSearch(ctx, message, topK)

	default:
		result, err = e.fileSearch(ctx, message, topK)
	}

	if err != nil {
		e.conv.add(core.RoleAssistant, "I encountered an error: "+err.Error(), nil)
		return nil, err
	}

	names := make([]string, len(result.Files))
	for i, f := range result.Files {
		names[i] = f.FileName
	}
	e.conv.add(core.RoleAssistant, result.Response, names)
	return result, nil
}

// fileSearch is the retrieval pipeline: phrasings, parallel search with
// aggregation, format reordering, then LLM selection with a score
// threshold as the last resort.
func (e *Engine) fileSearch(ctx context.Context, message string, topK int) (*Result, error) {
	formats, _ := DetectFormatPreference(message)
	if len(formats) > 0 {
		e.logger.Info("format preference detected", "formats", formats)
	}

	ectx, cancel := context.WithTimeout(ctx, e.expansionTimeout)
	phrasings := e.expander.Phrasings(ectx, message)
	cancel()

	candidates, err := e.multiPhrasingSearch(ctx, phrasings)
	if err != nil {
		e.logger.Warn("multi-phrasing search failed, using single search", "err", err)
		qctx, qcancel := context.WithTimeout(ctx, e.expansionTimeout)
		query := e.expander.Enhance(qctx, message)
		qcancel()
		single, serr := e.searcher.Search(ctx, query, singleSearchK)
		if serr != nil {
			return nil, serr
		}
		candidates = singleSearchCandidates(single)
	}

	if len(formats) > 0 && len(candidates) > 0 {
		reordered := reorderByFormat(candidates, formats)
		if !matchesFormat(reordered[0], formats) {
			e.logger.Warn("no files in preferred format, relaxing filter", "formats", formats)
		}
		candidates = reordered
	}

	if len(candidates) > 0 && e.llm != nil {
		result, rerr := e.reason(ctx, message, candidates, topK, formats)
		if rerr == nil {
			return result, nil
		}
		e.logger.Error("reasoning failed, falling back to score threshold", "err", rerr)
	}

	return e.thresholdSelection(candidates, topK), nil
}

// reason asks the model to pick the best candidates. A response the
// parser cannot make sense of degrades to the retrieval ranking; only a
// transport-level failure is an error.
func (e *Engine) reason(ctx context.Context, message string, candidates []core.PhraseCandidate, topK int, formats []string) (*Result, error) {
	rctx, cancel := context.WithTimeout(ctx, e.reasoningTimeout)
	defer cancel()

	response, err := e.llm.Generate(rctx, reasoningPrompt(message, candidates, topK, formats),
		ai.WithMaxTokens(reasoningMaxTokens))
	if err != nil {
		return nil, err
	}

	shown := len(candidates)
	if shown > reasoningCandidateLimit {
		shown = reasoningCandidateLimit
	}

	sel, ok := parseSelection(response, shown, topK)
	var selected []core.PhraseCandidate
	if ok {
		selected = make([]core.PhraseCandidate, 0, len(sel.indexes))
		for _, idx := range sel.indexes {
			selected = append(selected, candidates[idx])
		}
	} else {
		e.logger.Warn("could not parse model selection, using top candidates")
		selected = topN(candidates, topK)
		sel.explanation = "Selected top matches from semantic search."
	}

	return &Result{
		Response:  selectionResponse(selected, sel.explanation),
		Files:     selected,
		Reasoning: fmt.Sprintf("%s (Confidence: %s)", sel.explanation, sel.confidence),
	}, nil
}

// thresholdSelection answers from retrieval scores alone.
func (e *Engine) thresholdSelection(candidates []core.PhraseCandidate, topK int) *Result {
	if len(candidates) == 0 {
		return &Result{
			Response:  "I couldn't find files matching your request. Try being more specific or check that files are indexed.",
			Reasoning: "No matches found",
		}
	}

	top := candidates[0]
	if top.Score >= e.confidenceThreshold {
		selected := topN(candidates, topK)
		return &Result{
			Response:  selectionResponse(selected, ""),
			Files:     selected,
			Reasoning: "Vector similarity search",
		}
	}

	if top.Score >= e.lowConfidenceFloor {
		n := topK
		if n > lowConfidenceCap {
			n = lowConfidenceCap
		}
		selected := topN(candidates, n)
		var b strings.Builder
		fmt.Fprintf(&b, "I found %d file(s) that might match your request (lower confidence):\n\n", len(selected))
		for i, f := range selected {
			fmt.Fprintf(&b, "%d. %s\n", i+1, f.FileName)
		}
		return &Result{
			Response:  b.String(),
			Files:     selected,
			Reasoning: "Low confidence matches - try being more specific",
		}
	}

	e.logger.Info("best candidate below confidence floor", "score", top.Score)
	return &Result{
		Response:  "I couldn't find files matching your request. Try being more specific or check that files are indexed.",
		Reasoning: "No matches found",
	}
}

// analyzeReferenced answers a follow-up from the contents of files named
// in earlier turns.
func (e *Engine) analyzeReferenced(ctx context.Context, message string, fileNames []string) (*Result, error) {
	contents := e.fileContents(fileNames)
	reasoning := fmt.Sprintf("Analyzed %d file(s) from earlier results", len(fileNames))

	if e.llm != nil {
		answer, err := e.llm.Generate(ctx, analysisPrompt(message, contents),
			ai.WithMaxTokens(analysisMaxTokens))
		if err == nil && strings.TrimSpace(answer) != "" {
			return &Result{Response: answer, Reasoning: reasoning}, nil
		}
		if err != nil {
			e.logger.Warn("analysis failed, returning raw contents", "err", err)
		}
	}

	return &Result{
		Response:  "Here is what those files contain:" + contents,
		Reasoning: reasoning,
	}, nil
}

// fileContents reads and formats the referenced files, truncating each
// to readbackLimit bytes. Per-file failures become inline notes so one
// unreadable file doesn't sink the answer.
func (e *Engine) fileContents(fileNames []string) string {
	var sections []string
	for _, name := range fileNames {
		doc := e.searcher.Lookup(name)
		if doc == nil {
			sections = append(sections, fmt.Sprintf("\n--- %s ---\nFile not found in index.", name))
			continue
		}
		if _, err := os.Stat(doc.FilePath); err != nil {
			sections = append(sections, fmt.Sprintf("\n--- %s ---\nFile no longer exists at path.", name))
			continue
		}

		content, err := e.parser.Parse(doc.FilePath)
		switch {
		case err != nil:
			e.logger.Error("error reading referenced file", "file", name, "err", err)
			sections = append(sections, fmt.Sprintf("\n--- %s ---\nError reading file: %v", name, err))
		case strings.TrimSpace(content) == "":
			sections = append(sections, fmt.Sprintf("\n--- %s ---\nCould not extract text content.", name))
		default:
			if len(content) > readbackLimit {
				content = content[:readbackLimit] + "\n\n[... content truncated ...]"
			}
			sections = append(sections, fmt.Sprintf("\n--- %s ---\n%s", name, content))
		}
	}

	return "\n\nFILE CONTENTS:\n" + strings.Join(sections, "\n")
}

// selectionResponse renders the selected files as a short answer.
func selectionResponse(selected []core.PhraseCandidate, explanation string) string {
	var b strings.Builder
	switch len(selected) {
	case 0:
		b.WriteString("I couldn't find files that clearly match your request. Try rephrasing or check that files are indexed.")
	case 1:
		fmt.Fprintf(&b, "I found exactly what you're looking for!\n\n%s", selected[0].FileName)
	default:
		fmt.Fprintf(&b, "I found %d files matching your request:\n\n", len(selected))
		for i, f := range selected {
			fmt.Fprintf(&b, "%d. %s\n", i+1, f.FileName)
		}
	}
	if explanation != "" {
		b.WriteString("\n")
		b.WriteString(explanation)
	}
	return b.String()
}

func topN(candidates []core.PhraseCandidate, n int) []core.PhraseCandidate {
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]core.PhraseCandidate, len(candidates))
	copy(out, candidates)
	return out
}

func matchesFormat(c core.PhraseCandidate, formats []string) bool {
	ft := strings.ToLower(c.FileType)
	for _, f := range formats {
		if ft == f {
			return true
		}
	}
	return false
}
