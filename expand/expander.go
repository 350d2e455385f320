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


package expand

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/foundit/ai"
)

// PhrasingCount is the number of alternative phrasings Phrasings returns.
const PhrasingCount = 4

const (
	expansionMaxTokens = 120
	keywordsMaxTokens  = 150
	phrasingsMaxTokens = 300
)

// Expander enriches queries with synonyms and LLM-generated keywords.
// The LLM is optional: with a nil model every method falls back to the
// static synonym table. Safe for concurrent use.
type Expander struct {
	llm    ai.LLM
	logger *slog.Logger

	// cache holds enhanced queries keyed by the lowercased original
	// message. It lives for the Expander's lifetime and is unbounded;
	// a desktop session issues too few distinct queries to matter.
	mu    sync.Mutex
	cache map[string]string
}

// Option configures an Expander.
type Option func(*Expander)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// New creates an expander. llm may be nil.
func New(llm ai.LLM, opts ...Option) *Expander {
	e := &Expander{
		llm:    llm,
		logger: slog.Default().With("component", "expander"),
		cache:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enhance returns the message widened with synonym-table terms and, when a
// model is reachable, LLM-suggested keywords. Results are cached per
// session so repeated queries cost one model call at most. Never fails.
func (e *Expander) Enhance(ctx context.Context, message string) string {
	key := strings.ToLower(strings.TrimSpace(message))

	e.mu.Lock()
	if cached, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return cached
	}
	e.mu.Unlock()

	enhanced := AddSynonyms(message, message)

	if e.llm != nil {
		additional, err := e.llm.Generate(ctx, expansionPrompt(message, enhanced),
			ai.WithMaxTokens(expansionMaxTokens))
		if err != nil {
			e.logger.Debug("llm expansion unavailable, using synonym table only", "err", err)
		} else if additional = strings.TrimSpace(additional); additional != "" {
			enhanced = enhanced + " " + additional
			e.logger.Debug("llm expanded query", "terms", truncateForLog(additional, 80))
		}
	}

	e.mu.Lock()
	e.cache[key] = enhanced
	e.mu.Unlock()
	return enhanced
}

// Keywords asks the model to distill the message into search keywords.
// On any failure, or with no model, the original message is returned.
func (e *Expander) Keywords(ctx context.Context, message string) string {
	if e.llm == nil {
		return message
	}

	keywords, err := e.llm.Generate(ctx, keywordsPrompt(message),
		ai.WithMaxTokens(keywordsMaxTokens))
	if err != nil {
		e.logger.Warn("keyword extraction failed, using original message", "err", err)
		return message
	}

	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return message
	}
	e.logger.Debug("extracted keywords", "keywords", truncateForLog(keywords, 100))
	return keywords
}

// Phrasings generates exactly PhrasingCount alternative renderings of the
// message, each widened with synonym terms. When the model is missing,
// errors, or returns fewer parseable lines than needed, a single fallback
// phrasing is repeated to keep the count fixed.
func (e *Expander) Phrasings(ctx context.Context, message string) []string {
	if e.llm == nil {
		return e.fallbackPhrasings(ctx, message)
	}

	response, err := e.llm.Generate(ctx, phrasingsPrompt(message),
		ai.WithMaxTokens(phrasingsMaxTokens))
	if err != nil {
		e.logger.Warn("phrasing generation failed, using fallback", "err", err)
		return e.fallbackPhrasings(ctx, message)
	}

	phrasings := parsePhrasings(response, message)
	if len(phrasings) < PhrasingCount {
		e.logger.Warn("phrasing response incomplete, using fallback", "parsed", len(phrasings))
		return e.fallbackPhrasings(ctx, message)
	}
	return phrasings[:PhrasingCount]
}

// parsePhrasings extracts "PHRASING_N: keywords" lines and enriches each
// with synonyms triggered by the original message.
func parsePhrasings(response, message string) []string {
	var phrasings []string
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "PHRASING_") {
			continue
		}
		_, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if phrasing := strings.TrimSpace(rest); phrasing != "" {
			phrasings = append(phrasings, AddSynonyms(phrasing, message))
		}
	}
	return phrasings
}

func (e *Expander) fallbackPhrasings(ctx context.Context, message string) []string {
	base := AddSynonyms(e.Keywords(ctx, message), message)
	phrasings := make([]string, PhrasingCount)
	for i := range phrasings {
		phrasings[i] = base
	}
	return phrasings
}

func truncateForLog(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
