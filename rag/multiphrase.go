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
	"sort"
	"sync"

	"github.com/poiesic/foundit/core"
)

const (
	// phrasingSearchK is how many candidates each phrasing retrieves
	// before aggregation.
	phrasingSearchK = 30

	// Combined-score weights. A file surfacing under several different
	// phrasings is the strongest relevance signal, then how high it
	// ranked, then the raw similarity.
	frequencyWeight = 3.0
	rankWeight      = 2.0
	scoreWeight     = 1.0
)

// phraseAccumulator gathers one file's appearances across phrasings.
type phraseAccumulator struct {
	best     core.Candidate
	bestRank int
	ranks    []int
	scores   []float64
}

// multiPhrasingSearch runs one retrieval per phrasing on the worker pool
// and aggregates the results into a single ranking. Phrasings whose
// search fails are skipped; an error is returned only when every
// phrasing fails.
func (e *Engine) multiPhrasingSearch(ctx context.Context, phrasings []string) ([]core.PhraseCandidate, error) {
	results := make([][]core.Candidate, len(phrasings))
	errs := make([]error, len(phrasings))

	var wg sync.WaitGroup
	for i, phrasing := range phrasings {
		i, phrasing := i, phrasing
		wg.Add(1)
		if err := e.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = e.searcher.Search(ctx, phrasing, phrasingSearchK)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	succeeded := 0
	var firstErr error
	for i := range phrasings {
		if errs[i] == nil {
			succeeded++
		} else if firstErr == nil {
			firstErr = errs[i]
		}
	}
	if succeeded == 0 {
		return nil, firstErr
	}
	if firstErr != nil {
		e.logger.Warn("some phrasing searches failed",
			"failed", len(phrasings)-succeeded, "err", firstErr)
	}

	return aggregatePhrasings(results, len(phrasings)), nil
}

// aggregatePhrasings merges per-phrasing rankings into PhraseCandidates
// scored by appearance frequency, average rank, and average similarity.
func aggregatePhrasings(results [][]core.Candidate, totalPhrasings int) []core.PhraseCandidate {
	byPath := make(map[string]*phraseAccumulator)
	var order []string

	for _, candidates := range results {
		for rank, candidate := range candidates {
			acc, ok := byPath[candidate.FilePath]
			if !ok {
				acc = &phraseAccumulator{best: candidate, bestRank: rank}
				byPath[candidate.FilePath] = acc
				order = append(order, candidate.FilePath)
			} else if rank < acc.bestRank {
				acc.best = candidate
				acc.bestRank = rank
			}
			acc.ranks = append(acc.ranks, rank)
			acc.scores = append(acc.scores, candidate.Score)
		}
	}

	ranked := make([]core.PhraseCandidate, 0, len(order))
	for _, path := range order {
		acc := byPath[path]

		frequency := float64(len(acc.ranks)) / float64(totalPhrasings)

		rankSum := 0.0
		for _, rank := range acc.ranks {
			rankSum += 1.0 / float64(rank+1)
		}
		avgRank := rankSum / float64(len(acc.ranks))

		scoreSum := 0.0
		for _, score := range acc.scores {
			scoreSum += score
		}
		avgScore := scoreSum / float64(len(acc.scores))

		ranked = append(ranked, core.PhraseCandidate{
			Candidate:   acc.best,
			Combined:    frequency*frequencyWeight + avgRank*rankWeight + avgScore*scoreWeight,
			Frequency:   frequency,
			AvgRank:     avgRank,
			AvgScore:    avgScore,
			Appearances: len(acc.ranks),
			BestRank:    acc.bestRank,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Combined != ranked[j].Combined {
			return ranked[i].Combined > ranked[j].Combined
		}
		return ranked[i].FilePath < ranked[j].FilePath
	})
	return ranked
}

// singleSearchCandidates wraps plain retrieval results as
// PhraseCandidates so downstream stages handle one shape.
func singleSearchCandidates(candidates []core.Candidate) []core.PhraseCandidate {
	out := make([]core.PhraseCandidate, len(candidates))
	for i, c := range candidates {
		out[i] = core.PhraseCandidate{
			Candidate:   c,
			Combined:    c.Score,
			Frequency:   1,
			AvgRank:     1.0 / float64(i+1),
			AvgScore:    c.Score,
			Appearances: 1,
			BestRank:    i,
		}
	}
	return out
}
