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
	"strconv"
	"strings"
)

// selection is the parsed outcome of a reasoning response.
type selection struct {
	indexes     []int // zero-based candidate indexes, in model order
	confidence  string
	explanation string
}

// parseSelection extracts the SELECTED_FILES / CONFIDENCE / EXPLANATION
// lines from a reasoning response. The parser is deliberately tolerant:
// it scans line by line, accepts commas or spaces between numbers,
// ignores non-numeric tokens, drops out-of-range references, and caps
// the selection at topK. It reports false when no valid index survives,
// which callers treat as "fall back to the retrieval ranking" rather
// than an error.
func parseSelection(response string, numCandidates, topK int) (selection, bool) {
	sel := selection{confidence: "MEDIUM"}
	inExplanation := false

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SELECTED_FILES:"):
			inExplanation = false
			sel.indexes = parseIndexes(strings.TrimPrefix(line, "SELECTED_FILES:"), numCandidates, topK)

		case strings.HasPrefix(line, "CONFIDENCE:"):
			inExplanation = false
			if c := strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:")); c != "" {
				sel.confidence = c
			}

		case strings.HasPrefix(line, "EXPLANATION:"):
			sel.explanation = strings.TrimSpace(strings.TrimPrefix(line, "EXPLANATION:"))
			inExplanation = true

		case inExplanation && line != "" && !strings.HasPrefix(line, "FILE_ANALYSIS"):
			// Explanations may wrap onto following lines.
			sel.explanation += " " + line
		}
	}

	return sel, len(sel.indexes) > 0
}

// parseIndexes turns "1, 3, 5" (or "1 3 5", or noisier variants) into
// zero-based candidate indexes.
func parseIndexes(raw string, numCandidates, topK int) []int {
	raw = strings.ReplaceAll(raw, ",", " ")

	var indexes []int
	for _, token := range strings.Fields(raw) {
		if len(indexes) == topK {
			break
		}
		num, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if num < 1 || num > numCandidates {
			continue
		}
		indexes = append(indexes, num-1)
	}
	return indexes
}
