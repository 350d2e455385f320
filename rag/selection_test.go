package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	response := `FILE_ANALYSIS:
1. resume.pdf - Resume. Match: YES. Confidence: HIGH. Reason: work history
2. notes.txt - Notes. Match: NO. Confidence: HIGH. Reason: unrelated

SELECTED_FILES: 1, 2
CONFIDENCE: HIGH
EXPLANATION: The resume matches directly.`

	sel, ok := parseSelection(response, 5, 5)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, sel.indexes)
	assert.Equal(t, "HIGH", sel.confidence)
	assert.Equal(t, "The resume matches directly.", sel.explanation)
}

func TestParseSelectionSpaceSeparated(t *testing.T) {
	sel, ok := parseSelection("SELECTED_FILES: 3 1 2", 5, 5)
	require.True(t, ok)
	assert.Equal(t, []int{2, 0, 1}, sel.indexes)
}

func TestParseSelectionIgnoresNoise(t *testing.T) {
	sel, ok := parseSelection("SELECTED_FILES: files 1 and 3 look best", 5, 5)
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, sel.indexes)
}

func TestParseSelectionDropsOutOfRange(t *testing.T) {
	sel, ok := parseSelection("SELECTED_FILES: 0, 2, 99", 5, 5)
	require.True(t, ok)
	assert.Equal(t, []int{1}, sel.indexes)
}

func TestParseSelectionCapsAtTopK(t *testing.T) {
	sel, ok := parseSelection("SELECTED_FILES: 1, 2, 3, 4, 5", 5, 2)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, sel.indexes)
}

func TestParseSelectionNothingSelected(t *testing.T) {
	_, ok := parseSelection("I am not sure which files match.", 5, 5)
	assert.False(t, ok)

	_, ok = parseSelection("SELECTED_FILES: none of them", 5, 5)
	assert.False(t, ok)
}

func TestParseSelectionDefaultConfidence(t *testing.T) {
	sel, ok := parseSelection("SELECTED_FILES: 1", 5, 5)
	require.True(t, ok)
	assert.Equal(t, "MEDIUM", sel.confidence)
}

func TestParseSelectionMultilineExplanation(t *testing.T) {
	response := `SELECTED_FILES: 1
CONFIDENCE: LOW
EXPLANATION: The first file mentions taxes
and the relevant year.`

	sel, ok := parseSelection(response, 5, 5)
	require.True(t, ok)
	assert.Equal(t, "The first file mentions taxes and the relevant year.", sel.explanation)
}
