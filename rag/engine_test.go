package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/foundit/ai"
	"github.com/poiesic/foundit/ai/mock"
	"github.com/poiesic/foundit/core"
)

// fakeSearcher serves a fixed result set for every query.
type fakeSearcher struct {
	mu      sync.Mutex
	results []core.Candidate
	docs    map[string]core.Document
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	results := f.results
	if len(results) > topK {
		results = results[:topK]
	}
	out := make([]core.Candidate, len(results))
	copy(out, results)
	return out, nil
}

func (f *fakeSearcher) Lookup(fileName string) *core.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc, ok := f.docs[fileName]; ok {
		return &doc
	}
	return nil
}

func (f *fakeSearcher) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

func (f *fakeSearcher) Ready() bool { return true }

func (f *fakeSearcher) searchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func searchResults() []core.Candidate {
	return []core.Candidate{
		{FilePath: "/docs/resume.pdf", FileName: "resume.pdf", FileType: ".pdf", Preview: "Work experience at ACME", Score: 0.9},
		{FilePath: "/docs/budget.xlsx", FileName: "budget.xlsx", FileType: ".xlsx", Preview: "Q1 expenses", Score: 0.5},
		{FilePath: "/docs/notes.md", FileName: "notes.md", FileType: ".md", Preview: "random notes", Score: 0.2},
	}
}

// scriptedLLM routes each prompt kind to a canned response.
func scriptedLLM(phrasings, reasoning, analysis string) *mock.MockLLM {
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		switch {
		case strings.Contains(prompt, "PHRASING_1"):
			return phrasings, nil
		case strings.Contains(prompt, "SELECTED_FILES"):
			return reasoning, nil
		case strings.Contains(prompt, "FILE CONTENTS"):
			return analysis, nil
		default:
			return "", nil
		}
	}
	return llm
}

const fourPhrasings = "PHRASING_1: resume experience\n" +
	"PHRASING_2: CV vitae\n" +
	"PHRASING_3: employment history\n" +
	"PHRASING_4: career profile"

func TestChatSelectsFilesViaReasoning(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults()}
	llm := scriptedLLM(fourPhrasings,
		"FILE_ANALYSIS:\n1. resume.pdf - Resume. Match: YES.\n\nSELECTED_FILES: 2\nCONFIDENCE: HIGH\nEXPLANATION: The budget file matches.", "")

	engine, err := New(searcher, llm)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Chat(context.Background(), "find my budget", 5)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "budget.xlsx", result.Files[0].FileName)
	assert.Contains(t, result.Response, "I found exactly what you're looking for!")
	assert.Contains(t, result.Response, "budget.xlsx")
	assert.Contains(t, result.Reasoning, "(Confidence: HIGH)")
	assert.Equal(t, 4, searcher.searchCalls(), "one search per phrasing")
}

func TestChatUnparseableSelectionFallsBackToRanking(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults()}
	llm := scriptedLLM(fourPhrasings, "I cannot decide, sorry.", "")

	engine, err := New(searcher, llm)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Chat(context.Background(), "find my budget", 2)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, "resume.pdf", result.Files[0].FileName)
	assert.Contains(t, result.Response, "Selected top matches from semantic search.")
}

func TestChatWithoutLLMUsesScoreThreshold(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults()}

	engine, err := New(searcher, nil)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Chat(context.Background(), "find my budget", 5)
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, "Vector similarity search", result.Reasoning)
	assert.Contains(t, result.Response, "resume.pdf")
}

func TestChatLowConfidenceShowsFewerFiles(t *testing.T) {
	results := searchResults()
	for i := range results {
		results[i].Score = 0.08
	}
	searcher := &fakeSearcher{results: results}

	engine, err := New(searcher, nil)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Chat(context.Background(), "find something obscure", 5)
	require.NoError(t, err)

	assert.Len(t, result.Files, 3)
	assert.Contains(t, result.Response, "lower confidence")
	assert.Equal(t, "Low confidence matches - try being more specific", result.Reasoning)
}

func TestChatBelowFloorReturnsNothing(t *testing.T) {
	results := searchResults()
	for i := range results {
		results[i].Score = 0.01
	}
	searcher := &fakeSearcher{results: results}

	engine, err := New(searcher, nil)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Chat(context.Background(), "find something obscure", 5)
	require.NoError(t, err)

	assert.Empty(t, result.Files)
	assert.Equal(t, "No matches found", result.Reasoning)
}

func TestChatCustomThresholds(t *testing.T) {
	results := searchResults()
	for i := range results {
		results[i].Score = 0.3
	}
	searcher := &fakeSearcher{results: results}

	engine, err := New(searcher, nil,
		WithConfidenceThreshold(0.5),
		WithLowConfidenceFloor(0.25))
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Chat(context.Background(), "find my budget", 5)
	require.NoError(t, err)
	assert.Contains(t, result.Response, "lower confidence")
}

func TestChatFormatPreferenceReordersCandidates(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults()}

	engine, err := New(searcher, nil)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Chat(context.Background(), "find the budget spreadsheet", 5)
	require.NoError(t, err)

	require.NotEmpty(t, result.Files)
	assert.Equal(t, "budget.xlsx", result.Files[0].FileName)
}

func TestChatHelp(t *testing.T) {
	engine, err := New(&fakeSearcher{}, nil)
	require.NoError(t, err)
	defer engine.Close()

	result, err := engine.Chat(context.Background(), "help", 5)
	require.NoError(t, err)
	assert.Contains(t, result.Response, "file search assistant")
	assert.Empty(t, result.Files)
	assert.Equal(t, "Help requested", result.Reasoning)
}

func TestChatEmptyMessage(t *testing.T) {
	engine, err := New(&fakeSearcher{}, nil)
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Chat(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatSearchFailureRecordedInHistory(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("index not built")}

	engine, err := New(searcher, nil)
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Chat(context.Background(), "find my resume", 5)
	require.Error(t, err)

	history := engine.History()
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
	assert.Contains(t, history[1].Content, "I encountered an error")
}

func TestChatRecordsHistoryWithFiles(t *testing.T) {
	searcher := &fakeSearcher{results: searchResults()}

	engine, err := New(searcher, nil)
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Chat(context.Background(), "find my budget", 5)
	require.NoError(t, err)

	history := engine.History()
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)
	assert.Equal(t, "find my budget", history[0].Content)
	assert.Equal(t, core.RoleAssistant, history[1].Role)
	assert.Contains(t, history[1].Files, "resume.pdf")

	engine.ClearHistory()
	assert.Empty(t, engine.History())
}

func TestChatAnalysisFollowUp(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(reportPath, []byte("quarterly revenue grew 12 percent"), 0o644))

	searcher := &fakeSearcher{
		results: []core.Candidate{
			{FilePath: reportPath, FileName: "report.txt", FileType: ".txt", Preview: "quarterly revenue", Score: 0.9},
		},
		docs: map[string]core.Document{
			"report.txt": {FilePath: reportPath, FileName: "report.txt", FileType: ".txt"},
		},
	}

	var analysisPromptSeen string
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		switch {
		case strings.Contains(prompt, "PHRASING_1"):
			return fourPhrasings, nil
		case strings.Contains(prompt, "SELECTED_FILES"):
			return "SELECTED_FILES: 1\nCONFIDENCE: HIGH\nEXPLANATION: Matches.", nil
		case strings.Contains(prompt, "FILE CONTENTS"):
			analysisPromptSeen = prompt
			return "Revenue grew 12 percent last quarter.", nil
		default:
			return "", nil
		}
	}

	engine, err := New(searcher, llm)
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()
	_, err = engine.Chat(ctx, "find the quarterly report", 5)
	require.NoError(t, err)

	result, err := engine.Chat(ctx, "summarize the first one", 5)
	require.NoError(t, err)

	assert.Equal(t, "Revenue grew 12 percent last quarter.", result.Response)
	assert.Contains(t, result.Reasoning, "Analyzed 1 file(s)")
	assert.Contains(t, analysisPromptSeen, "quarterly revenue grew 12 percent",
		"file content is read back into the prompt")
}

func TestChatAnalysisWithMissingFile(t *testing.T) {
	searcher := &fakeSearcher{
		results: searchResults(),
		docs:    map[string]core.Document{},
	}

	engine, err := New(searcher, nil)
	require.NoError(t, err)
	defer engine.Close()

	ctx := context.Background()
	_, err = engine.Chat(ctx, "find my budget", 5)
	require.NoError(t, err)

	result, err := engine.Chat(ctx, "what's in that file?", 5)
	require.NoError(t, err)
	assert.Contains(t, result.Response, "File not found in index.")
}

func TestNewRequiresSearcher(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrSearcherRequired)
}

func TestNewRejectsBadThreshold(t *testing.T) {
	_, err := New(&fakeSearcher{}, nil, WithConfidenceThreshold(1.5))
	assert.Error(t, err)
}
