package search

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/foundit/ai/mock"
	"github.com/poiesic/foundit/core"
	"github.com/poiesic/foundit/storage"
	badgerstore "github.com/poiesic/foundit/storage/badger"
)

// keywordEmbedder returns axis-aligned vectors keyed on content keywords so
// similarity is fully controlled by the test.
func keywordEmbedder() *mock.MockEmbedder {
	embed := func(text string) []float32 {
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "resume") || strings.Contains(lower, "experience"):
			return []float32{1, 0, 0}
		case strings.Contains(lower, "travel") || strings.Contains(lower, "passport"):
			return []float32{0, 1, 0}
		default:
			return []float32{0, 0, 1}
		}
	}

	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return embed(text), nil
	}
	m.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, t := range texts {
			out[i] = embed(t)
		}
		return out, nil
	}
	return m
}

func testCorpus() []core.Document {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return []core.Document{
		{
			FilePath: "/docs/resume_2024.pdf",
			FileName: "resume_2024.pdf",
			FileType: ".pdf",
			Content: "jane@example.com\nEducation: MSc, University of Somewhere\n" +
				"Work Experience: ACME\nSkills: Go",
			Preview:   "jane@example.com Education...",
			IndexedAt: now,
		},
		{
			FilePath:  "/docs/passport_scan.txt",
			FileName:  "passport_scan.txt",
			FileType:  ".txt",
			Content:   "Passport number X123, visa stamp attached for travel",
			Preview:   "Passport number X123...",
			IndexedAt: now,
		},
		{
			FilePath:  "/docs/recipes.md",
			FileName:  "recipes.md",
			FileType:  ".md",
			Content:   "Pancake recipe: flour, milk, eggs",
			Preview:   "Pancake recipe...",
			IndexedAt: now,
		},
	}
}

func TestBuildIndexRejectsEmptyCorpus(t *testing.T) {
	engine, err := New(keywordEmbedder())
	require.NoError(t, err)

	err = engine.BuildIndex(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestNewRequiresEmbedder(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestSearchBeforeBuild(t *testing.T) {
	engine, err := New(keywordEmbedder())
	require.NoError(t, err)

	_, err = engine.Search(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, ErrIndexNotBuilt)
	assert.False(t, engine.Ready())
}

func TestSearchRanksByHybridScore(t *testing.T) {
	engine, err := New(keywordEmbedder())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, engine.BuildIndex(ctx, testCorpus()))
	require.True(t, engine.Ready())

	results, err := engine.Search(ctx, "resume", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, "resume_2024.pdf", top.FileName)
	assert.Equal(t, DocTypeResume, top.DocType)
	assert.InDelta(t, 1.0, top.SemanticScore, 1e-6)
	assert.InDelta(t, 0.3, top.FilenameBoost, 1e-9, "query is a filename substring")
	assert.InDelta(t, 0.4, top.DocTypeBoost, 1e-9, "intent matches classified type")
	assert.InDelta(t, 1.0, top.Score, 1e-9, "score is clamped to 1.0")

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestSearchFilenameExactMatchBoost(t *testing.T) {
	engine, err := New(keywordEmbedder())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, engine.BuildIndex(ctx, testCorpus()))

	results, err := engine.Search(ctx, "recipes.md", 3)
	require.NoError(t, err)

	var hit *core.Candidate
	for i := range results {
		if results[i].FileName == "recipes.md" {
			hit = &results[i]
		}
	}
	require.NotNil(t, hit)
	assert.InDelta(t, 0.3, hit.FilenameBoost, 1e-9)
}

func TestSearchScoresStayInBounds(t *testing.T) {
	engine, err := New(keywordEmbedder())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, engine.BuildIndex(ctx, testCorpus()))

	for _, query := range []string{"resume", "travel passport", "pancakes", "resume_2024.pdf"} {
		results, err := engine.Search(ctx, query, 10)
		require.NoError(t, err)
		for _, c := range results {
			assert.GreaterOrEqual(t, c.Score, 0.0, "query %q", query)
			assert.LessOrEqual(t, c.Score, 1.0, "query %q", query)
		}
	}
}

func TestSearchTruncatesToTopK(t *testing.T) {
	engine, err := New(keywordEmbedder())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, engine.BuildIndex(ctx, testCorpus()))

	results, err := engine.Search(ctx, "anything", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestCacheRoundTripSkipsReembedding(t *testing.T) {
	cache, backend, err := badgerstore.NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	builder, err := New(keywordEmbedder(), WithCache(cache), WithModelName("mock-model"))
	require.NoError(t, err)
	require.NoError(t, builder.BuildIndex(ctx, testCorpus()))

	restoredEmbedder := keywordEmbedder()
	restored, err := New(restoredEmbedder, WithCache(cache), WithModelName("mock-model"))
	require.NoError(t, err)
	require.NoError(t, restored.Load(ctx))

	assert.Equal(t, 3, restored.Count())
	assert.Equal(t, "mock-model", restored.Info().Model)
	assert.Equal(t, 0, restoredEmbedder.CallCount(), "load must not embed")

	results, err := restored.Search(ctx, "travel", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "passport_scan.txt", results[0].FileName)
	assert.Equal(t, 1, restoredEmbedder.CallCount(), "only the query is embedded")
}

func TestLoadWithoutCache(t *testing.T) {
	engine, err := New(keywordEmbedder())
	require.NoError(t, err)

	err = engine.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClearDropsIndexAndCache(t *testing.T) {
	cache, backend, err := badgerstore.NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	engine, err := New(keywordEmbedder(), WithCache(cache))
	require.NoError(t, err)
	require.NoError(t, engine.BuildIndex(ctx, testCorpus()))

	require.NoError(t, engine.Clear(ctx))
	assert.False(t, engine.Ready())
	assert.Equal(t, 0, engine.Count())

	_, err = cache.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCacheTruncatesContent(t *testing.T) {
	cache, backend, err := badgerstore.NewMemoryCache()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	docs := testCorpus()
	docs[0].Content = strings.Repeat("experience ", 2000)

	engine, err := New(keywordEmbedder(), WithCache(cache))
	require.NoError(t, err)
	require.NoError(t, engine.BuildIndex(ctx, docs))

	snapshot, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(snapshot.Documents[0].Content), 5000)
}

func TestLookup(t *testing.T) {
	engine, err := New(keywordEmbedder())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, engine.BuildIndex(ctx, testCorpus()))

	doc := engine.Lookup("recipes.md")
	require.NotNil(t, doc)
	assert.Equal(t, "/docs/recipes.md", doc.FilePath)

	assert.Nil(t, engine.Lookup("missing.txt"))
}
