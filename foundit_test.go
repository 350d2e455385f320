package foundit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/foundit/ai"
	"github.com/poiesic/foundit/ai/mock"
	"github.com/poiesic/foundit/core"
)

// testEmbedder keys vectors on content keywords so ranking is
// deterministic.
func testEmbedder() *mock.MockEmbedder {
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

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	resume := "jane@example.com\nEducation: MSc, University of Somewhere\n" +
		"Work Experience: ACME Corp\nSkills: Go, SQL"
	passport := "Passport number X123, visa stamp attached for travel"

	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.txt"), []byte(resume), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "passport.txt"), []byte(passport), 0o644))
	return dir
}

func newTestApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	base := []AppOption{
		WithEmbedder(testEmbedder()),
		WithLLM(nil),
		WithInMemoryStorage(),
	}
	app, err := New(context.Background(), t.TempDir(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestAppScanSearchChat(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	docs := writeTestCorpus(t)

	stats, err := app.ScanDirectory(ctx, docs, false)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Indexed)
	assert.Equal(t, core.ScanStatusCompleted, stats.Status)

	results, err := app.Search(ctx, "resume", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "resume.txt", results[0].FileName)

	chat, err := app.Chat(ctx, "find my resume", 5)
	require.NoError(t, err)
	require.NotEmpty(t, chat.Files)
	assert.Equal(t, "resume.txt", chat.Files[0].FileName)

	status := app.Status(ctx)
	assert.Equal(t, 2, status.IndexedFiles)
	assert.True(t, status.IndexReady)
	assert.Empty(t, status.Provider, "no model configured")
	assert.False(t, status.ScanActive)
}

func TestAppChatWithModel(t *testing.T) {
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		switch {
		case strings.Contains(prompt, "PHRASING_1"):
			return "PHRASING_1: passport travel\nPHRASING_2: visa papers\n" +
				"PHRASING_3: immigration forms\nPHRASING_4: boarding documents", nil
		case strings.Contains(prompt, "SELECTED_FILES"):
			return "SELECTED_FILES: 1\nCONFIDENCE: HIGH\nEXPLANATION: The passport scan matches.", nil
		default:
			return "", nil
		}
	}

	app := newTestApp(t, WithLLM(llm))
	ctx := context.Background()

	_, err := app.ScanDirectory(ctx, writeTestCorpus(t), false)
	require.NoError(t, err)

	chat, err := app.Chat(ctx, "find my travel documents", 5)
	require.NoError(t, err)
	require.Len(t, chat.Files, 1)
	assert.Equal(t, "passport.txt", chat.Files[0].FileName)
	assert.Contains(t, chat.Reasoning, "(Confidence: HIGH)")

	status := app.Status(ctx)
	assert.Equal(t, "mock", status.Provider)
}

func TestAppRestoresIndexFromCache(t *testing.T) {
	dataDir := t.TempDir()
	docs := writeTestCorpus(t)
	ctx := context.Background()

	first, err := New(ctx, dataDir, WithEmbedder(testEmbedder()), WithLLM(nil))
	require.NoError(t, err)
	_, err = first.ScanDirectory(ctx, docs, false)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	restoredEmbedder := testEmbedder()
	second, err := New(ctx, dataDir, WithEmbedder(restoredEmbedder), WithLLM(nil))
	require.NoError(t, err)
	defer second.Close()

	assert.True(t, second.Status(ctx).IndexReady, "index restored without scanning")
	assert.Equal(t, 0, restoredEmbedder.CallCount(), "restore must not embed")

	results, err := second.Search(ctx, "passport", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "passport.txt", results[0].FileName)
}

func TestAppClearIndex(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.ScanDirectory(ctx, writeTestCorpus(t), false)
	require.NoError(t, err)

	require.NoError(t, app.ClearIndex(ctx))

	status := app.Status(ctx)
	assert.Zero(t, status.IndexedFiles)
	assert.False(t, status.IndexReady)

	_, err = app.Search(ctx, "resume", 5)
	assert.Error(t, err)
}

func TestAppForceRescanOfEmptiedDirClearsIndex(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	docs := writeTestCorpus(t)

	_, err := app.ScanDirectory(ctx, docs, false)
	require.NoError(t, err)
	require.True(t, app.Status(ctx).IndexReady)

	require.NoError(t, os.Remove(filepath.Join(docs, "resume.txt")))
	require.NoError(t, os.Remove(filepath.Join(docs, "passport.txt")))

	stats, err := app.ScanDirectory(ctx, docs, true)
	require.NoError(t, err)
	assert.Zero(t, stats.Indexed)

	status := app.Status(ctx)
	assert.Zero(t, status.IndexedFiles)
	assert.False(t, status.IndexReady, "vectors must not outlive their documents")

	_, err = app.Search(ctx, "resume", 5)
	assert.Error(t, err, "search must not serve documents removed from the corpus")
}

func TestAppConversationLifecycle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.ScanDirectory(ctx, writeTestCorpus(t), false)
	require.NoError(t, err)

	_, err = app.Chat(ctx, "find my resume", 5)
	require.NoError(t, err)

	history := app.ConversationHistory()
	require.Len(t, history, 2)
	assert.Equal(t, core.RoleUser, history[0].Role)

	app.ClearConversation()
	assert.Empty(t, app.ConversationHistory())
}

func TestAppScanControlsWithoutActiveScan(t *testing.T) {
	app := newTestApp(t)

	assert.False(t, app.CancelScan())
	_, ok := app.ScanProgress()
	assert.False(t, ok)
}

func TestAppCancelledScanSkipsRebuild(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	stats := &core.ScanStats{Status: core.ScanStatusCancelled, Indexed: 1}
	require.NoError(t, app.rebuildIndex(ctx, stats))
	assert.False(t, app.Status(ctx).IndexReady)
}

func TestAppStartScanRebuildsIndex(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	docs := writeTestCorpus(t)

	op, err := app.StartScan(ctx, docs, false, nil)
	require.NoError(t, err)

	stats, err := op.Wait()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Indexed)

	// The rebuild runs in the background after Wait returns; poll briefly.
	require.Eventually(t, func() bool {
		return app.Status(ctx).IndexReady
	}, 5*time.Second, 10*time.Millisecond)
}
