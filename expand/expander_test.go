package expand

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/foundit/ai"
	"github.com/poiesic/foundit/ai/mock"
)

func TestAddSynonyms(t *testing.T) {
	t.Run("appends terms for matched trigger", func(t *testing.T) {
		out := AddSynonyms("find my resume", "find my resume")
		assert.Contains(t, out, "curriculum")
		assert.Contains(t, out, "CV")
		assert.True(t, strings.HasPrefix(out, "find my resume "))
	})

	t.Run("skips terms already in query", func(t *testing.T) {
		out := AddSynonyms("resume CV", "resume CV")
		assert.Equal(t, 1, strings.Count(strings.ToLower(out), "cv"))
	})

	t.Run("no trigger leaves query untouched", func(t *testing.T) {
		assert.Equal(t, "beach photos", AddSynonyms("beach photos", "beach photos"))
	})

	t.Run("deduplicates across groups", func(t *testing.T) {
		// "job offer" triggers both the "job" and "job offer" groups;
		// shared terms like "hire" must appear once.
		out := AddSynonyms("job offer", "job offer")
		assert.Equal(t, 1, strings.Count(strings.ToLower(out), "hire "))
	})

	t.Run("triggers match the original message not the phrasing", func(t *testing.T) {
		out := AddSynonyms("curriculum vitae", "find my resume")
		assert.Contains(t, out, "employment")
	})
}

func TestEnhanceWithoutLLM(t *testing.T) {
	e := New(nil)
	out := e.Enhance(context.Background(), "travel documents")
	assert.Contains(t, out, "passport")
	assert.Contains(t, out, "i-94")
}

func TestEnhanceAppendsLLMTerms(t *testing.T) {
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		return "  itinerary customs declaration  ", nil
	}

	e := New(llm)
	out := e.Enhance(context.Background(), "travel documents")
	assert.Contains(t, out, "passport", "synonym table still applies")
	assert.True(t, strings.HasSuffix(out, "itinerary customs declaration"))
}

func TestEnhanceCachesPerSession(t *testing.T) {
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		return "extra terms", nil
	}

	e := New(llm)
	ctx := context.Background()

	first := e.Enhance(ctx, "find my resume")
	second := e.Enhance(ctx, "Find My Resume")

	assert.Equal(t, first, second, "cache key is case-insensitive")
	assert.Equal(t, 1, llm.GenerateCalls())
}

func TestEnhanceSurvivesLLMError(t *testing.T) {
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		return "", errors.New("connection refused")
	}

	e := New(llm)
	out := e.Enhance(context.Background(), "meeting notes")
	assert.Contains(t, out, "minutes")
}

func TestKeywords(t *testing.T) {
	t.Run("returns model output", func(t *testing.T) {
		llm := mock.NewMockLLM()
		llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
			return "tax 2024 1040 W2 filing", nil
		}
		e := New(llm)
		assert.Equal(t, "tax 2024 1040 W2 filing", e.Keywords(context.Background(), "my 2024 taxes"))
	})

	t.Run("falls back on error", func(t *testing.T) {
		llm := mock.NewMockLLM()
		llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
			return "", errors.New("timeout")
		}
		e := New(llm)
		assert.Equal(t, "my 2024 taxes", e.Keywords(context.Background(), "my 2024 taxes"))
	})

	t.Run("falls back on empty output", func(t *testing.T) {
		llm := mock.NewMockLLM()
		llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
			return "   ", nil
		}
		e := New(llm)
		assert.Equal(t, "my 2024 taxes", e.Keywords(context.Background(), "my 2024 taxes"))
	})

	t.Run("nil model returns message", func(t *testing.T) {
		e := New(nil)
		assert.Equal(t, "anything", e.Keywords(context.Background(), "anything"))
	})
}

func TestPhrasingsParsesModelOutput(t *testing.T) {
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		return "PHRASING_1: resume professional experience\n" +
			"PHRASING_2: CV curriculum vitae\n" +
			"PHRASING_3: employment history work background\n" +
			"PHRASING_4: career profile application", nil
	}

	e := New(llm)
	phrasings := e.Phrasings(context.Background(), "find my resume")

	require.Len(t, phrasings, PhrasingCount)
	assert.True(t, strings.HasPrefix(phrasings[0], "resume professional experience"))
	assert.True(t, strings.HasPrefix(phrasings[1], "CV curriculum vitae"))
	// Synonyms triggered by the original message enrich each phrasing.
	assert.Contains(t, phrasings[2], "curriculum")
}

func TestPhrasingsIgnoresSurroundingChatter(t *testing.T) {
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		return "Sure! Here are the phrasings:\n" +
			"PHRASING_1: budget spreadsheet\n" +
			"PHRASING_2: expenses report\n" +
			"PHRASING_3: financial costs\n" +
			"PHRASING_4: spending accounting\n" +
			"Hope that helps!", nil
	}

	e := New(llm)
	phrasings := e.Phrasings(context.Background(), "budget files")
	require.Len(t, phrasings, PhrasingCount)
	assert.True(t, strings.HasPrefix(phrasings[3], "spending accounting"))
}

func TestPhrasingsFallbackOnShortOutput(t *testing.T) {
	llm := mock.NewMockLLM()
	calls := 0
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		calls++
		if calls == 1 {
			return "PHRASING_1: only one line", nil
		}
		return "resume CV employment", nil // keyword extraction fallback
	}

	e := New(llm)
	phrasings := e.Phrasings(context.Background(), "find my resume")

	require.Len(t, phrasings, PhrasingCount)
	for _, p := range phrasings {
		assert.Equal(t, phrasings[0], p, "fallback repeats one phrasing")
	}
	assert.True(t, strings.HasPrefix(phrasings[0], "resume CV employment"))
}

func TestPhrasingsFallbackOnError(t *testing.T) {
	llm := mock.NewMockLLM()
	llm.GenerateFunc = func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
		return "", errors.New("model offline")
	}

	e := New(llm)
	phrasings := e.Phrasings(context.Background(), "travel documents")

	require.Len(t, phrasings, PhrasingCount)
	assert.Contains(t, phrasings[0], "passport", "synonym table still enriches the fallback")
}

func TestPhrasingsWithoutLLM(t *testing.T) {
	e := New(nil)
	phrasings := e.Phrasings(context.Background(), "meeting notes")
	require.Len(t, phrasings, PhrasingCount)
	assert.Contains(t, phrasings[0], "minutes")
}
