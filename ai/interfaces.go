package ai

import "context"

// LLM generates text from prompts or multi-turn conversations.
// Implementations must be thread-safe for concurrent use.
type LLM interface {
	// Generate produces a completion for a single prompt.
	// Returns an error if the backend call fails.
	Generate(ctx context.Context, prompt string, opts ...CallOption) (string, error)

	// Chat produces the assistant's next message for a conversation.
	// Messages are sent in order; the last message is typically RoleUser.
	// Returns an error if the backend call fails.
	Chat(ctx context.Context, messages []Message, opts ...CallOption) (string, error)

	// IsAvailable reports whether the backend is currently reachable.
	// It must return quickly and never panic; a probe failure means false.
	IsAvailable(ctx context.Context) bool

	// Name identifies the backend for logging and status reporting.
	Name() string
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// FirstAvailable returns the first candidate whose IsAvailable probe
// succeeds. Candidate order expresses preference; nil entries are skipped.
// Returns ErrNoProviderAvailable when every probe fails.
func FirstAvailable(ctx context.Context, candidates ...LLM) (LLM, error) {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if c.IsAvailable(ctx) {
			return c, nil
		}
	}
	return nil, ErrNoProviderAvailable
}
