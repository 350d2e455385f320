package ai

import "strings"

// Chat message roles as understood by every backend.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation sent to an LLM.
type Message struct {
	// Role is one of RoleSystem, RoleUser, RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// CallOptions holds per-call generation parameters.
type CallOptions struct {
	// MaxTokens caps the length of the generated completion.
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float64
}

// CallOption is a functional option for a single LLM call.
type CallOption func(*CallOptions)

// WithMaxTokens caps the completion length for one call.
func WithMaxTokens(n int) CallOption {
	return func(o *CallOptions) {
		if n > 0 {
			o.MaxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature for one call.
func WithTemperature(t float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = t
	}
}

// ApplyCallOptions resolves options against the defaults
// (1000 max tokens, temperature 0.7).
func ApplyCallOptions(opts ...CallOption) CallOptions {
	o := CallOptions{MaxTokens: 1000, Temperature: 0.7}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CleanResponse strips instruction-tuning control tokens that some models
// leak into their output, and trims surrounding whitespace.
func CleanResponse(s string) string {
	for _, token := range []string{"<s>", "</s>", "[INST]", "[/INST]", "[OUT]", "[/OUT]"} {
		s = strings.ReplaceAll(s, token, "")
	}
	return strings.TrimSpace(s)
}
