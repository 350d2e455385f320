package mock

import (
	"context"

	"github.com/poiesic/foundit/ai"
)

// MockLLM is a test double for ai.LLM.
// It allows custom behavior injection via function fields.
type MockLLM struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns a canned completion.
	GenerateFunc func(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error)

	// ChatFunc is called by Chat if set.
	// If nil, returns a canned completion.
	ChatFunc func(ctx context.Context, messages []ai.Message, opts ...ai.CallOption) (string, error)

	// Available controls IsAvailable. Defaults to true.
	Available bool

	generateCalls int
	chatCalls     int
	lastPrompt    string
}

// NewMockLLM creates a mock LLM that is available and returns canned output.
// Note: Returns concrete type to allow test assertions.
func NewMockLLM() *MockLLM {
	return &MockLLM{Available: true}
}

// Name identifies the backend.
func (m *MockLLM) Name() string {
	return "mock"
}

// IsAvailable reports the configured availability.
func (m *MockLLM) IsAvailable(ctx context.Context) bool {
	return m.Available
}

// Generate returns the injected completion or a canned one.
func (m *MockLLM) Generate(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
	m.generateCalls++
	m.lastPrompt = prompt

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, opts...)
	}
	return "mock response", nil
}

// Chat returns the injected completion or a canned one.
func (m *MockLLM) Chat(ctx context.Context, messages []ai.Message, opts ...ai.CallOption) (string, error) {
	m.chatCalls++

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages, opts...)
	}
	return "mock response", nil
}

// GenerateCalls returns the number of Generate invocations.
func (m *MockLLM) GenerateCalls() int {
	return m.generateCalls
}

// ChatCalls returns the number of Chat invocations.
func (m *MockLLM) ChatCalls() int {
	return m.chatCalls
}

// LastPrompt returns the prompt passed to the most recent Generate call.
func (m *MockLLM) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears call counts and injected behavior.
func (m *MockLLM) Reset() {
	m.generateCalls = 0
	m.chatCalls = 0
	m.lastPrompt = ""
	m.GenerateFunc = nil
	m.ChatFunc = nil
	m.Available = true
}
