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


package ai

import (
	"errors"
	"os"
	"strings"
)

// Config holds configuration for AI backends.
type Config struct {
	// OllamaHost is the base URL of a local Ollama server.
	// Example: "http://localhost:11434"
	OllamaHost string

	// OllamaModel is the model identifier used for generation on Ollama.
	// Example: "llama3.1:8b"
	OllamaModel string

	// OpenAIModel is the model identifier used for generation on OpenAI.
	// Example: "gpt-4"
	OpenAIModel string

	// OpenAIKey is the OpenAI API key.
	// Falls back to the OPENAI_API_KEY environment variable when empty.
	OpenAIKey string

	// AnthropicModel is the model identifier used for generation on Anthropic.
	// Example: "claude-3-5-sonnet-20241022"
	AnthropicModel string

	// AnthropicKey is the Anthropic API key.
	// Falls back to the ANTHROPIC_API_KEY environment variable when empty.
	AnthropicKey string

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithOllamaHost sets the Ollama server URL.
func WithOllamaHost(host string) ConfigOption {
	return func(c *Config) {
		c.OllamaHost = host
	}
}

// WithOllamaModel sets the Ollama generation model.
func WithOllamaModel(model string) ConfigOption {
	return func(c *Config) {
		c.OllamaModel = model
	}
}

// WithOpenAI sets the OpenAI model and API key.
func WithOpenAI(model, key string) ConfigOption {
	return func(c *Config) {
		c.OpenAIModel = model
		c.OpenAIKey = key
	}
}

// WithAnthropic sets the Anthropic model and API key.
func WithAnthropic(model, key string) ConfigOption {
	return func(c *Config) {
		c.AnthropicModel = model
		c.AnthropicKey = key
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local services.
// API keys default to their conventional environment variables.
func DefaultConfig() *Config {
	return &Config{
		OllamaHost:     "http://localhost:11434",
		OllamaModel:    "llama3.1:8b",
		OpenAIModel:    "gpt-4",
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		AnthropicModel: "claude-3-5-sonnet-20241022",
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithOllamaModel("mistral:7b"),
//	    ai.WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// The embedding host gets a /v1 suffix if missing, which is required by
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc); the Ollama host must
// NOT carry one because Ollama's native API lives at the root.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	c.OllamaHost = strings.TrimSuffix(c.OllamaHost, "/v1")
	c.OllamaHost = strings.TrimSuffix(c.OllamaHost, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.OllamaHost == "" {
		return errors.New("ai config: OllamaHost is required")
	}
	if c.OllamaModel == "" {
		return errors.New("ai config: OllamaModel is required")
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
