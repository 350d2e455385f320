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


// Package ai provides abstractions for the AI services used in Foundit.
//
// This package defines interfaces for text generation and text embeddings.
// The search and retrieval layers depend only on these abstractions, so
// backends can be swapped without touching business logic.
//
// # Interfaces
//
//   - LLM: text generation, single-prompt and multi-turn
//   - Embedder: vector embeddings for semantic similarity
//
// # Implementation Packages
//
//   - ai/ollama: local models through an Ollama server
//   - ai/openai: OpenAI and OpenAI-compatible APIs
//   - ai/anthropic: Anthropic Claude models
//   - ai/mock: deterministic test doubles
//
// Production constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior and
// assert call counts.
//
// # Backend Selection
//
// Every LLM reports its own reachability through IsAvailable, and
// FirstAvailable picks the first reachable backend from an ordered list:
//
//	llm, err := ai.FirstAvailable(ctx, ollamaLLM, openaiLLM, anthropicLLM)
//
// Callers that need a specific backend construct it directly instead.
package ai
