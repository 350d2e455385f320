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


package ollama

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/poiesic/foundit/ai"
)

const probeTimeout = 2 * time.Second

// LLM implements ai.LLM against a local Ollama server.
type LLM struct {
	client *ollama.LLM
	host   string
	model  string
	logger *slog.Logger
}

// New creates an Ollama-backed LLM.
//
// Returns ai.LLM interface (not *LLM) to enforce abstraction.
func New(config *ai.Config) (ai.LLM, error) {
	return newLLM(config)
}

// newLLM is an internal constructor that returns the concrete type.
func newLLM(config *ai.Config) (*LLM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := ollama.New(
		ollama.WithServerURL(config.OllamaHost),
		ollama.WithModel(config.OllamaModel),
	)
	if err != nil {
		return nil, err
	}

	return &LLM{
		client: client,
		host:   config.OllamaHost,
		model:  config.OllamaModel,
		logger: slog.Default().With("component", "ollama-llm"),
	}, nil
}

// Name identifies the backend.
func (l *LLM) Name() string {
	return "ollama"
}

// IsAvailable probes the server's tag listing with a short timeout.
func (l *LLM) IsAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, l.host+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		l.logger.Warn("ollama not available", "host", l.host, "err", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Generate produces a completion for a single prompt.
func (l *LLM) Generate(ctx context.Context, prompt string, opts ...ai.CallOption) (string, error) {
	o := ai.ApplyCallOptions(opts...)
	l.logger.Debug("generating", "model", l.model, "prompt_len", len(prompt), "max_tokens", o.MaxTokens)

	response, err := llms.GenerateFromSinglePrompt(ctx, l.client, prompt,
		llms.WithMaxTokens(o.MaxTokens),
		llms.WithTemperature(o.Temperature),
	)
	if err != nil {
		l.logger.Error("ollama generate failed", "err", err)
		return "", err
	}

	return ai.CleanResponse(response), nil
}

// Chat produces the assistant's next message for a conversation.
func (l *LLM) Chat(ctx context.Context, messages []ai.Message, opts ...ai.CallOption) (string, error) {
	o := ai.ApplyCallOptions(opts...)
	l.logger.Debug("chatting", "model", l.model, "turns", len(messages), "max_tokens", o.MaxTokens)

	response, err := l.client.GenerateContent(ctx, chatContent(messages),
		llms.WithMaxTokens(o.MaxTokens),
		llms.WithTemperature(o.Temperature),
	)
	if err != nil {
		l.logger.Error("ollama chat failed", "err", err)
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}

	return ai.CleanResponse(response.Choices[0].Content), nil
}

// chatContent converts conversation turns to langchaingo message content.
func chatContent(messages []ai.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role := llms.ChatMessageTypeHuman
		switch m.Role {
		case ai.RoleSystem:
			role = llms.ChatMessageTypeSystem
		case ai.RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(m.Content)},
		})
	}
	return content
}
