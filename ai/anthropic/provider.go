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


package anthropic

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/poiesic/foundit/ai"
)

// LLM implements ai.LLM against the Anthropic messages API.
type LLM struct {
	client *anthropic.LLM
	model  string
	hasKey bool
	logger *slog.Logger
}

// New creates an Anthropic-backed LLM.
//
// Returns ai.LLM interface (not *LLM) to enforce abstraction.
func New(config *ai.Config) (ai.LLM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.AnthropicKey
	if token == "" {
		// The client constructor rejects an empty token; a placeholder keeps
		// construction working so IsAvailable can report the real state.
		token = "none"
	}
	client, err := anthropic.New(
		anthropic.WithToken(token),
		anthropic.WithModel(config.AnthropicModel),
	)
	if err != nil {
		return nil, err
	}

	return &LLM{
		client: client,
		model:  config.AnthropicModel,
		hasKey: config.AnthropicKey != "",
		logger: slog.Default().With("component", "anthropic-llm"),
	}, nil
}

// Name identifies the backend.
func (l *LLM) Name() string {
	return "anthropic"
}

// IsAvailable reports whether an API key was configured.
// No network probe; a bad key surfaces on the first call.
func (l *LLM) IsAvailable(ctx context.Context) bool {
	return l.hasKey
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
		l.logger.Error("anthropic generate failed", "err", err)
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
		l.logger.Error("anthropic chat failed", "err", err)
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
