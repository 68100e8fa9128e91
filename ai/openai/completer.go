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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/versecontext/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer by walking an ordered list of chat
// models, advancing to the next when one fails.
type Completer struct {
	clients []modelClient
	logger  *slog.Logger
}

type modelClient struct {
	model  string
	client llms.Model
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		token = "none"
	}

	clients := make([]modelClient, 0, len(config.CompletionModels))
	for _, model := range config.CompletionModels {
		client, err := openai.New(
			openai.WithBaseURL(config.Host),
			openai.WithToken(token),
			openai.WithModel(model),
		)
		if err != nil {
			return nil, err
		}
		clients = append(clients, modelClient{model: model, client: client})
	}

	return &Completer{
		clients: clients,
		logger:  slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends the prompts to each configured model in order until one
// answers. If every model failed and at least one failure was a quota
// refusal, the error is ai.ErrRateLimited so callers can treat it as
// transient.
func (c *Completer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	rateLimited := false
	var lastErr error
	for _, mc := range c.clients {
		response, err := mc.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			if isRateLimitErr(err) {
				rateLimited = true
			}
			c.logger.Warn("model failed, advancing", "model", mc.model, "err", err)
			lastErr = err
			continue
		}
		if len(response.Choices) < 1 {
			c.logger.Warn("model returned no choices, advancing", "model", mc.model)
			lastErr = fmt.Errorf("model %s returned no choices", mc.model)
			continue
		}
		return response.Choices[0].Content, nil
	}

	if rateLimited {
		return "", fmt.Errorf("%w: %v", ai.ErrRateLimited, lastErr)
	}
	return "", fmt.Errorf("all completion models failed: %w", lastErr)
}

// isRateLimitErr detects quota refusals from the error text. The upstream
// client doesn't expose status codes in a typed way.
func isRateLimitErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
}
