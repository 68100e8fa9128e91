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
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/versecontext/ai"
)

// maxSuggestions caps how many references the suggester passes back.
const maxSuggestions = 3

// Suggester implements ai.Suggester using an OpenAI-compatible chat API.
type Suggester struct {
	completer ai.Completer
	logger    *slog.Logger
}

// suggestion is the wrapper structure for the LLM's JSON response.
type suggestion struct {
	References []string `json:"references"`
}

// newSuggester is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSuggester(completer ai.Completer) *Suggester {
	return &Suggester{
		completer: completer,
		logger:    slog.Default().With("component", "openai-suggester"),
	}
}

// NewSuggester creates a reference suggester on top of a completer.
//
// Returns ai.Suggester interface to enforce abstraction.
func NewSuggester(completer ai.Completer) ai.Suggester {
	return newSuggester(completer)
}

// SuggestReferences asks the model for scripture references relevant to the
// query. Malformed JSON is repaired and retried up to 3 times.
func (s *Suggester) SuggestReferences(ctx context.Context, query string) ([]string, error) {
	var result suggestion
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.completer.Complete(ctx, suggestionSystemPrompt, query)
		if err != nil {
			if errors.Is(err, ai.ErrRateLimited) {
				return nil, err
			}
			s.logger.Error("failed to generate suggestions", "attempt", attempt+1, "err", err)
			return nil, err
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			s.logger.Warn("error parsing suggester response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		s.logger.Error("failed to parse suggester response after retries", "err", lastErr)
		return nil, ai.ErrNoSuggestions
	}

	refs := make([]string, 0, maxSuggestions)
	for _, r := range result.References {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		refs = append(refs, r)
		if len(refs) == maxSuggestions {
			break
		}
	}

	s.logger.Debug("suggested references", "count", len(refs))
	return refs, nil
}
