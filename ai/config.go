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
	"strings"
)

// EmbeddingDim is the dimensionality every embedding in the system must have.
// Stored verse embeddings and query embeddings share this dimension; a vector
// of any other length is rejected with ErrDimensionMismatch.
const EmbeddingDim = 384

// Config holds configuration for AI service providers.
type Config struct {
	// Host is the base URL for the OpenAI-compatible API serving both
	// embeddings and chat completions.
	// Example: "http://localhost:11434/v1" for a local server
	Host string

	// APIKey authenticates against the API. Leave empty for local services
	// that don't require authentication.
	APIKey string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// CompletionModels is the ordered list of chat models to try for
	// completions and reference suggestions. The completer walks the list
	// and advances to the next model when one fails.
	CompletionModels []string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the API host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithAPIKey sets the API credential.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionModels sets the ordered chat model fallback list.
func WithCompletionModels(models ...string) ConfigOption {
	return func(c *Config) {
		c.CompletionModels = models
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:             "http://localhost:11434/v1",
		EmbeddingModel:   "embeddinggemma",
		CompletionModels: []string{"qwen2.5:3b", "llama3.2:3b", "gemma2:2b"},
	}
}

// NewConfig creates a Config with the default values and applies the provided
// options. This is the recommended way to create a Config with custom
// settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("https://api.example.com"),
//	    WithCompletionModels("gpt-4o-mini", "gpt-4o"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if len(c.CompletionModels) == 0 {
		return errors.New("ai config: at least one completion model is required")
	}
	for _, model := range c.CompletionModels {
		if strings.TrimSpace(model) == "" {
			return errors.New("ai config: completion model names must not be blank")
		}
	}
	return nil
}
