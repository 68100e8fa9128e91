package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector has EmbeddingDim dimensions and is normalized.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Suggester proposes scripture references for a topical query. It is the
// degraded substitute for vector retrieval when no corpus store is available.
// Implementations must be thread-safe for concurrent use.
type Suggester interface {
	// SuggestReferences returns up to three reference strings (such as
	// "John 3:16") relevant to the query. Suggestions that don't parse as
	// references are the caller's problem to filter.
	// Returns an empty slice if the model has nothing to offer.
	SuggestReferences(ctx context.Context, query string) ([]string, error)
}

// Completer generates a chat completion, walking an ordered list of models
// and advancing to the next on failure.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the system and user prompts to each configured model
	// in order until one answers, and returns the raw response text.
	// Returns ErrRateLimited when every model was refused for quota
	// reasons, so callers can distinguish throttling from hard failure.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder, Suggester, and
// Completer instances, ensuring they share configuration and resources.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Suggester returns the reference suggestion service.
	// The returned Suggester is safe for concurrent use.
	Suggester() Suggester

	// Completer returns the chat completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
