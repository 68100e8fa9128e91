package indexing

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/versecontext/ai"
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/store"
)

// BatchProcessor handles embedding generation for batches of verses.
type BatchProcessor struct {
	repo           store.VerseRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(repo store.VerseRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of verses and writes them back.
// Vectors are normalized before storage so similarity search can use the dot
// product directly.
func (bp *BatchProcessor) Process(ctx context.Context, verses []*core.Verse) error {
	if len(verses) == 0 {
		return nil
	}

	texts := make([]string, len(verses))
	for i, verse := range verses {
		texts[i] = verse.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(verses) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(verses), len(embeddings))
	}
	for i, vec := range embeddings {
		if len(vec) != ai.EmbeddingDim {
			return fmt.Errorf("%w: %s returned %d dimensions, want %d",
				ai.ErrDimensionMismatch, verses[i].Ref.String(), len(vec), ai.EmbeddingDim)
		}
	}

	for i := range verses {
		verses[i].Embedding = NormalizeVector(embeddings[i])
	}

	if err := bp.repo.UpdateEmbeddings(ctx, verses...); err != nil {
		return fmt.Errorf("failed to update embeddings: %w", err)
	}

	return nil
}
