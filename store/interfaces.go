package store

import (
	"context"

	"github.com/poiesic/versecontext/core"
)

// Repository provides common operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Ready verifies that the backing store is reachable and holds the
	// expected data layout. The retriever calls it before the store-backed
	// path; failure forces the pure-API fallback.
	Ready(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// VerseRepository provides read access to the verse corpus, plus the write
// operations used only by the offline seeding and indexing jobs. At request
// time the corpus is read-only.
type VerseRepository interface {
	Repository

	// GetVerse retrieves one verse (or a contiguous verse range) for a
	// translation. Range references resolve to a single Verse whose text
	// joins the member verses in order.
	// Returns ErrNotFound if the verse doesn't exist.
	GetVerse(ctx context.Context, ref core.Ref, translation string) (*core.Verse, error)

	// GetVerses retrieves multiple references for a translation.
	// Missing references are skipped (no error), preserving input order.
	GetVerses(ctx context.Context, refs []core.Ref, translation string) ([]*core.Verse, error)

	// FindNearest finds verses of the given translation nearest to the
	// query vector, restricted to rows that carry a stored embedding.
	// Returns matches with similarity >= minSimilarity, best first, up to
	// limit results.
	FindNearest(ctx context.Context, vector []float32, translation string, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error)

	// CountVerses counts stored verses for a translation.
	CountVerses(ctx context.Context, translation string) (int, error)

	// AddVerses stores verses. Seeding only.
	AddVerses(ctx context.Context, verses ...*core.Verse) error

	// ListUnembedded lists verses of a translation that have no stored
	// embedding yet, up to limit. Used by the indexing pipeline.
	ListUnembedded(ctx context.Context, translation string, limit int) ([]*core.Verse, error)

	// UpdateEmbeddings rewrites the stored embedding of each verse.
	// Returns ErrNotFound if any verse doesn't exist. Indexing only.
	UpdateEmbeddings(ctx context.Context, verses ...*core.Verse) error
}

// CrossRefRepository provides read access to the cross-reference graph, plus
// the write operation used by offline seeding.
type CrossRefRepository interface {
	Repository

	// EdgesFrom returns edges leaving the given single-verse reference
	// whose weight exceeds minWeight, ordered by descending weight, up to
	// limit results.
	EdgesFrom(ctx context.Context, source core.Ref, minWeight float32, limit int) ([]core.CrossRefEdge, error)

	// AddEdges stores cross-reference edges. Seeding only.
	AddEdges(ctx context.Context, edges ...core.CrossRefEdge) error
}
