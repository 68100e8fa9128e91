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


// Package retrieval coordinates the full context-retrieval pipeline: cached
// snapshots first, then the store-backed path, then a reduced pure-API path
// when the store is unreachable. Policy, cross-reference expansion, and
// lexical enrichment run on whichever path produced candidates.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/poiesic/versecontext/ai"
	"github.com/poiesic/versecontext/cache"
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/crossref"
	"github.com/poiesic/versecontext/lexicon"
	"github.com/poiesic/versecontext/policy"
	"github.com/poiesic/versecontext/store"
)

const (
	// DefaultQuota is the number of primary verses the pipeline aims for
	// before skipping vector retrieval.
	DefaultQuota = 5

	// MinQueryRunes is the shortest normalized query worth embedding.
	// Anything shorter carries too little semantic signal for
	// nearest-neighbor search to mean much.
	MinQueryRunes = 12

	// SimilarityFloor is the minimum cosine similarity a vector match
	// must reach to become a candidate.
	SimilarityFloor = 0.60

	// DefaultTranslation is used when a request names none.
	DefaultTranslation = "WEB"
)

var (
	// ErrExhausted indicates every retrieval strategy failed. It is the
	// only terminal error the orchestrator produces besides rate
	// limiting and caller cancellation.
	ErrExhausted = errors.New("all retrieval strategies failed")

	errNoStore = errors.New("no corpus store configured")
)

// Strategy names which path produced a result.
type Strategy string

const (
	StrategyCache Strategy = "cache"
	StrategyStore Strategy = "store"
	StrategyAPI   Strategy = "api"
)

// Request is one retrieval call.
type Request struct {
	Query       string
	Translation string

	// Credential optionally overrides the default provider credential
	// for the suggestion call on the pure-API path.
	Credential string
}

// Result is an ordered verse list tagged with the strategy that produced it:
// primary verses first, cross-references last.
type Result struct {
	Verses   []*core.VerseContext
	Strategy Strategy
}

// Retriever is the top-level entry point for context retrieval.
type Retriever struct {
	verses store.VerseRepository
	edges  store.CrossRefRepository

	provider     ai.Provider
	suggesterFor func(credential string) ai.Suggester
	embedModel   string

	results  *cache.Cache
	guards   *policy.Engine
	curated  *policy.Matcher
	expander *crossref.Expander
	enricher *lexicon.Enricher
	fetcher  VerseFetcher

	quota  int
	logger *slog.Logger
}

// Option is a functional option for configuring a Retriever.
type Option func(*Retriever)

// WithStore sets the corpus store and cross-reference graph. Without them
// every request takes the pure-API path.
func WithStore(verses store.VerseRepository, edges store.CrossRefRepository) Option {
	return func(r *Retriever) {
		r.verses = verses
		r.edges = edges
	}
}

// WithProvider sets the AI provider used for embeddings and suggestions.
func WithProvider(provider ai.Provider) Option {
	return func(r *Retriever) {
		r.provider = provider
	}
}

// WithSuggesterFactory overrides how the pure-API path obtains a suggester
// for a request credential. The default ignores the credential and uses the
// configured provider's suggester.
func WithSuggesterFactory(fn func(credential string) ai.Suggester) Option {
	return func(r *Retriever) {
		r.suggesterFor = fn
	}
}

// WithEmbeddingModel sets the model identifier used in embedding cache keys.
func WithEmbeddingModel(model string) Option {
	return func(r *Retriever) {
		r.embedModel = model
	}
}

// WithCache sets the best-effort result/embedding cache.
func WithCache(c *cache.Cache) Option {
	return func(r *Retriever) {
		r.results = c
	}
}

// WithPolicy replaces the default topic guards and curated lists.
func WithPolicy(guards *policy.Engine, curated *policy.Matcher) Option {
	return func(r *Retriever) {
		r.guards = guards
		r.curated = curated
	}
}

// WithExpander sets the cross-reference expander.
func WithExpander(e *crossref.Expander) Option {
	return func(r *Retriever) {
		r.expander = e
	}
}

// WithEnricher sets the lexical enricher.
func WithEnricher(e *lexicon.Enricher) Option {
	return func(r *Retriever) {
		r.enricher = e
	}
}

// WithVerseFetcher sets the single-verse fetch service used by the pure-API
// path for references outside the bundled texts.
func WithVerseFetcher(f VerseFetcher) Option {
	return func(r *Retriever) {
		r.fetcher = f
	}
}

// WithQuota overrides the primary verse quota.
func WithQuota(quota int) Option {
	return func(r *Retriever) {
		if quota > 0 {
			r.quota = quota
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// NewRetriever creates a Retriever with default policy tables.
func NewRetriever(opts ...Option) *Retriever {
	r := &Retriever{
		guards:  policy.NewEngine(policy.DefaultGuards()),
		curated: policy.NewMatcher(policy.DefaultCuratedLists()),
		quota:   DefaultQuota,
		logger:  slog.Default().With("component", "retrieval"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.suggesterFor == nil {
		r.suggesterFor = func(string) ai.Suggester {
			if r.provider == nil {
				return nil
			}
			return r.provider.Suggester()
		}
	}
	return r
}

// Retrieve runs the full pipeline for one query and returns the ordered
// verse contexts: primary verses first, cross-references last. The returned
// slice is the caller's to mutate.
//
// Strategies are tried in order: cached snapshot, store-backed path,
// pure-API path. Rate limiting and caller cancellation abort immediately;
// any other failure falls through to the next strategy.
func (r *Retriever) Retrieve(ctx context.Context, req Request) (*Result, error) {
	if req.Translation == "" {
		req.Translation = DefaultTranslation
	}
	normalized := core.NormalizeQuery(req.Query)

	if r.results != nil {
		if verses, ok := r.results.GetResult(req.Translation, normalized); ok {
			r.logger.Debug("result cache hit", "translation", req.Translation)
			return &Result{Verses: verses, Strategy: StrategyCache}, nil
		}
	}

	strategies := []struct {
		name Strategy
		run  func(context.Context, Request, string) ([]*core.VerseContext, error)
	}{
		{StrategyStore, r.storePath},
		{StrategyAPI, r.apiPath},
	}

	var lastErr error
	for _, s := range strategies {
		verses, err := s.run(ctx, req, normalized)
		if err != nil {
			if !isTransient(err) {
				return nil, err
			}
			r.logger.Warn("retrieval strategy failed", "strategy", string(s.name), "err", err)
			lastErr = err
			continue
		}

		if r.results != nil {
			r.results.PutResult(req.Translation, normalized, verses)
		}
		return &Result{Verses: core.CloneVerses(verses), Strategy: s.name}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrExhausted, lastErr)
}

// isTransient reports whether a strategy failure should fall through to the
// next strategy. Rate limiting is surfaced to the caller as an actionable
// error, and cancellation belongs to the caller.
func isTransient(err error) bool {
	return !errors.Is(err, ai.ErrRateLimited) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// queryLongEnough applies the semantic-signal length heuristic.
func queryLongEnough(normalized string) bool {
	return utf8.RuneCountInString(normalized) >= MinQueryRunes
}
