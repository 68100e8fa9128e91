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


package versecontext

import (
	"io"
	"log/slog"

	"github.com/poiesic/versecontext/ai"
	"github.com/poiesic/versecontext/ai/openai"
	"github.com/poiesic/versecontext/cache"
	"github.com/poiesic/versecontext/crossref"
	"github.com/poiesic/versecontext/indexing"
	"github.com/poiesic/versecontext/lexicon"
	"github.com/poiesic/versecontext/retrieval"
	"github.com/poiesic/versecontext/store"
	"github.com/poiesic/versecontext/store/badger"
)

// Library bundles the corpus store, cross-reference graph, AI provider, and
// result cache behind one handle. It is the intended entry point for
// applications: open a Library, build a Retriever or Indexer from it, close
// it when done.
type Library struct {
	backend      *badger.Backend
	verseRepo    store.VerseRepository
	crossRefRepo store.CrossRefRepository
	provider     ai.Provider
	cache        *cache.Cache
	aiConfig     *ai.Config
	logger       *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig     *ai.Config
	disableCache bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(cfg *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithoutCache disables the in-process result and embedding cache.
func WithoutCache() LibraryOption {
	return func(o *libraryOptions) {
		o.disableCache = true
	}
}

// NewLibrary opens the corpus database at filePath and wires up the AI
// provider and cache.
func NewLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	verseRepo, err := badger.NewVerseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	crossRefRepo, err := badger.NewCrossRefRepository(backend)
	if err != nil {
		verseRepo.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		crossRefRepo.Close()
		verseRepo.Close()
		backend.Close()
		return nil, err
	}

	var resultCache *cache.Cache
	if !options.disableCache {
		resultCache, err = cache.New()
		if err != nil {
			provider.Close()
			crossRefRepo.Close()
			verseRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Library{
		backend:      backend,
		verseRepo:    verseRepo,
		crossRefRepo: crossRefRepo,
		provider:     provider,
		cache:        resultCache,
		aiConfig:     options.aiConfig,
		logger:       slog.Default(),
	}, nil
}

// Close releases every resource the library holds.
func (l *Library) Close() error {
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}
	if l.cache != nil {
		l.cache.Close()
	}

	if err := l.crossRefRepo.Close(); err != nil {
		l.logger.Error("error closing cross-reference repository", "err", err)
		return err
	}
	if err := l.verseRepo.Close(); err != nil {
		l.logger.Error("error closing verse repository", "err", err)
		return err
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// VerseRepository returns the corpus store.
func (l *Library) VerseRepository() store.VerseRepository {
	return l.verseRepo
}

// CrossRefRepository returns the cross-reference graph.
func (l *Library) CrossRefRepository() store.CrossRefRepository {
	return l.crossRefRepo
}

// NewRetriever builds a fully wired retriever: store, provider, cache,
// cross-reference expansion, and lexical enrichment. Additional options are
// applied after the library's own wiring, so callers can override any of it.
func (l *Library) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	enricher, err := lexicon.NewEnricher()
	if err != nil {
		return nil, err
	}

	base := []retrieval.Option{
		retrieval.WithStore(l.verseRepo, l.crossRefRepo),
		retrieval.WithProvider(l.provider),
		retrieval.WithEmbeddingModel(l.aiConfig.EmbeddingModel),
		retrieval.WithExpander(crossref.NewExpander(l.verseRepo, l.crossRefRepo)),
		retrieval.WithEnricher(enricher),
	}
	if l.cache != nil {
		base = append(base, retrieval.WithCache(l.cache))
	}

	return retrieval.NewRetriever(append(base, opts...)...), nil
}

// NewIndexer builds an indexer over the library's corpus and embedder.
// progress: where to write progress output (typically os.Stderr)
func (l *Library) NewIndexer(config *indexing.Config, progress io.Writer) (*indexing.Indexer, error) {
	return indexing.NewIndexer(l.verseRepo, l.provider.Embedder(), config, progress)
}
