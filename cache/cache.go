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


// Package cache provides a best-effort in-process cache for query embeddings
// and assembled retrieval results. A cache failure of any kind is logged and
// treated as a miss; callers never see an error from this package.
package cache

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/store"
)

const (
	// EmbeddingTTL is how long a query embedding stays cached. Embeddings
	// are stable for a given model, so this is generous.
	EmbeddingTTL = 24 * time.Hour

	// ResultTTL is how long an assembled result snapshot stays cached.
	// Short, so corpus reseeds and policy changes surface quickly.
	ResultTTL = 15 * time.Minute

	// resultSchemaVersion tags result snapshot keys. Bumping it orphans
	// every snapshot written under the old layout instead of decoding
	// them wrongly.
	resultSchemaVersion = "v1"
)

// Cache holds query embeddings keyed by model and normalized query, and
// result snapshots keyed by schema version, translation, and normalized
// query. Both sides are best-effort: writes may be dropped under pressure
// and reads may miss.
type Cache struct {
	embeddings *ristretto.Cache[string, []float32]
	results    *ristretto.Cache[string, []byte]
	logger     *slog.Logger
}

// Option is a functional option for configuring a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for dropped writes and decode failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a Cache with capacity for a working set of recent queries.
func New(opts ...Option) (*Cache, error) {
	embeddings, err := ristretto.NewCache(&ristretto.Config[string, []float32]{
		NumCounters: 100_000,
		MaxCost:     64 << 20, // 64 MiB of embeddings
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	results, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 100_000,
		MaxCost:     64 << 20, // 64 MiB of snapshots
		BufferItems: 64,
	})
	if err != nil {
		embeddings.Close()
		return nil, err
	}

	c := &Cache{
		embeddings: embeddings,
		results:    results,
		logger:     slog.Default().With("component", "cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the cache's resources.
func (c *Cache) Close() {
	c.embeddings.Close()
	c.results.Close()
}

// Wait blocks until pending writes are applied. Tests use it; request paths
// never should.
func (c *Cache) Wait() {
	c.embeddings.Wait()
	c.results.Wait()
}

// GetEmbedding returns the cached embedding for a model and query, if any.
// The returned slice is a copy the caller may keep.
func (c *Cache) GetEmbedding(model, query string) ([]float32, bool) {
	vec, found := c.embeddings.Get(embeddingKey(model, query))
	if !found {
		return nil, false
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, true
}

// PutEmbedding caches an embedding for a model and query.
func (c *Cache) PutEmbedding(model, query string, vec []float32) {
	if len(vec) == 0 {
		return
	}
	stored := make([]float32, len(vec))
	copy(stored, vec)
	cost := int64(len(stored) * 4)
	if !c.embeddings.SetWithTTL(embeddingKey(model, query), stored, cost, EmbeddingTTL) {
		c.logger.Debug("embedding cache write dropped", "model", model)
	}
}

// GetResult returns the cached result snapshot for a translation and query,
// if any. The snapshot is decoded fresh on every hit, so the caller owns the
// returned values outright.
func (c *Cache) GetResult(translation, query string) ([]*core.VerseContext, bool) {
	data, found := c.results.Get(resultKey(translation, query))
	if !found {
		return nil, false
	}
	verses, err := store.UnmarshalSnapshot(data)
	if err != nil {
		// A snapshot that no longer decodes is treated as a miss.
		c.logger.Warn("discarding undecodable result snapshot", "translation", translation, "err", err)
		c.results.Del(resultKey(translation, query))
		return nil, false
	}
	return verses, true
}

// PutResult caches an assembled result snapshot for a translation and query.
func (c *Cache) PutResult(translation, query string, verses []*core.VerseContext) {
	if len(verses) == 0 {
		return
	}
	data := store.MarshalSnapshot(verses)
	if !c.results.SetWithTTL(resultKey(translation, query), data, int64(len(data)), ResultTTL) {
		c.logger.Debug("result cache write dropped", "translation", translation)
	}
}

func embeddingKey(model, query string) string {
	return fmt.Sprintf("emb:%s:%s", model, core.NormalizeQuery(query))
}

func resultKey(translation, query string) string {
	return fmt.Sprintf("res:%s:%s:%s", resultSchemaVersion, translation, core.NormalizeQuery(query))
}
