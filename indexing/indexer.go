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


package indexing

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/versecontext/ai"
	"github.com/poiesic/versecontext/store"
)

// Config holds configuration for an indexing run.
type Config struct {
	// BatchSize is the number of verses embedded per API call
	BatchSize int

	// ReportInterval is how often to report progress (number of verses)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Workers is the number of batches embedded concurrently
	Workers int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		Workers:        workers,
	}
}

// Indexer embeds every unembedded verse of a translation.
type Indexer struct {
	repo      store.VerseRepository
	processor *BatchProcessor
	pool      *ants.Pool
	config    *Config
	progress  io.Writer
}

// NewIndexer creates a new indexer.
// progress: where to write progress output (typically os.Stderr)
func NewIndexer(repo store.VerseRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Indexer, error) {
	if repo == nil {
		return nil, ErrVerseRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	if config.Workers < 1 {
		config.Workers = 1
	}

	pool, err := ants.NewPool(config.Workers)
	if err != nil {
		return nil, err
	}

	return &Indexer{
		repo:      repo,
		processor: NewBatchProcessor(repo, embedder, config.MaxRetries, config.RetryDelay),
		pool:      pool,
		config:    config,
		progress:  progress,
	}, nil
}

// Run embeds every verse of the translation that has no stored embedding.
// Verses that already carry one are left alone, so re-running after an
// interruption resumes cleanly. Progress is reported to the configured writer.
func (ix *Indexer) Run(ctx context.Context, translation string) error {
	total, err := ix.repo.CountVerses(ctx, translation)
	if err != nil {
		return fmt.Errorf("failed to count verses: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(ix.progress, "No verses stored for %s (0 verses)\n", translation)
		return nil
	}

	pending, err := ix.repo.ListUnembedded(ctx, translation, total)
	if err != nil {
		return fmt.Errorf("failed to list unembedded verses: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintf(ix.progress, "All %d verses of %s already embedded\n", total, translation)
		return nil
	}

	fmt.Fprintf(ix.progress, "Indexing %d of %d verses (batch size: %d, workers: %d)\n",
		len(pending), total, ix.config.BatchSize, ix.config.Workers)

	tracker := NewProgressTracker(ix.progress, len(pending), ix.config.ReportInterval)
	tracker.Start()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for start := 0; start < len(pending); start += ix.config.BatchSize {
		if failed() {
			break
		}

		end := start + ix.config.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()
			if err := ix.processor.Process(ctx, batch); err != nil {
				fail(err)
				return
			}
			tracker.Increment(len(batch))
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}

	wg.Wait()
	if failed() {
		return firstErr
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(ix.progress, "Indexing complete. Embedded %d verses in %v (%.1f verses/sec)\n",
		len(pending), elapsed.Round(time.Second), float64(len(pending))/elapsed.Seconds())

	return nil
}

// Release releases the worker pool.
// The indexer should not be used after calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}
