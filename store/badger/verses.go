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


package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/store"
)

// writeBatchSize limits how many records a single transaction carries.
// Seeding a whole translation in one transaction would exceed Badger's
// transaction size limits.
const writeBatchSize = 1000

// VerseRepository implements store.VerseRepository for BadgerDB.
type VerseRepository struct {
	backend *Backend
}

var _ store.VerseRepository = (*VerseRepository)(nil)

// NewVerseRepository creates a new VerseRepository.
func NewVerseRepository(backend *Backend) (*VerseRepository, error) {
	return &VerseRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VerseRepository has no resources to release.
func (r *VerseRepository) Close() error {
	return nil
}

// Ready verifies that the database is open and holds at least one verse
// record. An empty corpus is treated as not ready so the retriever falls
// back to the API-only path instead of answering from nothing.
func (r *VerseRepository) Ready(ctx context.Context) error {
	if r.backend.IsClosed() {
		return store.ErrStorageClosed
	}

	found := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(verseRecordPrefix + ":")
		it := tx.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		found = it.Valid()
		return nil
	}, false)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: no verses stored", store.ErrNotReady)
	}
	return nil
}

// GetVerse retrieves one verse or a contiguous verse range for a translation.
// Range references resolve to a single Verse whose text joins the member
// verses in order; the range carries no embedding.
func (r *VerseRepository) GetVerse(ctx context.Context, ref core.Ref, translation string) (*core.Verse, error) {
	if err := core.ValidateRef(ref); err != nil {
		return nil, err
	}

	if !ref.IsRange() {
		var verse *core.Verse
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			var err error
			verse, err = readVerse(tx, makeVerseKey(ref, translation))
			return err
		}, false)
		if err != nil {
			return nil, err
		}
		if verse == nil {
			return nil, fmt.Errorf("%w: %s (%s)", store.ErrNotFound, ref.String(), translation)
		}
		return verse, nil
	}

	// Range: collect member verses and join their texts. Missing members
	// are skipped; the range resolves as long as at least one exists.
	var texts []string
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for v := ref.Verse; v <= ref.VerseEnd; v++ {
			member := core.Ref{Book: ref.Book, Chapter: ref.Chapter, Verse: v}
			verse, err := readVerse(tx, makeVerseKey(member, translation))
			if err != nil {
				return err
			}
			if verse == nil {
				continue
			}
			texts = append(texts, verse.Text)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", store.ErrNotFound, ref.String(), translation)
	}

	return &core.Verse{
		Ref:         ref,
		Translation: translation,
		Text:        strings.Join(texts, " "),
	}, nil
}

// GetVerses retrieves multiple references for a translation. Missing
// references are skipped, preserving the input order of the rest.
func (r *VerseRepository) GetVerses(ctx context.Context, refs []core.Ref, translation string) ([]*core.Verse, error) {
	verses := make([]*core.Verse, 0, len(refs))
	for _, ref := range refs {
		verse, err := r.GetVerse(ctx, ref, translation)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		verses = append(verses, verse)
	}
	return verses, nil
}

// FindNearest scans the embedded verses of a translation and returns those
// whose similarity to the query vector is at least minSimilarity, best first.
func (r *VerseRepository) FindNearest(ctx context.Context, vector []float32, translation string, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", store.ErrInvalidQuery)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", store.ErrInvalidQuery)
	}

	var matches []*core.SimilarityMatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTranslationPrefix(translation)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var verse *core.Verse
			err := it.Item().Value(func(val []byte) error {
				var err error
				verse, err = store.UnmarshalVerse(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(verse.Embedding) == 0 {
				continue
			}

			score := dotProduct(vector, verse.Embedding)
			if score < minSimilarity {
				continue
			}
			matches = append(matches, &core.SimilarityMatch{
				Verse: verse,
				Score: score,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// CountVerses counts stored verses for a translation.
func (r *VerseRepository) CountVerses(ctx context.Context, translation string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeTranslationPrefix(translation)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// AddVerses stores verses, committing in batches. Range references cannot
// be stored: the corpus holds single verses only.
func (r *VerseRepository) AddVerses(ctx context.Context, verses ...*core.Verse) error {
	for _, verse := range verses {
		if err := core.ValidateVerse(verse); err != nil {
			return err
		}
		if verse.Ref.IsRange() {
			return fmt.Errorf("%w: cannot store range %s", core.ErrInvalidRef, verse.Ref.String())
		}
	}

	for start := 0; start < len(verses); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(verses) {
			end = len(verses)
		}
		batch := verses[start:end]

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, verse := range batch {
				key := makeVerseKey(verse.Ref, verse.Translation)
				if err := tx.Set(key, store.MarshalVerse(verse)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListUnembedded lists verses of a translation that have no stored embedding
// yet, up to limit.
func (r *VerseRepository) ListUnembedded(ctx context.Context, translation string, limit int) ([]*core.Verse, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", store.ErrInvalidQuery)
	}

	var verses []*core.Verse
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTranslationPrefix(translation)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid() && len(verses) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var verse *core.Verse
			err := it.Item().Value(func(val []byte) error {
				var err error
				verse, err = store.UnmarshalVerse(val)
				return err
			})
			if err != nil {
				return err
			}
			if len(verse.Embedding) > 0 {
				continue
			}
			verses = append(verses, verse)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return verses, nil
}

// UpdateEmbeddings rewrites the stored embedding of each verse. Every verse
// must already exist.
func (r *VerseRepository) UpdateEmbeddings(ctx context.Context, verses ...*core.Verse) error {
	for start := 0; start < len(verses); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(verses) {
			end = len(verses)
		}
		batch := verses[start:end]

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, verse := range batch {
				key := makeVerseKey(verse.Ref, verse.Translation)
				stored, err := readVerse(tx, key)
				if err != nil {
					return err
				}
				if stored == nil {
					return fmt.Errorf("%w: %s (%s)", store.ErrNotFound, verse.Ref.String(), verse.Translation)
				}
				stored.Embedding = verse.Embedding
				if err := tx.Set(key, store.MarshalVerse(stored)); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}
	return nil
}

// readVerse reads and unmarshals a verse by key within a transaction.
// Returns nil (no error) if the key doesn't exist.
func readVerse(tx *badger.Txn, key []byte) (*core.Verse, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var verse *core.Verse
	err = item.Value(func(val []byte) error {
		var err error
		verse, err = store.UnmarshalVerse(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return verse, nil
}
