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
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/store"
)

// CrossRefRepository implements store.CrossRefRepository for BadgerDB.
type CrossRefRepository struct {
	backend *Backend
}

var _ store.CrossRefRepository = (*CrossRefRepository)(nil)

// NewCrossRefRepository creates a new CrossRefRepository.
func NewCrossRefRepository(backend *Backend) (*CrossRefRepository, error) {
	return &CrossRefRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CrossRefRepository has no resources to release.
func (r *CrossRefRepository) Close() error {
	return nil
}

// Ready verifies that the database is open. An empty graph is valid: a
// corpus without cross-references simply never expands.
func (r *CrossRefRepository) Ready(ctx context.Context) error {
	if r.backend.IsClosed() {
		return store.ErrStorageClosed
	}
	return nil
}

// EdgesFrom returns edges leaving the given single-verse reference whose
// weight exceeds minWeight, ordered by descending weight, up to limit.
func (r *CrossRefRepository) EdgesFrom(ctx context.Context, source core.Ref, minWeight float32, limit int) ([]core.CrossRefEdge, error) {
	if source.IsRange() {
		return nil, fmt.Errorf("%w: edge lookup requires a single verse, got %s", store.ErrInvalidQuery, source.String())
	}
	if err := core.ValidateRef(source); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", store.ErrInvalidQuery)
	}

	var edges []core.CrossRefEdge
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeEdgeSourcePrefix(source)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var edge core.CrossRefEdge
			err := it.Item().Value(func(val []byte) error {
				var err error
				edge, err = store.UnmarshalEdge(val)
				return err
			})
			if err != nil {
				return err
			}
			if edge.Weight <= minWeight {
				continue
			}
			edges = append(edges, edge)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Weight > edges[j].Weight
	})
	if len(edges) > limit {
		edges = edges[:limit]
	}
	return edges, nil
}

// AddEdges stores cross-reference edges, committing in batches.
func (r *CrossRefRepository) AddEdges(ctx context.Context, edges ...core.CrossRefEdge) error {
	for _, edge := range edges {
		if err := core.ValidateEdge(edge); err != nil {
			return err
		}
	}

	for start := 0; start < len(edges); start += writeBatchSize {
		end := start + writeBatchSize
		if end > len(edges) {
			end = len(edges)
		}
		batch := edges[start:end]

		err := r.backend.WithTx(func(tx *badger.Txn) error {
			for _, edge := range batch {
				key := makeEdgeKey(edge.Source, edge.Target)
				if err := tx.Set(key, store.MarshalEdge(edge)); err != nil {
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
