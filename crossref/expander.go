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


// Package crossref enriches a result set by following the cross-reference
// graph outward from the primary verses. Expansion is strictly best-effort:
// any lookup failure leaves the primaries unexpanded.
package crossref

import (
	"context"
	"log/slog"

	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/store"
)

const (
	// WeightThreshold is the minimum (exclusive) edge weight an expansion
	// must carry. Weaker links add noise, not context.
	WeightThreshold = 0.55

	// MaxExpansions caps the total number of cross-reference verses added
	// to a result set, across all primaries.
	MaxExpansions = 3
)

// Expander follows cross-reference edges from primary verses and appends the
// strongest linked verses to the result set.
type Expander struct {
	verses store.VerseRepository
	edges  store.CrossRefRepository
	logger *slog.Logger
}

// Option is a functional option for configuring an Expander.
type Option func(*Expander)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Expander) {
		e.logger = logger
	}
}

// NewExpander creates an Expander over the given repositories.
func NewExpander(verses store.VerseRepository, edges store.CrossRefRepository, opts ...Option) *Expander {
	e := &Expander{
		verses: verses,
		edges:  edges,
		logger: slog.Default().With("component", "crossref"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns the primaries followed by up to MaxExpansions
// cross-reference verses. Edges are gathered per primary in result order,
// strongest first, skipping targets already present in the result. A range
// primary contributes edges from its first verse.
//
// Expansion never fails: if the graph or a verse lookup errors, the
// primaries are returned as they came in.
func (e *Expander) Expand(ctx context.Context, primaries []*core.VerseContext, translation string) []*core.VerseContext {
	if len(primaries) == 0 {
		return primaries
	}

	seen := make(map[string]bool, len(primaries)+MaxExpansions)
	seenText := make(map[core.ID]bool, len(primaries)+MaxExpansions)
	for _, p := range primaries {
		seen[p.Reference] = true
		if ref, ok := core.ParseRef(p.Reference); ok {
			seen[singleRef(ref).String()] = true
		}
		seenText[core.IDFromText(p.Text)] = true
	}

	var expansions []*core.VerseContext
	for _, p := range primaries {
		if len(expansions) >= MaxExpansions {
			break
		}

		ref, ok := core.ParseRef(p.Reference)
		if !ok {
			continue
		}
		source := singleRef(ref)
		edges, err := e.edges.EdgesFrom(ctx, source, WeightThreshold, MaxExpansions)
		if err != nil {
			e.logger.Warn("cross-reference lookup failed, skipping expansion",
				"source", source.String(), "err", err)
			return primaries
		}

		for _, edge := range edges {
			if len(expansions) >= MaxExpansions {
				break
			}
			if seen[edge.Target.String()] {
				continue
			}

			verse, err := e.verses.GetVerse(ctx, edge.Target, translation)
			if err != nil {
				// A dangling edge costs one candidate slot, nothing more.
				e.logger.Warn("cross-reference target not resolvable",
					"target", edge.Target.String(), "err", err)
				continue
			}
			if seenText[core.IDFromText(verse.Text)] {
				continue
			}

			vc := verse.Context()
			vc.IsCrossReference = true
			expansions = append(expansions, vc)
			seen[edge.Target.String()] = true
			seenText[core.IDFromText(verse.Text)] = true
		}
	}

	if len(expansions) == 0 {
		return primaries
	}
	return append(primaries, expansions...)
}

// singleRef reduces a reference to its first verse, which is how ranges are
// keyed in the cross-reference graph.
func singleRef(ref core.Ref) core.Ref {
	return core.Ref{Book: ref.Book, Chapter: ref.Chapter, Verse: ref.Verse}
}
