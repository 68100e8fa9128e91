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


package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/versecontext/ai"
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/refparse"
)

// storePath is the primary strategy: explicit references and priority
// lookups resolved against the corpus store, topped up by vector similarity,
// then the shared policy and enrichment stages.
func (r *Retriever) storePath(ctx context.Context, req Request, normalized string) ([]*core.VerseContext, error) {
	if r.verses == nil {
		return nil, errNoStore
	}
	if err := r.verses.Ready(ctx); err != nil {
		return nil, err
	}

	refs := refparse.Extract(req.Query)
	refs = append(refs, priorityRefs(priorityTable, normalized, refs)...)

	stored, err := r.verses.GetVerses(ctx, refs, req.Translation)
	if err != nil {
		return nil, err
	}

	seen := newSeenSet()
	var candidates []*core.VerseContext
	for _, v := range stored {
		vc := v.Context()
		if seen.has(vc) {
			continue
		}
		seen.add(vc)
		candidates = append(candidates, vc)
	}

	if len(candidates) < r.quota && queryLongEnough(normalized) {
		candidates, err = r.vectorStage(ctx, normalized, req.Translation, candidates, seen)
		if err != nil {
			return nil, err
		}
	}

	return r.finish(ctx, normalized, req.Translation, candidates, true), nil
}

// vectorStage embeds the query and merges nearest-verse matches into the
// candidates. An embedding failure degrades the stage to a no-op when
// candidates already exist; with none, it fails the whole store path so the
// orchestrator can fall back.
func (r *Retriever) vectorStage(ctx context.Context, normalized, translation string, candidates []*core.VerseContext, seen *seenSet) ([]*core.VerseContext, error) {
	vec, err := r.queryEmbedding(ctx, normalized)
	if err != nil {
		if len(candidates) > 0 {
			r.logger.Warn("embedding failed, skipping vector retrieval", "err", err)
			return candidates, nil
		}
		return nil, err
	}

	matches, err := r.verses.FindNearest(ctx, vec, translation, SimilarityFloor, r.quota)
	if err != nil {
		return nil, err
	}

	for _, m := range matches {
		if len(candidates) >= r.quota {
			break
		}
		vc := m.Verse.Context()
		if seen.has(vc) {
			continue
		}
		seen.add(vc)
		candidates = append(candidates, vc)
	}
	return candidates, nil
}

// queryEmbedding returns the query's embedding, from cache when possible.
func (r *Retriever) queryEmbedding(ctx context.Context, normalized string) ([]float32, error) {
	if r.results != nil {
		if vec, ok := r.results.GetEmbedding(r.embedModel, normalized); ok {
			return vec, nil
		}
	}

	if r.provider == nil {
		return nil, errors.New("no embedding provider configured")
	}
	vec, err := r.provider.Embedder().EmbedText(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(vec) != ai.EmbeddingDim {
		return nil, fmt.Errorf("%w: got %d, want %d", ai.ErrDimensionMismatch, len(vec), ai.EmbeddingDim)
	}

	if r.results != nil {
		r.results.PutEmbedding(r.embedModel, normalized, vec)
	}
	return vec, nil
}

// apiPath is the degraded strategy: no corpus store, references resolved
// from bundled texts or a single-verse fetch service, with a constrained
// model suggestion when explicit references leave the result too thin.
func (r *Retriever) apiPath(ctx context.Context, req Request, normalized string) ([]*core.VerseContext, error) {
	refs := refparse.Extract(req.Query)
	refs = append(refs, priorityRefs(apiPriorityTable, normalized, refs)...)

	seen := newSeenSet()
	candidates := r.resolveRefs(ctx, refs, req.Translation, seen)

	if len(candidates) < 2 {
		suggested, err := r.suggestedRefs(ctx, req)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, r.resolveRefs(ctx, suggested, req.Translation, seen)...)
	}

	return r.finish(ctx, normalized, req.Translation, candidates, false), nil
}

// suggestedRefs asks the suggestion model for references and keeps those
// that parse. Rate limiting propagates; any other suggester failure just
// means no extra references.
func (r *Retriever) suggestedRefs(ctx context.Context, req Request) ([]core.Ref, error) {
	suggester := r.suggesterFor(req.Credential)
	if suggester == nil {
		return nil, nil
	}

	suggestions, err := suggester.SuggestReferences(ctx, req.Query)
	if err != nil {
		if errors.Is(err, ai.ErrRateLimited) {
			return nil, err
		}
		r.logger.Warn("reference suggestion failed", "err", err)
		return nil, nil
	}

	refs := make([]core.Ref, 0, len(suggestions))
	for _, s := range suggestions {
		ref, ok := refparse.Parse(s)
		if !ok {
			r.logger.Debug("discarding unparseable suggestion", "suggestion", s)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// resolveRefs resolves references without a corpus store: bundled static
// texts first, then the single-verse fetch service. Unresolvable references
// are skipped.
func (r *Retriever) resolveRefs(ctx context.Context, refs []core.Ref, translation string, seen *seenSet) []*core.VerseContext {
	var resolved []*core.VerseContext
	for _, ref := range refs {
		text, ok := staticVerse(ref)
		if !ok {
			if r.fetcher == nil || ref.IsRange() {
				continue
			}
			var err error
			text, err = r.fetcher.FetchVerse(ctx, ref, translation)
			if err != nil {
				r.logger.Warn("verse fetch failed", "reference", ref.String(), "err", err)
				continue
			}
		}

		vc := &core.VerseContext{
			Reference:   ref.String(),
			Translation: translation,
			Text:        text,
		}
		if seen.has(vc) {
			continue
		}
		seen.add(vc)
		resolved = append(resolved, vc)
	}
	return resolved
}

// finish runs the stages shared by both paths: topic guards, curated lists,
// cross-reference expansion (store path only), and lexical enrichment.
func (r *Retriever) finish(ctx context.Context, normalized, translation string, candidates []*core.VerseContext, expand bool) []*core.VerseContext {
	result := r.guards.Apply(normalized, candidates, translation)
	result = r.curated.Apply(normalized, result, translation)
	if expand && r.expander != nil {
		result = r.expander.Expand(ctx, result, translation)
	}
	if r.enricher != nil {
		r.enricher.Enrich(ctx, result)
	}
	return result
}

// seenSet tracks result identity: two entries with equal canonical reference
// or equal normalized text are duplicates.
type seenSet struct {
	refs  map[string]bool
	texts map[core.ID]bool
}

func newSeenSet() *seenSet {
	return &seenSet{
		refs:  make(map[string]bool),
		texts: make(map[core.ID]bool),
	}
}

func (s *seenSet) has(vc *core.VerseContext) bool {
	return s.refs[vc.Reference] || s.texts[core.IDFromText(vc.Text)]
}

func (s *seenSet) add(vc *core.VerseContext) {
	s.refs[vc.Reference] = true
	s.texts[core.IDFromText(vc.Text)] = true
}
