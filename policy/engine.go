package policy

import (
	"log/slog"
	"strings"

	"github.com/poiesic/versecontext/core"
)

// Engine evaluates topic guards against a query and an in-progress candidate
// list. It is a deterministic policy layer guaranteeing consistent, auditable
// citation coverage for sensitive doctrinal queries.
type Engine struct {
	guards []TopicGuard
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets a custom logger. Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEngine creates a guard engine over an immutable guard table.
func NewEngine(guards []TopicGuard, opts ...EngineOption) *Engine {
	e := &Engine{
		guards: guards,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply evaluates every configured guard against the normalized query.
//
// For each firing guard, in table order: the guard's priority verses and its
// conditional priority verses are merged ahead of the candidates, each
// deduplicated against verses queued by earlier guards or already leading
// the merge; the guard's exclusion patterns are unioned. The combined
// exclusion set is then applied only to the surviving retrieved candidates —
// priority verses are never excluded by the same pass that inserted them.
//
// The returned ordering is [merged priority verses] + [surviving candidates].
func (e *Engine) Apply(query string, candidates []*core.VerseContext, translation string) []*core.VerseContext {
	norm := core.NormalizeQuery(query)

	var priority []*core.VerseContext
	seen := newDedupSet()
	var exclusions []string

	for _, guard := range e.guards {
		if !matchesKeywords(norm, guard.Keywords) {
			continue
		}
		e.logger.Debug("topic guard fired", "guard", guard.Name)

		for _, gv := range guard.Priority {
			priority = appendGuardVerse(priority, seen, gv, translation, candidates)
		}
		if guard.ConditionalPriority != nil {
			for _, gv := range guard.ConditionalPriority(norm) {
				priority = appendGuardVerse(priority, seen, gv, translation, candidates)
			}
		}
		exclusions = append(exclusions, guard.ExcludePatterns...)
	}

	if len(priority) == 0 && len(exclusions) == 0 {
		return candidates
	}

	// Surviving retrieved verses: not shadowed by a priority verse, and not
	// matching any exclusion pattern.
	merged := make([]*core.VerseContext, 0, len(priority)+len(candidates))
	merged = append(merged, priority...)
	for _, vc := range candidates {
		if seen.has(vc) {
			continue
		}
		if excluded(vc, exclusions) {
			e.logger.Debug("verse excluded by guard pattern", "reference", vc.Reference)
			continue
		}
		merged = append(merged, vc)
	}
	return merged
}

// appendGuardVerse appends one guard verse to the priority list unless an
// earlier guard already queued it. When a retrieved candidate carries the
// same reference, its store-resolved text replaces the curated fallback.
func appendGuardVerse(priority []*core.VerseContext, seen *dedupSet, gv GuardVerse, translation string, candidates []*core.VerseContext) []*core.VerseContext {
	vc := gv.verseContext(translation)
	for _, cand := range candidates {
		if cand.Reference == vc.Reference {
			vc = cand.Clone()
			break
		}
	}
	if seen.has(vc) {
		return priority
	}
	seen.add(vc)
	return append(priority, vc)
}

// excluded reports whether the verse text contains any exclusion pattern,
// case-insensitively.
func excluded(vc *core.VerseContext, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	text := strings.ToLower(vc.Text)
	for _, p := range patterns {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// dedupSet tracks verse identity by canonical reference and by normalized
// text, the two duplicate signals defined by the data model.
type dedupSet struct {
	refs  map[string]struct{}
	texts map[core.ID]struct{}
}

func newDedupSet() *dedupSet {
	return &dedupSet{
		refs:  make(map[string]struct{}),
		texts: make(map[core.ID]struct{}),
	}
}

func (d *dedupSet) has(vc *core.VerseContext) bool {
	if _, ok := d.refs[vc.Reference]; ok {
		return true
	}
	if vc.Text != "" {
		if _, ok := d.texts[core.IDFromText(vc.Text)]; ok {
			return true
		}
	}
	return false
}

func (d *dedupSet) add(vc *core.VerseContext) {
	d.refs[vc.Reference] = struct{}{}
	if vc.Text != "" {
		d.texts[core.IDFromText(vc.Text)] = struct{}{}
	}
}
