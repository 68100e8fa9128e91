package policy

import (
	"log/slog"

	"github.com/poiesic/versecontext/core"
)

// Matcher applies curated topical lists to a candidate verse list.
type Matcher struct {
	lists  []CuratedList
	logger *slog.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithMatcherLogger sets a custom logger. Default is slog.Default().
func WithMatcherLogger(logger *slog.Logger) MatcherOption {
	return func(m *Matcher) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// NewMatcher creates a matcher over an immutable curated list table.
func NewMatcher(lists []CuratedList, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		lists:  lists,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply matches the normalized query against every curated list, in table
// order. An exclusive match replaces the entire candidate list and stops
// further matching: exclusive lists win outright, including over topic guard
// output. A non-exclusive match prepends its verses ahead of the existing
// candidates, deduplicated by reference and normalized text.
func (m *Matcher) Apply(query string, candidates []*core.VerseContext, translation string) []*core.VerseContext {
	norm := core.NormalizeQuery(query)

	result := candidates
	for _, list := range m.lists {
		if !matchesKeywords(norm, list.Keywords) {
			continue
		}

		if list.Exclusive {
			m.logger.Debug("exclusive curated list replaced candidates", "list", list.Name)
			replacement := make([]*core.VerseContext, 0, len(list.Verses))
			seen := newDedupSet()
			for _, gv := range list.Verses {
				replacement = appendGuardVerse(replacement, seen, gv, translation, candidates)
			}
			return replacement
		}

		m.logger.Debug("curated list prepended", "list", list.Name)
		seen := newDedupSet()
		var prefix []*core.VerseContext
		for _, gv := range list.Verses {
			prefix = appendGuardVerse(prefix, seen, gv, translation, result)
		}
		merged := make([]*core.VerseContext, 0, len(prefix)+len(result))
		merged = append(merged, prefix...)
		for _, vc := range result {
			if seen.has(vc) {
				continue
			}
			merged = append(merged, vc)
		}
		result = merged
	}
	return result
}
