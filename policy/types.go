// Package policy implements the deterministic citation policy layer: topic
// guards that force required verses in and suppress off-topic ones for
// sensitive subjects, and curated topical lists for broad thematic queries.
//
// Policy tables are immutable configuration, loaded once at process start and
// injected into the retriever so tests can substitute fixtures without
// touching global state.
package policy

import "github.com/poiesic/versecontext/core"

// GuardVerse is a verse guaranteed by a guard or curated list: a canonical
// reference plus curated fallback text, used when the corpus store has not
// supplied the verse already.
type GuardVerse struct {
	Reference string
	Text      string
}

// TopicGuard is a keyword-triggered policy rule for a sensitive topic.
// When any keyword appears in the normalized query, the guard's priority
// verses are guaranteed to lead the result, and retrieved verses whose text
// matches an exclusion pattern are suppressed.
type TopicGuard struct {
	// Name identifies the guard in logs.
	Name string

	// Keywords trigger the guard by substring match against the
	// normalized query.
	Keywords []string

	// Priority verses are injected in declared order.
	Priority []GuardVerse

	// ExcludePatterns are lowercase substrings; retrieved (non-priority)
	// verses whose text contains any pattern are dropped.
	ExcludePatterns []string

	// ConditionalPriority, when set, returns additional priority verses
	// for the given normalized query. It runs only when the guard fires.
	ConditionalPriority func(query string) []GuardVerse
}

// CuratedList is a hand-curated verse set for a broad thematic query.
// Exclusive lists replace retrieval entirely: some historically or ethically
// loaded topics require editorially fixed framing rather than probabilistic
// retrieval.
type CuratedList struct {
	Name      string
	Keywords  []string
	Verses    []GuardVerse
	Exclusive bool
}

// MatchesKeywords reports whether any keyword occurs in the normalized
// query, using the same word-start-bounded matching the policy tables use.
func MatchesKeywords(query string, keywords []string) bool {
	return matchesKeywords(query, keywords)
}

// matches reports whether any keyword occurs in the normalized query.
func matchesKeywords(query string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if containsWord(query, kw) {
			return true
		}
	}
	return false
}

// containsWord is a substring match bounded to word starts, so "lie" fires
// on "lies" but not on "believe".
func containsWord(query, keyword string) bool {
	for i := 0; i+len(keyword) <= len(query); i++ {
		if query[i:i+len(keyword)] != keyword {
			continue
		}
		if i == 0 || query[i-1] == ' ' {
			return true
		}
	}
	return false
}

// verseContext converts a guard verse into a retrieval unit for the
// requested translation.
func (g GuardVerse) verseContext(translation string) *core.VerseContext {
	return &core.VerseContext{
		Reference:   g.Reference,
		Translation: translation,
		Text:        g.Text,
	}
}
