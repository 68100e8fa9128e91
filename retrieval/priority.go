package retrieval

import (
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/policy"
)

// priorityEntry maps topic keywords to the canonical doctrinal references
// every query on that topic must surface, regardless of what retrieval finds.
type priorityEntry struct {
	keywords []string
	refs     []core.Ref
}

// priorityTable is the store-backed path's table. References here may be
// ranges; the corpus store resolves them.
var priorityTable = []priorityEntry{
	{
		keywords: []string{"ten commandments", "decalogue"},
		refs:     []core.Ref{{Book: "EXO", Chapter: 20, Verse: 1, VerseEnd: 17}},
	},
	{
		keywords: []string{"lord's prayer", "lords prayer", "our father"},
		refs:     []core.Ref{{Book: "MAT", Chapter: 6, Verse: 9, VerseEnd: 13}},
	},
	{
		keywords: []string{"beatitudes"},
		refs:     []core.Ref{{Book: "MAT", Chapter: 5, Verse: 3, VerseEnd: 12}},
	},
	{
		keywords: []string{"golden rule"},
		refs:     []core.Ref{{Book: "MAT", Chapter: 7, Verse: 12}},
	},
	{
		keywords: []string{"greatest commandment"},
		refs:     []core.Ref{{Book: "MAT", Chapter: 22, Verse: 37, VerseEnd: 40}},
	},
	{
		keywords: []string{"shema"},
		refs:     []core.Ref{{Book: "DEU", Chapter: 6, Verse: 4, VerseEnd: 5}},
	},
}

// apiPriorityTable is the pure-API path's reduced table: single verses only,
// resolvable from the bundled static texts without a corpus store.
var apiPriorityTable = []priorityEntry{
	{
		keywords: []string{"golden rule"},
		refs:     []core.Ref{{Book: "MAT", Chapter: 7, Verse: 12}},
	},
	{
		keywords: []string{"greatest commandment"},
		refs:     []core.Ref{{Book: "MAT", Chapter: 22, Verse: 37}},
	},
	{
		keywords: []string{"shema"},
		refs:     []core.Ref{{Book: "DEU", Chapter: 6, Verse: 4}},
	},
}

// priorityRefs returns the references whose keywords fire on the normalized
// query, preserving table order and skipping refs already present.
func priorityRefs(table []priorityEntry, query string, existing []core.Ref) []core.Ref {
	seen := make(map[string]bool, len(existing))
	for _, ref := range existing {
		seen[ref.String()] = true
	}

	var refs []core.Ref
	for _, entry := range table {
		if !policy.MatchesKeywords(query, entry.keywords) {
			continue
		}
		for _, ref := range entry.refs {
			if seen[ref.String()] {
				continue
			}
			refs = append(refs, ref)
			seen[ref.String()] = true
		}
	}
	return refs
}
