package badger

import (
	"fmt"

	"github.com/poiesic/versecontext/core"
)

// Key prefixes for different data types
const (
	verseRecordPrefix = "verrec"
	edgeRecordPrefix  = "xrfrec"
)

// makeVerseKey generates a key for a single verse of a translation.
// Chapter and verse are zero-padded so that verses of a chapter sort in
// reading order and range lookups iterate contiguously.
// Format: prefix:translation:book:chapter:verse
func makeVerseKey(ref core.Ref, translation string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%03d:%03d", verseRecordPrefix, translation, ref.Book, ref.Chapter, ref.Verse))
}

// makeTranslationPrefix generates the scan prefix covering every verse of a
// translation.
func makeTranslationPrefix(translation string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", verseRecordPrefix, translation))
}

// makeEdgeKey generates a key for a cross-reference edge.
// Format: prefix:sourceBook:chapter:verse|targetBook:chapter:verse
func makeEdgeKey(source, target core.Ref) []byte {
	return []byte(fmt.Sprintf("%s:%s:%03d:%03d|%s:%03d:%03d",
		edgeRecordPrefix, source.Book, source.Chapter, source.Verse,
		target.Book, target.Chapter, target.Verse))
}

// makeEdgeSourcePrefix generates the scan prefix covering every edge leaving
// a source verse.
func makeEdgeSourcePrefix(source core.Ref) []byte {
	return []byte(fmt.Sprintf("%s:%s:%03d:%03d|", edgeRecordPrefix, source.Book, source.Chapter, source.Verse))
}
