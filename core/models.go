package core

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that identical content
// always produces the same identity.
type ID uint64

// IDFromText generates a deterministic ID from text content using BLAKE2b hashing.
// The text is normalized first, so the same wording in different casing or
// punctuation produces the same ID. This is the identity used for duplicate
// detection across translations.
func IDFromText(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(NormalizeText(text)))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Ref is a canonical scripture reference: a book code plus chapter and verse,
// optionally spanning a verse range.
type Ref struct {
	Book     string // canonical three-letter book code, e.g. "EXO", "JHN"
	Chapter  int
	Verse    int
	VerseEnd int // 0 when the reference is a single verse
}

// IsRange reports whether the reference spans more than one verse.
func (r Ref) IsRange() bool {
	return r.VerseEnd > r.Verse
}

// String returns the canonical "BOOK CH:VS[-VS]" form.
// This string is the sole identity used for deduplication.
func (r Ref) String() string {
	if r.IsRange() {
		return fmt.Sprintf("%s %d:%d-%d", r.Book, r.Chapter, r.Verse, r.VerseEnd)
	}
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// ParseRef parses the canonical "BOOK CH:VS[-VS]" form produced by
// Ref.String. It accepts only that form; free-form reference text goes
// through the refparse package instead.
func ParseRef(s string) (Ref, bool) {
	book, rest, found := strings.Cut(s, " ")
	if !found || book == "" {
		return Ref{}, false
	}
	chapter, verses, found := strings.Cut(rest, ":")
	if !found {
		return Ref{}, false
	}
	start, end, isRange := strings.Cut(verses, "-")

	ref := Ref{Book: book}
	var err error
	if ref.Chapter, err = strconv.Atoi(chapter); err != nil {
		return Ref{}, false
	}
	if ref.Verse, err = strconv.Atoi(start); err != nil {
		return Ref{}, false
	}
	if isRange {
		if ref.VerseEnd, err = strconv.Atoi(end); err != nil {
			return Ref{}, false
		}
	}
	if ValidateRef(ref) != nil {
		return Ref{}, false
	}
	return ref, true
}

// OriginalWord is a single original-language word tag attached to a verse.
type OriginalWord struct {
	Word            string
	StrongsID       string
	Gloss           string
	Transliteration string
}

// TaggedWord is a stored word/lexical-identifier pair before gloss resolution.
type TaggedWord struct {
	Word      string
	StrongsID string
}

// LexiconEntry is a dictionary record for one lexical identifier.
type LexiconEntry struct {
	StrongsID       string
	Gloss           string
	Transliteration string
}

// VerseContext is the unit of retrieval handed to the prompt-assembly layer:
// a resolved citation with display text, optional original-language tags,
// and a flag distinguishing primary citations from secondary cross-references.
// It is created per request and never persisted as a first-class object.
type VerseContext struct {
	Reference        string // canonical "BOOK CH:VS[-VS]"
	Translation      string
	Text             string
	Original         []OriginalWord
	IsCrossReference bool
}

// Clone returns a deep copy of the verse context.
// Callers receive clones so that cached values are never mutated.
func (v *VerseContext) Clone() *VerseContext {
	if v == nil {
		return nil
	}
	clone := *v
	if v.Original != nil {
		clone.Original = make([]OriginalWord, len(v.Original))
		copy(clone.Original, v.Original)
	}
	return &clone
}

// CloneVerses returns a deep copy of a verse context slice.
func CloneVerses(verses []*VerseContext) []*VerseContext {
	if verses == nil {
		return nil
	}
	clones := make([]*VerseContext, len(verses))
	for i, v := range verses {
		clones[i] = v.Clone()
	}
	return clones
}

// Verse is a stored corpus row: one verse of one translation, optionally
// carrying a precomputed embedding. The corpus store is read-only at request
// time; rows are written only by the offline seeding and indexing jobs.
type Verse struct {
	Ref         Ref
	Translation string
	Text        string
	Embedding   []float32
}

// Context converts a stored verse into a retrieval unit.
func (v *Verse) Context() *VerseContext {
	return &VerseContext{
		Reference:   v.Ref.String(),
		Translation: v.Translation,
		Text:        v.Text,
	}
}

// CrossRefEdge is a weighted link between two single-verse references in the
// cross-reference graph. Read-only at request time.
type CrossRefEdge struct {
	Source Ref
	Target Ref
	Weight float32
}

// SimilarityMatch is a verse matched by vector similarity search.
type SimilarityMatch struct {
	Verse *Verse
	Score float32
}

// NormalizeQuery lowercases a query and collapses internal whitespace.
// All keyword matching and cache keying operates on normalized queries.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// NormalizeText reduces verse text to a comparison form: lowercased, with
// punctuation stripped and whitespace collapsed. Two verses with equal
// normalized text are considered duplicates even across translations.
func NormalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimRight(b.String(), " ")
}
