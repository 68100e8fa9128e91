// Package refparse extracts explicit scripture references from free-form
// query text and resolves book names to canonical codes.
package refparse

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/poiesic/versecontext/core"
)

// tokenPattern locates candidate reference spans in raw query text:
// an optional 1-3 book number, a book word, then "chapter:verse" with an
// optional "-endVerse" range. The span is then parsed by the grammar below.
var tokenPattern = regexp.MustCompile(`(?:[1-3]\s*)?[A-Za-z]+\.?\s+[0-9]{1,3}:[0-9]{1,3}(?:-[0-9]{1,3})?`)

// refGrammar is the participle grammar for a single reference token.
// Examples: "John 3:16", "1 John 4:8", "Prov 6:16-19"
type refGrammar struct {
	BookNum  *int   `parser:"@Int?"`
	BookName string `parser:"@Ident"`
	Chapter  int    `parser:"@Int ':'"`
	Verse    int    `parser:"@Int"`
	VerseEnd *int   `parser:"( '-' @Int )?"`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// Extract parses explicit "book chapter:verse[-verse]" tokens from raw query
// text, in order of appearance. It never fails: spans that do not parse, name
// an unknown book, or carry out-of-range numbers are skipped, and a query
// with no references yields an empty slice.
func Extract(query string) []core.Ref {
	spans := tokenPattern.FindAllString(query, -1)
	refs := make([]core.Ref, 0, len(spans))
	for _, span := range spans {
		ref, ok := parseSpan(span)
		if !ok {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// Parse parses a single reference string such as "John 3:16". Unlike Extract
// it requires the whole input to be one reference token. It is used to
// resolve reference strings suggested by the text-generation fallback.
func Parse(s string) (core.Ref, bool) {
	s = strings.TrimSpace(s)
	if tokenPattern.FindString(s) != s {
		return core.Ref{}, false
	}
	return parseSpan(s)
}

func parseSpan(span string) (core.Ref, bool) {
	// The lexer has no rule for periods; trailing "Gen." style dots are
	// dropped before parsing.
	parsed, err := refParser.ParseString("", strings.ReplaceAll(span, ".", ""))
	if err != nil {
		return core.Ref{}, false
	}

	bookName := parsed.BookName
	if parsed.BookNum != nil {
		bookName = strings.Join([]string{itoa(*parsed.BookNum), parsed.BookName}, "")
	}
	code, ok := BookCode(bookName)
	if !ok {
		return core.Ref{}, false
	}

	ref := core.Ref{
		Book:    code,
		Chapter: parsed.Chapter,
		Verse:   parsed.Verse,
	}
	if parsed.VerseEnd != nil && *parsed.VerseEnd > parsed.Verse {
		ref.VerseEnd = *parsed.VerseEnd
	}

	if core.ValidateRef(ref) != nil {
		return core.Ref{}, false
	}
	return ref, true
}

func itoa(n int) string {
	// Book numbers are always 1-3.
	return string(rune('0' + n))
}
