package lexicon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/poiesic/versecontext/core"
)

// taggedVerse is one row of a tagged-chapter response.
type taggedVerse struct {
	Verse int    `json:"verse"`
	Text  string `json:"text"`
}

// dictionaryResponse is the live dictionary service's record shape.
type dictionaryResponse struct {
	Definition      string `json:"definition"`
	Transliteration string `json:"transliteration"`
}

// inlineTag matches a word followed by its inline lexical tag, the markup
// used by tagged-text services: `λόγος<S>G3056</S>`.
var inlineTag = regexp.MustCompile(`(\S+)<S>([GH]?[0-9]+)</S>`)

// fetchVerseTags fetches the tagged text of the chapter containing ref and
// parses out the target verse's word tags.
func (e *Enricher) fetchVerseTags(ctx context.Context, translation string, ref core.Ref) ([]core.TaggedWord, error) {
	url := fmt.Sprintf(e.chapterURL, translation, ref.Book, ref.Chapter)
	body, err := e.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var rows []taggedVerse
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding tagged chapter: %w", err)
	}

	for _, row := range rows {
		if row.Verse == ref.Verse {
			return ParseTaggedText(row.Text), nil
		}
	}
	return nil, nil
}

// fetchDefinition looks a lexical identifier up in the live dictionary
// service.
func (e *Enricher) fetchDefinition(ctx context.Context, strongsID string) (core.LexiconEntry, error) {
	url := fmt.Sprintf(e.dictionaryURL, strongsID)
	body, err := e.get(ctx, url)
	if err != nil {
		return core.LexiconEntry{}, err
	}

	var resp dictionaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.LexiconEntry{}, fmt.Errorf("decoding dictionary response: %w", err)
	}
	return core.LexiconEntry{
		StrongsID:       strongsID,
		Gloss:           resp.Definition,
		Transliteration: resp.Transliteration,
	}, nil
}

func (e *Enricher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// ParseTaggedText parses inline language-tag markup into word/identifier
// pairs. Words without tags are skipped; markup remnants are stripped from
// the word itself.
func ParseTaggedText(text string) []core.TaggedWord {
	matches := inlineTag.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	tags := make([]core.TaggedWord, 0, len(matches))
	for _, m := range matches {
		word := strings.TrimSpace(m[1])
		if word == "" {
			continue
		}
		tags = append(tags, core.TaggedWord{Word: word, StrongsID: m[2]})
	}
	return tags
}
