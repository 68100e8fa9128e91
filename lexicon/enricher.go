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


// Package lexicon attaches original-language word tags to verses. Tags come
// from an embedded static index when possible, otherwise from a tagged-text
// service; glosses resolve against a bundled dictionary with a live
// dictionary service as fallback. Every failure is per-verse and non-fatal:
// a verse that cannot be enriched is simply returned without tags.
package lexicon

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/versecontext/core"
)

//go:embed data/tags.json
var tagsData []byte

//go:embed data/glosses.json
var glossesData []byte

// indexedTag mirrors the JSON layout of the embedded static index.
type indexedTag struct {
	Word      string `json:"word"`
	StrongsID string `json:"strongsId"`
}

// indexedGloss mirrors the JSON layout of the bundled dictionary.
type indexedGloss struct {
	Gloss           string `json:"gloss"`
	Transliteration string `json:"transliteration"`
}

// Enricher resolves original-language tags for verse contexts.
type Enricher struct {
	index   map[string][]core.TaggedWord
	glosses map[string]core.LexiconEntry

	client        *http.Client
	dictionaryURL string
	chapterURL    string
	logger        *slog.Logger
}

// Option is a functional option for configuring an Enricher.
type Option func(*Enricher)

// WithHTTPClient sets the HTTP client used for live lookups.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Enricher) {
		e.client = client
	}
}

// WithDictionaryURL sets the live dictionary endpoint, a printf template
// receiving the lexical identifier, e.g. "https://host/dictionary/%s".
// Without it, dictionary misses stay unresolved.
func WithDictionaryURL(url string) Option {
	return func(e *Enricher) {
		e.dictionaryURL = url
	}
}

// WithChapterURL sets the tagged-chapter endpoint, a printf template
// receiving translation, book code, and chapter number, e.g.
// "https://host/tagged/%s/%s/%d". Without it, verses missing from the
// static index stay untagged.
func WithChapterURL(url string) Option {
	return func(e *Enricher) {
		e.chapterURL = url
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// NewEnricher creates an Enricher over the embedded static index and bundled
// dictionary.
func NewEnricher(opts ...Option) (*Enricher, error) {
	var rawTags map[string][]indexedTag
	if err := json.Unmarshal(tagsData, &rawTags); err != nil {
		return nil, err
	}
	var rawGlosses map[string]indexedGloss
	if err := json.Unmarshal(glossesData, &rawGlosses); err != nil {
		return nil, err
	}

	index := make(map[string][]core.TaggedWord, len(rawTags))
	for ref, tags := range rawTags {
		words := make([]core.TaggedWord, len(tags))
		for i, t := range tags {
			words[i] = core.TaggedWord{Word: t.Word, StrongsID: t.StrongsID}
		}
		index[ref] = words
	}
	glosses := make(map[string]core.LexiconEntry, len(rawGlosses))
	for id, g := range rawGlosses {
		glosses[id] = core.LexiconEntry{
			StrongsID:       id,
			Gloss:           g.Gloss,
			Transliteration: g.Transliteration,
		}
	}

	e := &Enricher{
		index:   index,
		glosses: glosses,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default().With("component", "lexicon"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Enrich attaches original-language tags to each verse that has none.
// Verses are modified in place. Failures are logged and skipped per verse.
func (e *Enricher) Enrich(ctx context.Context, verses []*core.VerseContext) {
	for _, v := range verses {
		if v == nil || len(v.Original) > 0 {
			continue
		}

		tags := e.tagsFor(ctx, v)
		if len(tags) == 0 {
			continue
		}
		v.Original = e.resolve(ctx, tags)
	}
}

// tagsFor finds word tags for a verse: static index first, then the
// tagged-chapter service.
func (e *Enricher) tagsFor(ctx context.Context, v *core.VerseContext) []core.TaggedWord {
	if tags, ok := e.index[v.Reference]; ok {
		return tags
	}

	if e.chapterURL == "" {
		return nil
	}
	ref, ok := core.ParseRef(v.Reference)
	if !ok || ref.IsRange() {
		// Ranges are tagged only through the static index.
		return nil
	}

	tags, err := e.fetchVerseTags(ctx, v.Translation, ref)
	if err != nil {
		e.logger.Warn("tagged-chapter fetch failed", "reference", v.Reference, "err", err)
		return nil
	}
	return tags
}

// resolve turns word tags into OriginalWord entries, resolving glosses via
// the bundled dictionary with the live service as fallback.
func (e *Enricher) resolve(ctx context.Context, tags []core.TaggedWord) []core.OriginalWord {
	words := make([]core.OriginalWord, 0, len(tags))
	for _, tag := range tags {
		word := core.OriginalWord{
			Word:      tag.Word,
			StrongsID: tag.StrongsID,
		}

		entry, ok := e.glosses[tag.StrongsID]
		if !ok && e.dictionaryURL != "" {
			var err error
			entry, err = e.fetchDefinition(ctx, tag.StrongsID)
			if err != nil {
				// The word still carries its identifier; only the
				// gloss is missing.
				e.logger.Warn("dictionary lookup failed", "strongsId", tag.StrongsID, "err", err)
			} else {
				ok = true
			}
		}
		if ok {
			word.Gloss = entry.Gloss
			word.Transliteration = entry.Transliteration
		}
		words = append(words, word)
	}
	return words
}
