package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/poiesic/versecontext/core"
)

// VerseFetcher fetches a single verse's text from an external service. The
// pure-API path uses it to resolve references that the bundled static texts
// don't cover.
type VerseFetcher interface {
	FetchVerse(ctx context.Context, ref core.Ref, translation string) (string, error)
}

// staticVerses are the bundled fallback texts (World English Bible): the
// pure-API path can resolve these with no store and no network. Single
// verses only.
var staticVerses = map[string]string{
	"GEN 1:1":   "In the beginning, God created the heavens and the earth.",
	"DEU 6:4":   "Hear, Israel: Yahweh is our God. Yahweh is one.",
	"PSA 23:1":  "Yahweh is my shepherd; I shall lack nothing.",
	"PRO 3:5":   "Trust in Yahweh with all your heart, and don't lean on your own understanding.",
	"MAT 7:12":  "Therefore, whatever you desire for men to do to you, you shall also do to them; for this is the law and the prophets.",
	"MAT 22:37": "Jesus said to him, \"You shall love the Lord your God with all your heart, with all your soul, and with all your mind.\"",
	"JHN 3:16":  "For God so loved the world, that he gave his only born Son, that whoever believes in him should not perish, but have eternal life.",
	"ROM 3:23":  "for all have sinned, and fall short of the glory of God;",
	"ROM 6:23":  "For the wages of sin is death, but the free gift of God is eternal life in Christ Jesus our Lord.",
	"EPH 2:8":   "for by grace you have been saved through faith, and that not of yourselves; it is the gift of God,",
	"PHP 4:13":  "I can do all things through Christ who strengthens me.",
	"1JN 1:9":   "If we confess our sins, he is faithful and righteous to forgive us the sins and to cleanse us from all unrighteousness.",
}

// staticVerse resolves a single-verse reference from the bundled texts.
func staticVerse(ref core.Ref) (string, bool) {
	if ref.IsRange() {
		return "", false
	}
	text, ok := staticVerses[ref.String()]
	return text, ok
}

// WebFetcher implements VerseFetcher over an HTTP verse endpoint.
type WebFetcher struct {
	client *http.Client
	// urlTemplate is a printf template receiving translation, book code,
	// chapter, and verse number.
	urlTemplate string
}

// fetchedVerse is the endpoint's response shape.
type fetchedVerse struct {
	Text string `json:"text"`
}

// NewWebFetcher creates a VerseFetcher against the given endpoint template,
// e.g. "https://host/verse/%s/%s/%d/%d".
func NewWebFetcher(urlTemplate string) *WebFetcher {
	return &WebFetcher{
		client:      &http.Client{Timeout: 10 * time.Second},
		urlTemplate: urlTemplate,
	}
}

// FetchVerse fetches one verse's display text.
func (f *WebFetcher) FetchVerse(ctx context.Context, ref core.Ref, translation string) (string, error) {
	url := fmt.Sprintf(f.urlTemplate, translation, ref.Book, ref.Chapter, ref.Verse)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var fetched fetchedVerse
	if err := json.Unmarshal(body, &fetched); err != nil {
		return "", fmt.Errorf("decoding verse response: %w", err)
	}
	if fetched.Text == "" {
		return "", fmt.Errorf("empty text for %s (%s)", ref.String(), translation)
	}
	return fetched.Text, nil
}
