package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerseRepo(t *testing.T) store.VerseRepository {
	t.Helper()
	verseRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		verseRepo.Close()
		backend.Close()
	})
	return verseRepo
}

func seedVerses(t *testing.T, repo store.VerseRepository, verses ...*core.Verse) {
	t.Helper()
	require.NoError(t, repo.AddVerses(context.Background(), verses...))
}

func verse(book string, chapter, num int, text string) *core.Verse {
	return &core.Verse{
		Ref:         core.Ref{Book: book, Chapter: chapter, Verse: num},
		Translation: "WEB",
		Text:        text,
	}
}

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestReady_EmptyCorpus(t *testing.T) {
	repo := newTestVerseRepo(t)

	err := repo.Ready(context.Background())
	assert.ErrorIs(t, err, store.ErrNotReady)
}

func TestReady_SeededCorpus(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo, verse("EXO", 20, 13, "You shall not murder."))

	assert.NoError(t, repo.Ready(context.Background()))
}

func TestReady_Closed(t *testing.T) {
	verseRepo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	err = verseRepo.Ready(context.Background())
	assert.ErrorIs(t, err, store.ErrStorageClosed)
}

func TestGetVerse_SingleVerse(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo, verse("EXO", 20, 13, "You shall not murder."))

	got, err := repo.GetVerse(context.Background(), core.Ref{Book: "EXO", Chapter: 20, Verse: 13}, "WEB")
	require.NoError(t, err)
	assert.Equal(t, "You shall not murder.", got.Text)
	assert.Equal(t, "EXO 20:13", got.Ref.String())
}

func TestGetVerse_NotFound(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo, verse("EXO", 20, 13, "You shall not murder."))

	_, err := repo.GetVerse(context.Background(), core.Ref{Book: "EXO", Chapter: 20, Verse: 14}, "WEB")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetVerse_WrongTranslation(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo, verse("EXO", 20, 13, "You shall not murder."))

	_, err := repo.GetVerse(context.Background(), core.Ref{Book: "EXO", Chapter: 20, Verse: 13}, "KJV")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetVerse_RangeJoinsText(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo,
		verse("PRO", 6, 16, "There are six things which Yahweh hates;"),
		verse("PRO", 6, 17, "arrogant eyes, a lying tongue,"),
		verse("PRO", 6, 18, "a heart that devises wicked schemes,"),
	)

	got, err := repo.GetVerse(context.Background(), core.Ref{Book: "PRO", Chapter: 6, Verse: 16, VerseEnd: 18}, "WEB")
	require.NoError(t, err)
	assert.Equal(t, "There are six things which Yahweh hates; arrogant eyes, a lying tongue, a heart that devises wicked schemes,", got.Text)
	assert.Equal(t, "PRO 6:16-18", got.Ref.String())
	assert.Empty(t, got.Embedding)
}

func TestGetVerse_RangePastChapterEnd(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo,
		verse("JUD", 1, 24, "Now to him who is able to keep them from stumbling,"),
		verse("JUD", 1, 25, "to God our Savior, who alone is wise, be glory and majesty."),
	)

	// Verses 26-28 don't exist; the range resolves to what does.
	got, err := repo.GetVerse(context.Background(), core.Ref{Book: "JUD", Chapter: 1, Verse: 24, VerseEnd: 28}, "WEB")
	require.NoError(t, err)
	assert.Contains(t, got.Text, "Savior")
}

func TestGetVerse_RangeAllMissing(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo, verse("EXO", 20, 13, "You shall not murder."))

	_, err := repo.GetVerse(context.Background(), core.Ref{Book: "GEN", Chapter: 1, Verse: 1, VerseEnd: 3}, "WEB")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetVerses_SkipsMissingKeepsOrder(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo,
		verse("JHN", 3, 16, "For God so loved the world,"),
		verse("EXO", 20, 13, "You shall not murder."),
	)

	refs := []core.Ref{
		{Book: "JHN", Chapter: 3, Verse: 16},
		{Book: "REV", Chapter: 99, Verse: 1}, // missing
		{Book: "EXO", Chapter: 20, Verse: 13},
	}
	got, err := repo.GetVerses(context.Background(), refs, "WEB")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "JHN 3:16", got[0].Ref.String())
	assert.Equal(t, "EXO 20:13", got[1].Ref.String())
}

func TestAddVerses_RejectsRange(t *testing.T) {
	repo := newTestVerseRepo(t)

	v := verse("PRO", 6, 16, "There are six things which Yahweh hates;")
	v.Ref.VerseEnd = 19
	err := repo.AddVerses(context.Background(), v)
	assert.ErrorIs(t, err, core.ErrInvalidRef)
}

func TestCountVerses(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo,
		verse("EXO", 20, 13, "You shall not murder."),
		verse("EXO", 20, 14, "You shall not commit adultery."),
		verse("EXO", 20, 15, "You shall not steal."),
	)

	count, err := repo.CountVerses(context.Background(), "WEB")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = repo.CountVerses(context.Background(), "KJV")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFindNearest_OrdersByScore(t *testing.T) {
	repo := newTestVerseRepo(t)

	near := verse("JHN", 3, 16, "For God so loved the world,")
	near.Embedding = []float32{1, 0, 0}
	mid := verse("1JN", 4, 8, "He who doesn't love doesn't know God, for God is love.")
	mid.Embedding = []float32{0.8, 0.6, 0}
	far := verse("EXO", 20, 15, "You shall not steal.")
	far.Embedding = []float32{0, 1, 0}
	unembedded := verse("EXO", 20, 13, "You shall not murder.")

	seedVerses(t, repo, near, mid, far, unembedded)

	matches, err := repo.FindNearest(context.Background(), []float32{1, 0, 0}, "WEB", 0.5, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "JHN 3:16", matches[0].Verse.Ref.String())
	assert.Equal(t, "1JN 4:8", matches[1].Verse.Ref.String())
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestFindNearest_RespectsLimit(t *testing.T) {
	repo := newTestVerseRepo(t)

	verses := make([]*core.Verse, 0, 10)
	for i := 1; i <= 10; i++ {
		v := verse("PSA", 119, i, fmt.Sprintf("verse number %d", i))
		v.Embedding = []float32{1, 0, 0}
		verses = append(verses, v)
	}
	seedVerses(t, repo, verses...)

	matches, err := repo.FindNearest(context.Background(), []float32{1, 0, 0}, "WEB", 0.5, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestFindNearest_EmptyVector(t *testing.T) {
	repo := newTestVerseRepo(t)

	_, err := repo.FindNearest(context.Background(), nil, "WEB", 0.5, 5)
	assert.ErrorIs(t, err, store.ErrInvalidQuery)
}

func TestListUnembedded(t *testing.T) {
	repo := newTestVerseRepo(t)

	embedded := verse("JHN", 3, 16, "For God so loved the world,")
	embedded.Embedding = []float32{1, 0, 0}
	seedVerses(t, repo,
		embedded,
		verse("EXO", 20, 13, "You shall not murder."),
		verse("EXO", 20, 15, "You shall not steal."),
	)

	pending, err := repo.ListUnembedded(context.Background(), "WEB", 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, v := range pending {
		assert.Empty(t, v.Embedding)
	}
}

func TestUpdateEmbeddings(t *testing.T) {
	repo := newTestVerseRepo(t)
	seedVerses(t, repo, verse("EXO", 20, 13, "You shall not murder."))

	v := verse("EXO", 20, 13, "You shall not murder.")
	v.Embedding = []float32{0.1, 0.2, 0.3}
	require.NoError(t, repo.UpdateEmbeddings(context.Background(), v))

	got, err := repo.GetVerse(context.Background(), v.Ref, "WEB")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got.Embedding)

	pending, err := repo.ListUnembedded(context.Background(), "WEB", 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUpdateEmbeddings_MissingVerse(t *testing.T) {
	repo := newTestVerseRepo(t)

	v := verse("EXO", 20, 13, "You shall not murder.")
	v.Embedding = []float32{0.1}
	err := repo.UpdateEmbeddings(context.Background(), v)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
