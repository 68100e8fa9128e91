package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/versecontext/ai"
	"github.com/poiesic/versecontext/ai/mock"
	"github.com/poiesic/versecontext/cache"
	"github.com/poiesic/versecontext/core"
	"github.com/poiesic/versecontext/crossref"
	badgerstore "github.com/poiesic/versecontext/store/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires a retriever over in-memory repositories and mock AI
// services, returning hooks for tests to seed data and inject behavior.
type fixture struct {
	retriever *Retriever
	verses    func(...*core.Verse)
	edges     func(...core.CrossRefEdge)
	embedder  *mock.MockEmbedder
	suggester *mock.MockSuggester
	backend   *badgerstore.Backend
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	verseRepo, crossRefRepo, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		verseRepo.Close()
		crossRefRepo.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	suggester := mock.NewMockSuggester()
	provider := mock.NewMockProviderWithServices(embedder, suggester, mock.NewMockCompleter())

	all := append([]Option{
		WithStore(verseRepo, crossRefRepo),
		WithProvider(provider),
		WithEmbeddingModel("mock-embedder"),
		WithExpander(crossref.NewExpander(verseRepo, crossRefRepo)),
	}, opts...)

	return &fixture{
		retriever: NewRetriever(all...),
		verses: func(verses ...*core.Verse) {
			require.NoError(t, verseRepo.AddVerses(context.Background(), verses...))
		},
		edges: func(edges ...core.CrossRefEdge) {
			require.NoError(t, crossRefRepo.AddEdges(context.Background(), edges...))
		},
		embedder:  embedder,
		suggester: suggester,
		backend:   backend,
	}
}

func storedVerse(book string, chapter, num int, text string) *core.Verse {
	return &core.Verse{
		Ref:         core.Ref{Book: book, Chapter: chapter, Verse: num},
		Translation: "WEB",
		Text:        text,
	}
}

func embedded(v *core.Verse) *core.Verse {
	v.Embedding = mock.DeterministicVector(v.Text)
	return v
}

func references(verses []*core.VerseContext) []string {
	refs := make([]string, len(verses))
	for i, v := range verses {
		refs[i] = v.Reference
	}
	return refs
}

func TestRetrieve_ExplicitReference(t *testing.T) {
	f := newFixture(t)
	f.verses(storedVerse("EXO", 20, 13, "You shall not murder."))

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "What does Exodus 20:13 say?"})
	require.NoError(t, err)
	assert.Equal(t, StrategyStore, result.Strategy)

	var primary []*core.VerseContext
	for _, v := range result.Verses {
		if !v.IsCrossReference {
			primary = append(primary, v)
		}
	}
	require.Len(t, primary, 1)
	assert.Equal(t, "EXO 20:13", primary[0].Reference)
	assert.NotEmpty(t, primary[0].Text)
}

func TestRetrieve_GuardOrderingAndExclusion(t *testing.T) {
	f := newFixture(t)
	f.verses(
		storedVerse("EXO", 20, 16, "You shall not give false testimony against your neighbor."),
		embedded(storedVerse("JOS", 2, 4, "The woman took the two men and hid them. Rahab said, they went out.")),
	)

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "Is lying wrong?"})
	require.NoError(t, err)

	refs := references(result.Verses)
	require.GreaterOrEqual(t, len(refs), 2)
	assert.Equal(t, "EXO 20:16", refs[0])
	assert.Equal(t, "PRO 6:16-19", refs[1])
	for _, v := range result.Verses {
		assert.NotContains(t, v.Text, "Rahab")
	}
}

func TestRetrieve_VectorSearchSkippedWhenQuotaMet(t *testing.T) {
	f := newFixture(t, WithQuota(1))
	f.verses(storedVerse("JHN", 3, 16, "For God so loved the world, that he gave his only born Son."))

	_, err := f.retriever.Retrieve(context.Background(), Request{Query: "Please read John 3:16 to me again"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.embedder.CallCount())
}

func TestRetrieve_VectorSearchSkippedForShortQuery(t *testing.T) {
	f := newFixture(t)
	f.verses(storedVerse("GEN", 1, 1, "In the beginning, God created the heavens and the earth."))

	_, err := f.retriever.Retrieve(context.Background(), Request{Query: "hope"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.embedder.CallCount())
}

func TestRetrieve_VectorSearchFindsNearest(t *testing.T) {
	f := newFixture(t)
	query := "What does scripture teach about forgiveness of sins?"

	near := storedVerse("1JN", 1, 9, "If we confess our sins, he is faithful and righteous to forgive us.")
	near.Embedding = mock.DeterministicVector(core.NormalizeQuery(query))
	f.verses(
		near,
		embedded(storedVerse("GEN", 7, 1, "Yahweh said to Noah, Come with all of your household into the ship.")),
	)

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: query})
	require.NoError(t, err)
	require.NotEmpty(t, result.Verses)
	assert.Equal(t, "1JN 1:9", result.Verses[0].Reference)
	assert.Equal(t, 1, f.embedder.CallCount())
}

func TestRetrieve_EmbeddingFailureDegradesWithCandidates(t *testing.T) {
	f := newFixture(t)
	f.verses(storedVerse("EXO", 20, 13, "You shall not murder."))
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "Tell me about Exodus 20:13 please"})
	require.NoError(t, err)
	assert.Equal(t, StrategyStore, result.Strategy)
	assert.Equal(t, "EXO 20:13", result.Verses[0].Reference)
}

func TestRetrieve_EmbeddingFailureWithoutCandidatesFallsBack(t *testing.T) {
	f := newFixture(t)
	f.verses(storedVerse("GEN", 1, 1, "In the beginning, God created the heavens and the earth."))
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}
	f.suggester.SuggestReferencesFunc = func(ctx context.Context, query string) ([]string, error) {
		return []string{"John 3:16"}, nil
	}

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "What does scripture say about divine love?"})
	require.NoError(t, err)
	assert.Equal(t, StrategyAPI, result.Strategy)
	assert.Contains(t, references(result.Verses), "JHN 3:16")
}

func TestRetrieve_DimensionMismatchFailsVectorStage(t *testing.T) {
	f := newFixture(t)
	f.verses(storedVerse("EXO", 20, 13, "You shall not murder."))
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return make([]float32, 7), nil
	}

	// Candidates exist, so the wrong-dimension vector only disables the
	// vector stage.
	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "Tell me about Exodus 20:13 please"})
	require.NoError(t, err)
	assert.Equal(t, StrategyStore, result.Strategy)
}

func TestRetrieve_StoreOutageFallsBackToAPI(t *testing.T) {
	f := newFixture(t)
	// Empty corpus: the store readiness check fails and the pure-API path
	// serves the priority keyword from bundled texts.
	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "what is the golden rule"})
	require.NoError(t, err)
	assert.Equal(t, StrategyAPI, result.Strategy)
	require.NotEmpty(t, result.Verses)
	assert.Equal(t, "MAT 7:12", result.Verses[0].Reference)
}

func TestRetrieve_APISuggestionsResolveStatically(t *testing.T) {
	f := newFixture(t)
	f.suggester.SuggestReferencesFunc = func(ctx context.Context, query string) ([]string, error) {
		return []string{"Romans 6:23", "not a reference", "Ephesians 2:8"}, nil
	}

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "how can anyone be saved"})
	require.NoError(t, err)
	assert.Equal(t, StrategyAPI, result.Strategy)
	refs := references(result.Verses)
	assert.Contains(t, refs, "ROM 6:23")
	assert.Contains(t, refs, "EPH 2:8")
	assert.Equal(t, 1, f.suggester.CallCount())
}

func TestRetrieve_SuggesterSkippedWhenEnoughCandidates(t *testing.T) {
	f := newFixture(t)

	// Two explicit references resolve statically, so the suggester is
	// never consulted.
	_, err := f.retriever.Retrieve(context.Background(), Request{Query: "Compare John 3:16 and Romans 6:23"})
	require.NoError(t, err)
	assert.Equal(t, 0, f.suggester.CallCount())
}

func TestRetrieve_RateLimitSurfaced(t *testing.T) {
	f := newFixture(t)
	f.suggester.SuggestReferencesFunc = func(ctx context.Context, query string) ([]string, error) {
		return nil, ai.ErrRateLimited
	}

	_, err := f.retriever.Retrieve(context.Background(), Request{Query: "a topical question with no references"})
	assert.ErrorIs(t, err, ai.ErrRateLimited)
}

func TestRetrieve_CacheHitSkipsUpstream(t *testing.T) {
	c, err := cache.New()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	f := newFixture(t, WithCache(c))
	f.verses(storedVerse("EXO", 20, 16, "You shall not give false testimony against your neighbor."))

	first, err := f.retriever.Retrieve(context.Background(), Request{Query: "Is lying wrong?"})
	require.NoError(t, err)
	require.Equal(t, StrategyStore, first.Strategy)
	c.Wait()
	embedCalls := f.embedder.CallCount()
	suggestCalls := f.suggester.CallCount()

	// Same query up to case and whitespace: served from cache, no further
	// store or model work.
	second, err := f.retriever.Retrieve(context.Background(), Request{Query: "is  LYING wrong?"})
	require.NoError(t, err)
	assert.Equal(t, StrategyCache, second.Strategy)
	assert.Equal(t, first.Verses, second.Verses)
	assert.Equal(t, embedCalls, f.embedder.CallCount())
	assert.Equal(t, suggestCalls, f.suggester.CallCount())
}

func TestRetrieve_ReturnedVersesAreCallerOwned(t *testing.T) {
	c, err := cache.New()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	f := newFixture(t, WithCache(c))
	f.verses(storedVerse("EXO", 20, 16, "You shall not give false testimony against your neighbor."))

	first, err := f.retriever.Retrieve(context.Background(), Request{Query: "Is lying wrong?"})
	require.NoError(t, err)
	c.Wait()
	first.Verses[0].Text = "mutated by caller"

	second, err := f.retriever.Retrieve(context.Background(), Request{Query: "Is lying wrong?"})
	require.NoError(t, err)
	assert.NotEqual(t, "mutated by caller", second.Verses[0].Text)
}

func TestRetrieve_CrossReferencesAppended(t *testing.T) {
	f := newFixture(t)
	f.verses(
		storedVerse("EXO", 20, 13, "You shall not murder."),
		storedVerse("MAT", 5, 21, "You have heard that it was said to the ancient ones,"),
	)
	f.edges(core.CrossRefEdge{
		Source: core.Ref{Book: "EXO", Chapter: 20, Verse: 13},
		Target: core.Ref{Book: "MAT", Chapter: 5, Verse: 21},
		Weight: 0.92,
	})

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "What does Exodus 20:13 say?"})
	require.NoError(t, err)

	last := result.Verses[len(result.Verses)-1]
	assert.Equal(t, "MAT 5:21", last.Reference)
	assert.True(t, last.IsCrossReference)
	for _, v := range result.Verses[:len(result.Verses)-1] {
		assert.False(t, v.IsCrossReference)
	}
}

func TestRetrieve_ExclusiveCuratedListWins(t *testing.T) {
	f := newFixture(t)
	f.verses(embedded(storedVerse("GEN", 1, 1, "In the beginning, God created the heavens and the earth.")))

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "what are the ten commandments"})
	require.NoError(t, err)

	var primary []*core.VerseContext
	for _, v := range result.Verses {
		if !v.IsCrossReference {
			primary = append(primary, v)
		}
	}
	require.Len(t, primary, 10)
	assert.Equal(t, "EXO 20:3", primary[0].Reference)
	for _, v := range primary {
		assert.True(t, strings.HasPrefix(v.Reference, "EXO 20:"))
	}
}

func TestRetrieve_EmptyResultIsValid(t *testing.T) {
	f := newFixture(t)
	f.verses(storedVerse("GEN", 1, 1, "In the beginning, God created the heavens and the earth."))

	result, err := f.retriever.Retrieve(context.Background(), Request{Query: "zz"})
	require.NoError(t, err)
	assert.Empty(t, result.Verses)
}

func TestPriorityRefs_TableOrderAndDedup(t *testing.T) {
	refs := priorityRefs(priorityTable, "tell me the ten commandments and the golden rule", nil)
	require.Len(t, refs, 2)
	assert.Equal(t, "EXO 20:1-17", refs[0].String())
	assert.Equal(t, "MAT 7:12", refs[1].String())

	again := priorityRefs(priorityTable, "the golden rule", refs)
	assert.Empty(t, again)
}
