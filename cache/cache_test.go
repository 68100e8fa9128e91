package cache

import (
	"testing"

	"github.com/poiesic/versecontext/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New()
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestEmbedding_RoundTrip(t *testing.T) {
	c := newTestCache(t)

	vec := []float32{0.1, 0.2, 0.3}
	c.PutEmbedding("embeddinggemma", "Is lying wrong?", vec)
	c.Wait()

	got, found := c.GetEmbedding("embeddinggemma", "Is lying wrong?")
	require.True(t, found)
	assert.Equal(t, vec, got)
}

func TestEmbedding_KeyNormalizesQuery(t *testing.T) {
	c := newTestCache(t)

	c.PutEmbedding("embeddinggemma", "Is   Lying\tWrong?", []float32{1})
	c.Wait()

	_, found := c.GetEmbedding("embeddinggemma", "is lying wrong?")
	assert.True(t, found)
}

func TestEmbedding_ScopedByModel(t *testing.T) {
	c := newTestCache(t)

	c.PutEmbedding("model-a", "query", []float32{1})
	c.Wait()

	_, found := c.GetEmbedding("model-b", "query")
	assert.False(t, found)
}

func TestEmbedding_ReturnsCopy(t *testing.T) {
	c := newTestCache(t)

	c.PutEmbedding("m", "q", []float32{1, 2, 3})
	c.Wait()

	got, found := c.GetEmbedding("m", "q")
	require.True(t, found)
	got[0] = 99

	again, found := c.GetEmbedding("m", "q")
	require.True(t, found)
	assert.Equal(t, float32(1), again[0])
}

func TestResult_RoundTrip(t *testing.T) {
	c := newTestCache(t)

	verses := []*core.VerseContext{
		{
			Reference:   "EXO 20:16",
			Translation: "WEB",
			Text:        "You shall not give false testimony against your neighbor.",
		},
		{
			Reference:        "MAT 5:37",
			Translation:      "WEB",
			Text:             "But let your 'Yes' be 'Yes' and your 'No' be 'No.'",
			IsCrossReference: true,
		},
	}
	c.PutResult("WEB", "Is lying wrong?", verses)
	c.Wait()

	got, found := c.GetResult("WEB", "Is lying wrong?")
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "EXO 20:16", got[0].Reference)
	assert.True(t, got[1].IsCrossReference)
}

func TestResult_HitReturnsIndependentValues(t *testing.T) {
	c := newTestCache(t)

	verses := []*core.VerseContext{
		{
			Reference:   "JHN 3:16",
			Translation: "WEB",
			Text:        "For God so loved the world,",
		},
	}
	c.PutResult("WEB", "love", verses)
	c.Wait()

	first, found := c.GetResult("WEB", "love")
	require.True(t, found)
	first[0].Text = "mutated"

	second, found := c.GetResult("WEB", "love")
	require.True(t, found)
	assert.Equal(t, "For God so loved the world,", second[0].Text)
}

func TestResult_ScopedByTranslation(t *testing.T) {
	c := newTestCache(t)

	c.PutResult("WEB", "love", []*core.VerseContext{
		{Reference: "JHN 3:16", Translation: "WEB", Text: "For God so loved the world,"},
	})
	c.Wait()

	_, found := c.GetResult("KJV", "love")
	assert.False(t, found)
}

func TestResult_EmptySnapshotNotCached(t *testing.T) {
	c := newTestCache(t)

	c.PutResult("WEB", "nothing", nil)
	c.Wait()

	_, found := c.GetResult("WEB", "nothing")
	assert.False(t, found)
}
