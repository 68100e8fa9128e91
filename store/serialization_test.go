package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/versecontext/core"
)

func TestVerseRoundTrip(t *testing.T) {
	verse := &core.Verse{
		Ref:         core.Ref{Book: "PRO", Chapter: 6, Verse: 16, VerseEnd: 19},
		Translation: "WEB",
		Text:        "There are six things which Yahweh hates",
		Embedding:   []float32{0.25, -1.5, 0, 3.75},
	}

	data := MarshalVerse(verse)
	got, err := UnmarshalVerse(data)
	require.NoError(t, err)
	assert.Equal(t, verse, got)
}

func TestVerseRoundTrip_NoEmbedding(t *testing.T) {
	verse := &core.Verse{
		Ref:         core.Ref{Book: "EXO", Chapter: 20, Verse: 13},
		Translation: "WEB",
		Text:        "You shall not murder.",
	}

	got, err := UnmarshalVerse(MarshalVerse(verse))
	require.NoError(t, err)
	assert.Nil(t, got.Embedding)
	assert.Equal(t, verse, got)
}

func TestUnmarshalVerse_Truncated(t *testing.T) {
	verse := &core.Verse{
		Ref:         core.Ref{Book: "JHN", Chapter: 3, Verse: 16},
		Translation: "WEB",
		Text:        "For God so loved the world",
		Embedding:   []float32{1, 2, 3},
	}
	data := MarshalVerse(verse)

	_, err := UnmarshalVerse(data[:len(data)-2])
	assert.Error(t, err)
}

func TestEdgeRoundTrip(t *testing.T) {
	edge := core.CrossRefEdge{
		Source: core.Ref{Book: "EXO", Chapter: 20, Verse: 13},
		Target: core.Ref{Book: "MAT", Chapter: 5, Verse: 21},
		Weight: 0.85,
	}

	got, err := UnmarshalEdge(MarshalEdge(edge))
	require.NoError(t, err)
	assert.Equal(t, edge, got)
}

func TestSnapshotRoundTrip(t *testing.T) {
	verses := []*core.VerseContext{
		{
			Reference:   "EXO 20:13",
			Translation: "WEB",
			Text:        "You shall not murder.",
			Original: []core.OriginalWord{
				{Word: "תרצח", StrongsID: "H7523", Gloss: "to murder", Transliteration: "ratsach"},
			},
		},
		{
			Reference:        "MAT 5:21",
			Translation:      "WEB",
			Text:             "You have heard that it was said",
			IsCrossReference: true,
		},
	}

	got, err := UnmarshalSnapshot(MarshalSnapshot(verses))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, verses[0], got[0])
	assert.Equal(t, verses[1], got[1])
}

func TestSnapshotRoundTrip_Empty(t *testing.T) {
	got, err := UnmarshalSnapshot(MarshalSnapshot(nil))
	require.NoError(t, err)
	assert.Empty(t, got)
}
