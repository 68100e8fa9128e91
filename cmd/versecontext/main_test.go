package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadVerses(t *testing.T) {
	path := writeTempFile(t, "verses.json", `[
		{"reference": "Genesis 1:1", "text": "In the beginning, God created the heavens and the earth."},
		{"reference": "JHN 3:16", "translation": "KJV", "text": "For God so loved the world,"}
	]`)

	verses, err := loadVerses(path, "WEB")
	require.NoError(t, err)
	require.Len(t, verses, 2)

	assert.Equal(t, "GEN 1:1", verses[0].Ref.String())
	assert.Equal(t, "WEB", verses[0].Translation)
	assert.Equal(t, "JHN 3:16", verses[1].Ref.String())
	assert.Equal(t, "KJV", verses[1].Translation)
}

func TestLoadVerses_RejectsBadReference(t *testing.T) {
	path := writeTempFile(t, "verses.json", `[{"reference": "Nonsense 99", "text": "x"}]`)

	_, err := loadVerses(path, "WEB")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nonsense 99")
}

func TestLoadEdges(t *testing.T) {
	path := writeTempFile(t, "crossrefs.json", `[
		{"source": "Exodus 20:13", "target": "Matthew 5:21", "weight": 0.92}
	]`)

	edges, err := loadEdges(path)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "EXO 20:13", edges[0].Source.String())
	assert.Equal(t, "MAT 5:21", edges[0].Target.String())
	assert.InDelta(t, 0.92, edges[0].Weight, 1e-6)
}

func TestSetupLogger_RejectsUnknownLevel(t *testing.T) {
	app := &cli.App{
		Name: "versecontext",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Before: setupLogger,
		Action: func(*cli.Context) error { return nil },
	}

	require.NoError(t, app.Run([]string{"versecontext", "--log-level", "debug"}))

	err := app.Run([]string{"versecontext", "--log-level", "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
