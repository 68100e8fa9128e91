package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON_MissingOpeningQuote(t *testing.T) {
	in := `{references": ["John 3:16"]}`
	out := repairJSON(in)

	var parsed suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, []string{"John 3:16"}, parsed.References)
}

func TestRepairJSON_ValidInputUnchanged(t *testing.T) {
	in := `{"references": ["Exodus 20:16", "Proverbs 6:16-19"]}`
	assert.Equal(t, in, repairJSON(in))
}

func TestRepairJSON_EmptyObject(t *testing.T) {
	assert.Equal(t, `{}`, repairJSON(`{}`))
}

func TestRepairJSON_QuotedKeysInsideValues(t *testing.T) {
	// Colons inside string values must not trigger repair.
	in := `{"references": ["John 3:16"], "note": "a, b: c"}`
	assert.Equal(t, in, repairJSON(in))
}
