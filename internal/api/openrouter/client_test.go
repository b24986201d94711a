package openrouter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptosignal/models"
)

func TestDecodeJSONStripsMarkdownFences(t *testing.T) {
	content := "```json\n{\"score\": 0.7, \"summary\": \"Bullish on ETF inflows\"}\n```"

	var parsed models.HeadlineScore
	require.NoError(t, decodeJSON(content, &parsed))
	assert.Equal(t, 0.7, parsed.Score)
	assert.Equal(t, "Bullish on ETF inflows", parsed.Summary)
}

func TestDecodeJSONBareObject(t *testing.T) {
	var parsed models.Refinement
	require.NoError(t, decodeJSON(`{"action": "BUY", "confidence": 75, "reasoning": "ok"}`, &parsed))
	assert.Equal(t, "BUY", parsed.Action)
	assert.Equal(t, 75.0, parsed.Confidence)
}

func TestDecodeJSONSurroundingProse(t *testing.T) {
	content := `Here is my analysis: {"action": "HOLD", "confidence": 55, "reasoning": "range-bound"} hope this helps`

	var parsed models.Refinement
	require.NoError(t, decodeJSON(content, &parsed))
	assert.Equal(t, "HOLD", parsed.Action)
}

func TestDecodeJSONNoObject(t *testing.T) {
	var parsed models.Refinement
	err := decodeJSON("I cannot provide a recommendation", &parsed)
	assert.ErrorContains(t, err, "no JSON object")
}
