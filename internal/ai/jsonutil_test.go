package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Category string `json:"category"`
}

func TestDecodeJSONFenced(t *testing.T) {
	content := "Here is the result:\n```json\n{\"category\": \"software\"}\n```\nLet me know if you need more."

	var p payload
	require.NoError(t, DecodeJSON(content, &p))
	assert.Equal(t, "software", p.Category)
}

func TestDecodeJSONBareFence(t *testing.T) {
	content := "```\n{\"category\": \"consulting\"}\n```"

	var p payload
	require.NoError(t, DecodeJSON(content, &p))
	assert.Equal(t, "consulting", p.Category)
}

func TestDecodeJSONUnwrapped(t *testing.T) {
	content := `The answer is {"category": "hardware"} as requested.`

	var p payload
	require.NoError(t, DecodeJSON(content, &p))
	assert.Equal(t, "hardware", p.Category)
}

func TestDecodeJSONNoObject(t *testing.T) {
	var p payload
	err := DecodeJSON("sorry, I cannot help with that", &p)
	require.Error(t, err)
	assert.True(t, IsParse(err))
}

func TestDecodeJSONMalformed(t *testing.T) {
	var p payload
	err := DecodeJSON("```json\n{\"category\": \n```", &p)
	require.Error(t, err)
	assert.True(t, IsParse(err))
}

func TestDecodeJSONArray(t *testing.T) {
	content := "```json\n[{\"seller_id\": \"a\", \"match_score\": 85, \"reasoning\": \"ok\"}]\n```"

	var matches []SellerMatch
	require.NoError(t, DecodeJSONArray(content, &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].SellerId)
	assert.Equal(t, 85, matches[0].MatchScore)
}

func TestDecodeJSONArrayNoArray(t *testing.T) {
	var matches []SellerMatch
	err := DecodeJSONArray(`{"seller_id": "a"}`, &matches)
	require.Error(t, err)
	assert.True(t, IsParse(err))
}
