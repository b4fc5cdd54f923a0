package refine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-refinery-api/internal/domain/refine"
)

func TestNormalizeUsage_CamelCase(t *testing.T) {
	raw := json.RawMessage(`{
		"promptTokenCount": 120,
		"candidatesTokenCount": 45,
		"totalTokenCount": 165,
		"cachedContentTokenCount": 80,
		"thoughtsTokenCount": 12,
		"promptTokensDetails": [{"modality":"TEXT","tokenCount":100},{"modality":"IMAGE","tokenCount":20}]
	}`)
	u := NormalizeUsage(raw)
	require.NotNil(t, u)
	assert.Equal(t, int64(120), u.PromptTokenCount)
	assert.Equal(t, int64(45), u.CandidatesTokenCount)
	assert.Equal(t, int64(165), u.TotalTokenCount)
	assert.Equal(t, int64(80), u.CachedContentTokenCount)
	assert.Equal(t, int64(12), u.ThoughtsTokenCount)
	require.Len(t, u.PromptTokensDetails, 2)
	assert.Equal(t, "IMAGE", u.PromptTokensDetails[1].Modality)
	assert.Equal(t, int64(20), u.PromptTokensDetails[1].TokenCount)
}

func TestNormalizeUsage_SnakeCase(t *testing.T) {
	raw := json.RawMessage(`{
		"prompt_token_count": 30,
		"candidates_token_count": 10,
		"total_token_count": 40,
		"cached_tokens": 25,
		"prompt_tokens_details": [{"modality_type":"TEXT","token_count":30}]
	}`)
	u := NormalizeUsage(raw)
	require.NotNil(t, u)
	assert.Equal(t, int64(30), u.PromptTokenCount)
	assert.Equal(t, int64(10), u.CandidatesTokenCount)
	assert.Equal(t, int64(40), u.TotalTokenCount)
	assert.Equal(t, int64(25), u.CachedContentTokenCount)
	require.Len(t, u.PromptTokensDetails, 1)
	assert.Equal(t, "TEXT", u.PromptTokensDetails[0].Modality)
}

func TestNormalizeUsage_CachedTokensAlias(t *testing.T) {
	u := NormalizeUsage(json.RawMessage(`{"cachedTokens": 77}`))
	require.NotNil(t, u)
	assert.Equal(t, int64(77), u.CachedContentTokenCount)
}

func TestNormalizeUsage_EmptyOrUnrecognized(t *testing.T) {
	assert.Nil(t, NormalizeUsage(nil))
	assert.Nil(t, NormalizeUsage(json.RawMessage(``)))
	assert.Nil(t, NormalizeUsage(json.RawMessage(`{}`)))
	assert.Nil(t, NormalizeUsage(json.RawMessage(`{"unrelated":"field"}`)))
	assert.Nil(t, NormalizeUsage(json.RawMessage(`not json`)))
}

func TestNormalizeUsage_ZeroIsPresent(t *testing.T) {
	u := NormalizeUsage(json.RawMessage(`{"totalTokenCount": 0, "promptTokenCount": 5}`))
	require.NotNil(t, u)
	assert.Equal(t, int64(0), u.TotalTokenCount)
	assert.Equal(t, int64(5), u.PromptTokenCount)
}

func TestAggregateUsage_Sums(t *testing.T) {
	primary := &refine.UsageMetadata{PromptTokenCount: 100, CandidatesTokenCount: 40, TotalTokenCount: 140, CachedContentTokenCount: 60}
	preview := &refine.UsageMetadata{PromptTokenCount: 20, CandidatesTokenCount: 10, TotalTokenCount: 30}

	agg := AggregateUsage(primary, nil, preview, nil)
	require.NotNil(t, agg)
	assert.Equal(t, int64(120), agg.PromptTokenCount)
	assert.Equal(t, int64(50), agg.CandidatesTokenCount)
	assert.Equal(t, int64(170), agg.TotalTokenCount)
	assert.Equal(t, int64(60), agg.CachedContentTokenCount)
}

func TestAggregateUsage_AllNil(t *testing.T) {
	assert.Nil(t, AggregateUsage(nil, nil, nil))
	assert.Nil(t, AggregateUsage())
}

func TestAggregateUsage_SingleInputEqualsItself(t *testing.T) {
	u := &refine.UsageMetadata{PromptTokenCount: 7, TotalTokenCount: 9, ThoughtsTokenCount: 2}
	agg := AggregateUsage(u)
	require.NotNil(t, agg)
	assert.Equal(t, u.PromptTokenCount, agg.PromptTokenCount)
	assert.Equal(t, u.TotalTokenCount, agg.TotalTokenCount)
	assert.Equal(t, u.ThoughtsTokenCount, agg.ThoughtsTokenCount)
}
