package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-refinery-api/internal/domain/refine"
)

func validRefineRequest() *RefineRequest {
	return &RefineRequest{
		ModelID:             "gemini-2.5-flash-image",
		Family:              "image",
		RawPrompt:           "a red fox in the snow",
		InstructionPresetID: "image-virtuoso",
	}
}

func TestRefineRequestValidate_UploadedNeedsDataURI(t *testing.T) {
	req := validRefineRequest()
	req.Assets = []AssetRefRequest{
		{Name: "ref.png", MimeType: "image/png", Source: "uploaded", DataURI: "data:image/png;base64,AAAA"},
	}
	assert.Empty(t, req.Validate())

	req.Assets[0].DataURI = "AAAA"
	assert.NotEmpty(t, req.Validate())

	req.Assets[0].DataURI = ""
	assert.NotEmpty(t, req.Validate())
}

func TestRefineRequestValidate_URLSourceNeedsURL(t *testing.T) {
	req := validRefineRequest()
	req.Assets = []AssetRefRequest{
		{Name: "ref.jpg", MimeType: "image/jpeg", Source: "url", URL: "https://example.com/ref.jpg"},
	}
	assert.Empty(t, req.Validate())

	req.Assets[0].URL = ""
	assert.NotEmpty(t, req.Validate())
}

func TestRefineRequestToDomain(t *testing.T) {
	req := validRefineRequest()
	req.ConversationID = "3e7f3f2a-68f2-4f1e-b9d4-1f2a3b4c5d6e"
	req.Answers = []AnswerRequest{{QuestionID: "q1", OptionID: "B"}}
	req.PreviousQuestions = []QuestionItemRequest{
		{ID: "q1", Text: "Lighting?", Options: []QuestionOptionRequest{
			{ID: "A", Label: "golden hour", Recommended: true, Why: "flattering for fur"},
			{ID: "B", Label: "overcast"},
		}},
	}
	req.Assets = []AssetRefRequest{
		{ID: "a1", Name: "ref.png", MimeType: "image/png", SizeBytes: 512, Source: "uploaded", DataURI: "data:image/png;base64,AAAA"},
	}
	req.Cache = &CacheRequest{Mode: "explicit_per_conversation", Key: "refine:abc", TTLSeconds: 600}

	out := req.ToDomain()
	assert.Equal(t, "3e7f3f2a-68f2-4f1e-b9d4-1f2a3b4c5d6e", out.ConversationID)
	assert.Equal(t, refine.FamilyImage, out.Family)
	require.Len(t, out.Answers, 1)
	assert.Equal(t, refine.Answer{QuestionID: "q1", OptionID: "B"}, out.Answers[0])
	require.Len(t, out.PreviousQuestions, 1)
	require.Len(t, out.PreviousQuestions[0].Options, 2)
	assert.True(t, out.PreviousQuestions[0].Options[0].Recommended)
	require.Len(t, out.Assets, 1)
	assert.Equal(t, refine.AssetSourceUploaded, out.Assets[0].Source)
	require.NotNil(t, out.Cache)
	assert.Equal(t, "explicit_per_conversation", out.Cache.Mode)
	assert.Equal(t, 600, out.Cache.TTLSeconds)
}
