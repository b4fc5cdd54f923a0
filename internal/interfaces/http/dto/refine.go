package dto

import (
	"strings"

	"prompt-refinery-api/internal/domain/refine"
)

// MaxAssets 单次请求的参考图上限
const MaxAssets = 4

// AssetRefRequest 参考图引用
type AssetRefRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name" binding:"required"`
	MimeType  string `json:"mimeType" binding:"required"`
	SizeBytes int64  `json:"sizeBytes"`
	Source    string `json:"source" binding:"required,oneof=uploaded url"`
	URL       string `json:"url" binding:"omitempty,url"`
	DataURI   string `json:"dataUri"`
}

// AnswerRequest 一条问答选择
type AnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	OptionID   string `json:"optionId" binding:"required"`
}

// QuestionOptionRequest 上一轮问题的候选项
type QuestionOptionRequest struct {
	ID          string `json:"id" binding:"required"`
	Label       string `json:"label" binding:"required"`
	Recommended bool   `json:"recommended"`
	Why         string `json:"why"`
}

// QuestionItemRequest 上一轮澄清问题
type QuestionItemRequest struct {
	ID      string                  `json:"id" binding:"required"`
	Text    string                  `json:"text" binding:"required"`
	Options []QuestionOptionRequest `json:"options" binding:"required,dive"`
}

// CacheRequest 缓存指令
type CacheRequest struct {
	Mode              string `json:"mode" binding:"omitempty,oneof=off implicit_only explicit_per_request explicit_per_conversation"`
	CachedContentName string `json:"cachedContentName"`
	Key               string `json:"key"`
	TTLSeconds        int    `json:"ttlSeconds" binding:"omitempty,gt=0"`
	ForceRefresh      bool   `json:"forceRefresh"`
}

// RefineRequest 精炼请求体
type RefineRequest struct {
	ConversationID        string                `json:"conversationId" binding:"omitempty,uuid"`
	ModelID               string                `json:"modelId" binding:"required"`
	Family                string                `json:"family" binding:"required,oneof=text image"`
	RawPrompt             string                `json:"rawPrompt" binding:"required,min=1"`
	InstructionPresetID   string                `json:"instructionPresetId" binding:"required"`
	Answers               []AnswerRequest       `json:"answers" binding:"omitempty,dive"`
	AllowPartialAnswers   bool                  `json:"allowPartialAnswers"`
	PreviousPreviewPrompt string                `json:"previousPreviewPrompt"`
	PreviousQuestions     []QuestionItemRequest `json:"previousQuestions" binding:"omitempty,dive"`
	Assets                []AssetRefRequest     `json:"assets" binding:"omitempty,max=4,dive"`
	Cache                 *CacheRequest         `json:"cache"`
}

// Validate 校验绑定之外的跨字段约束
func (r *RefineRequest) Validate() string {
	for i := range r.Assets {
		a := &r.Assets[i]
		switch a.Source {
		case "uploaded":
			if !strings.HasPrefix(a.DataURI, "data:") {
				return "uploaded 资产必须携带 data: 开头的 dataUri"
			}
		case "url":
			if a.URL == "" {
				return "url 资产必须携带 url"
			}
		}
	}
	return ""
}

// ToDomain 转换为领域请求
func (r *RefineRequest) ToDomain() *refine.RefineRequest {
	out := &refine.RefineRequest{
		ConversationID:        r.ConversationID,
		ModelID:               r.ModelID,
		Family:                refine.Family(r.Family),
		RawPrompt:             r.RawPrompt,
		InstructionPresetID:   r.InstructionPresetID,
		AllowPartialAnswers:   r.AllowPartialAnswers,
		PreviousPreviewPrompt: r.PreviousPreviewPrompt,
	}
	for _, a := range r.Answers {
		out.Answers = append(out.Answers, refine.Answer{QuestionID: a.QuestionID, OptionID: a.OptionID})
	}
	for _, q := range r.PreviousQuestions {
		item := refine.QuestionItem{ID: q.ID, Text: q.Text}
		for _, o := range q.Options {
			item.Options = append(item.Options, refine.QuestionOption{
				ID:          o.ID,
				Label:       o.Label,
				Recommended: o.Recommended,
				Why:         o.Why,
			})
		}
		out.PreviousQuestions = append(out.PreviousQuestions, item)
	}
	for _, a := range r.Assets {
		out.Assets = append(out.Assets, refine.AssetRef{
			ID:        a.ID,
			Name:      a.Name,
			MimeType:  a.MimeType,
			SizeBytes: a.SizeBytes,
			Source:    refine.AssetSource(a.Source),
			URL:       a.URL,
			DataURI:   a.DataURI,
		})
	}
	if r.Cache != nil {
		out.Cache = &refine.CacheDescriptor{
			Mode:              r.Cache.Mode,
			CachedContentName: r.Cache.CachedContentName,
			Key:               r.Cache.Key,
			TTLSeconds:        r.Cache.TTLSeconds,
			ForceRefresh:      r.Cache.ForceRefresh,
		}
	}
	return out
}
