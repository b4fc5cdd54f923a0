package refine

import (
	"encoding/json"

	"prompt-refinery-api/internal/domain/refine"
)

// 上游用量字段命名风格不稳定（camelCase 或 snake_case），
// 归一化全部收敛在本文件，其余组件只见 refine.UsageMetadata。

type rawModalityCount struct {
	Modality     string `json:"modality"`
	ModalityType string `json:"modality_type"`
	Type         string `json:"type"`
	TokenCount   *int64 `json:"tokenCount"`
	TokenCount2  *int64 `json:"token_count"`
}

type rawUsage struct {
	PromptTokenCount         *int64             `json:"promptTokenCount"`
	PromptTokenCountSnake    *int64             `json:"prompt_token_count"`
	CandidatesTokenCount     *int64             `json:"candidatesTokenCount"`
	CandidatesTokenSnake     *int64             `json:"candidates_token_count"`
	TotalTokenCount          *int64             `json:"totalTokenCount"`
	TotalTokenCountSnake     *int64             `json:"total_token_count"`
	CachedContentTokenCount  *int64             `json:"cachedContentTokenCount"`
	CachedContentTokenSnake  *int64             `json:"cached_content_token_count"`
	CachedTokens             *int64             `json:"cachedTokens"`
	CachedTokensSnake        *int64             `json:"cached_tokens"`
	ThoughtsTokenCount       *int64             `json:"thoughtsTokenCount"`
	ThoughtsTokenCountSnake  *int64             `json:"thoughts_token_count"`
	PromptTokensDetails      []rawModalityCount `json:"promptTokensDetails"`
	PromptTokensDetailsSnake []rawModalityCount `json:"prompt_tokens_details"`
	CacheTokensDetails       []rawModalityCount `json:"cacheTokensDetails"`
	CacheTokensDetailsSnake  []rawModalityCount `json:"cache_tokens_details"`
}

func firstInt(vals ...*int64) (int64, bool) {
	for _, v := range vals {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

func toModalityList(raw []rawModalityCount) []refine.ModalityTokenCount {
	if len(raw) == 0 {
		return nil
	}
	out := make([]refine.ModalityTokenCount, 0, len(raw))
	for _, item := range raw {
		modality := item.Modality
		if modality == "" {
			modality = item.ModalityType
		}
		if modality == "" {
			modality = item.Type
		}
		count, ok := firstInt(item.TokenCount, item.TokenCount2)
		if modality == "" || !ok {
			continue
		}
		out = append(out, refine.ModalityTokenCount{Modality: modality, TokenCount: count})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeUsage 把上游原始用量 JSON 归一化为领域用量
// 输入为空或无任何可识别字段时返回 nil。
func NormalizeUsage(raw json.RawMessage) *refine.UsageMetadata {
	if len(raw) == 0 {
		return nil
	}
	var r rawUsage
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil
	}
	out := &refine.UsageMetadata{}
	any := false
	if v, ok := firstInt(r.PromptTokenCount, r.PromptTokenCountSnake); ok {
		out.PromptTokenCount, any = v, true
	}
	if v, ok := firstInt(r.CandidatesTokenCount, r.CandidatesTokenSnake); ok {
		out.CandidatesTokenCount, any = v, true
	}
	if v, ok := firstInt(r.TotalTokenCount, r.TotalTokenCountSnake); ok {
		out.TotalTokenCount, any = v, true
	}
	if v, ok := firstInt(r.CachedContentTokenCount, r.CachedContentTokenSnake, r.CachedTokens, r.CachedTokensSnake); ok {
		out.CachedContentTokenCount, any = v, true
	}
	if v, ok := firstInt(r.ThoughtsTokenCount, r.ThoughtsTokenCountSnake); ok {
		out.ThoughtsTokenCount, any = v, true
	}
	details := r.PromptTokensDetails
	if len(details) == 0 {
		details = r.PromptTokensDetailsSnake
	}
	if list := toModalityList(details); list != nil {
		out.PromptTokensDetails, any = list, true
	}
	cacheDetails := r.CacheTokensDetails
	if len(cacheDetails) == 0 {
		cacheDetails = r.CacheTokensDetailsSnake
	}
	if list := toModalityList(cacheDetails); list != nil {
		out.CacheTokensDetails, any = list, true
	}
	if !any {
		return nil
	}
	return out
}

// AggregateUsage 逐字段累加各次调用的用量
// 全部输入为 nil 时返回 nil，而不是零值对象。
func AggregateUsage(usages ...*refine.UsageMetadata) *refine.UsageMetadata {
	acc := &refine.UsageMetadata{}
	any := false
	for _, u := range usages {
		if u == nil {
			continue
		}
		any = true
		acc.PromptTokenCount += u.PromptTokenCount
		acc.CandidatesTokenCount += u.CandidatesTokenCount
		acc.TotalTokenCount += u.TotalTokenCount
		acc.CachedContentTokenCount += u.CachedContentTokenCount
		acc.ThoughtsTokenCount += u.ThoughtsTokenCount
	}
	if !any {
		return nil
	}
	return acc
}
