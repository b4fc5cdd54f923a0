package refine

import (
	"encoding/json"
	"strings"

	"prompt-refinery-api/internal/domain/refine"
	"prompt-refinery-api/pkg/errors"
)

// modelEnvelope 主调用结构化输出的信封
type modelEnvelope struct {
	Status             refine.Status         `json:"status"`
	PreviewPrompt      string                `json:"previewPrompt"`
	PerfectedPrompt    string                `json:"perfectedPrompt"`
	Questions          []refine.QuestionItem `json:"questions"`
	RecommendedAnswers []refine.Answer       `json:"recommendedAnswers"`
	Warnings           []string              `json:"warnings"`
	Error              *refine.ErrorInfo     `json:"error"`
}

// previewEnvelope 预览补充调用的输出
type previewEnvelope struct {
	PreviewPrompt string `json:"previewPrompt"`
}

// finalEnvelope 定稿补充调用的输出
type finalEnvelope struct {
	PerfectedPrompt string `json:"perfectedPrompt"`
}

// CoerceJSON 尽力把模型输出解析为 JSON：
// 先整体解析，失败后截取最外层 {...}，再失败截取最外层 [...]，
// 全部失败返回 MODEL_RETURNED_NON_JSON。
// 处理的是模型把 JSON 包在 markdown 围栏或前后缀文字里的常见情形。
func CoerceJSON(text string, v any) error {
	if json.Unmarshal([]byte(text), v) == nil {
		return nil
	}
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if json.Unmarshal([]byte(text[start:end+1]), v) == nil {
			return nil
		}
	}
	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
		if json.Unmarshal([]byte(text[start:end+1]), v) == nil {
			return nil
		}
	}
	return errors.ErrModelReturnedNonJSON.WithDetail("模型输出不是可解析的 JSON")
}
