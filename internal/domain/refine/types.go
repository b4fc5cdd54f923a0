// Package refine 定义精炼流程的领域类型
// 字段的 JSON 标签即对外 API 契约（camelCase），客户端按此序列化。
package refine

// Family 目标生成模型家族
type Family string

const (
	FamilyText  Family = "text"
	FamilyImage Family = "image"
)

// CacheMode 上游显式缓存模式
type CacheMode string

const (
	CacheModeOff                 CacheMode = "off"
	CacheModeImplicitOnly        CacheMode = "implicit_only"
	CacheModeExplicitPerRequest  CacheMode = "explicit_per_request"
	CacheModeExplicitPerConversation CacheMode = "explicit_per_conversation"
)

// Explicit 是否为显式缓存模式
func (m CacheMode) Explicit() bool {
	return m == CacheModeExplicitPerRequest || m == CacheModeExplicitPerConversation
}

// ParseCacheMode 解析缓存模式，未知值返回 false
func ParseCacheMode(s string) (CacheMode, bool) {
	switch CacheMode(s) {
	case CacheModeOff, CacheModeImplicitOnly, CacheModeExplicitPerRequest, CacheModeExplicitPerConversation:
		return CacheMode(s), true
	}
	return "", false
}

// AssetSource 参考图来源
type AssetSource string

const (
	AssetSourceUploaded AssetSource = "uploaded"
	AssetSourceURL      AssetSource = "url"
)

// AssetRef 参考图引用
// 约束：uploaded 必须携带 DataURI，url 必须携带 URL；由 HTTP 边界校验。
type AssetRef struct {
	ID        string      `json:"id,omitempty"`
	Name      string      `json:"name"`
	MimeType  string      `json:"mimeType"`
	SizeBytes int64       `json:"sizeBytes,omitempty"`
	Source    AssetSource `json:"source"`
	URL       string      `json:"url,omitempty"`
	DataURI   string      `json:"dataUri,omitempty"`
}

// Answer 一条问答选择
type Answer struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// QuestionOption 澄清问题的候选项
type QuestionOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Recommended bool   `json:"recommended,omitempty"`
	Why         string `json:"why,omitempty"`
}

// QuestionItem 一条澄清问题
type QuestionItem struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Options []QuestionOption `json:"options"`
}

// CacheDescriptor 请求携带的缓存指令
type CacheDescriptor struct {
	Mode              string `json:"mode,omitempty"`
	CachedContentName string `json:"cachedContentName,omitempty"`
	Key               string `json:"key,omitempty"`
	TTLSeconds        int    `json:"ttlSeconds,omitempty"`
	ForceRefresh      bool   `json:"forceRefresh,omitempty"`
}

// RefineRequest 一轮用户输入
// 编排器不修改调用方的请求对象。
type RefineRequest struct {
	ConversationID        string           `json:"conversationId,omitempty"`
	ModelID               string           `json:"modelId"`
	Family                Family           `json:"family"`
	RawPrompt             string           `json:"rawPrompt"`
	InstructionPresetID   string           `json:"instructionPresetId"`
	Answers               []Answer         `json:"answers,omitempty"`
	AllowPartialAnswers   bool             `json:"allowPartialAnswers,omitempty"`
	PreviousPreviewPrompt string           `json:"previousPreviewPrompt,omitempty"`
	PreviousQuestions     []QuestionItem   `json:"previousQuestions,omitempty"`
	Assets                []AssetRef       `json:"assets,omitempty"`
	Cache                 *CacheDescriptor `json:"cache,omitempty"`
}

// HasImages 请求是否携带参考图
func (r *RefineRequest) HasImages() bool {
	return len(r.Assets) > 0
}

// Status 精炼结果状态
type Status string

const (
	StatusReady              Status = "ready"
	StatusNeedsClarification Status = "needs_clarification"
	StatusError              Status = "error"
)

// ValidStatus 判断状态 token 是否合法
func ValidStatus(s Status) bool {
	return s == StatusReady || s == StatusNeedsClarification || s == StatusError
}

// ModalityTokenCount 按模态的 token 统计
type ModalityTokenCount struct {
	Modality   string `json:"modality"`
	TokenCount int64  `json:"tokenCount"`
}

// UsageMetadata 单次上游调用的 token 统计
// 指针为 nil 表示上游完全没有返回用量数据，与零值区分。
type UsageMetadata struct {
	PromptTokenCount        int64                `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount    int64                `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount         int64                `json:"totalTokenCount,omitempty"`
	CachedContentTokenCount int64                `json:"cachedContentTokenCount,omitempty"`
	ThoughtsTokenCount      int64                `json:"thoughtsTokenCount,omitempty"`
	PromptTokensDetails     []ModalityTokenCount `json:"promptTokensDetails,omitempty"`
	CacheTokensDetails      []ModalityTokenCount `json:"cacheTokensDetails,omitempty"`
}

// UsageBundle 一次精炼调用内所有上游调用的用量汇总
type UsageBundle struct {
	Primary         *UsageMetadata `json:"primary,omitempty"`
	Preview         *UsageMetadata `json:"preview,omitempty"`
	Final           *UsageMetadata `json:"final,omitempty"`
	PreviewFallback *UsageMetadata `json:"previewFallback,omitempty"`
	Aggregate       *UsageMetadata `json:"aggregate,omitempty"`
}

// CacheEcho 回传给客户端、供下一轮复用的缓存元数据
type CacheEcho struct {
	Mode              string `json:"mode"`
	CachedContentName string `json:"cachedContentName,omitempty"`
	Key               string `json:"key,omitempty"`
	ExpireTime        string `json:"expireTime,omitempty"`
	Created           bool   `json:"created,omitempty"`
	TotalTokenCount   int64  `json:"totalTokenCount,omitempty"`
}

// ErrorInfo 模型返回的业务错误
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SchemaVersion 响应结构版本号
const SchemaVersion = "1.0"

// RefineResponse 精炼结果信封
type RefineResponse struct {
	ConversationID     string         `json:"conversationId"`
	Revision           int            `json:"revision"`
	Status             Status         `json:"status"`
	PreviewPrompt      string         `json:"previewPrompt,omitempty"`
	PerfectedPrompt    string         `json:"perfectedPrompt,omitempty"`
	Questions          []QuestionItem `json:"questions,omitempty"`
	RecommendedAnswers []Answer       `json:"recommendedAnswers,omitempty"`
	Warnings           []string       `json:"warnings,omitempty"`
	Error              *ErrorInfo     `json:"error,omitempty"`
	SchemaVersion      string         `json:"schemaVersion"`
	Usage              *UsageBundle   `json:"usage,omitempty"`
	Cache              *CacheEcho     `json:"cache,omitempty"`
}

// TokenCountResult 下一轮调用的 token 预估
type TokenCountResult struct {
	TotalTokens             int64 `json:"totalTokens"`
	CachedContentTokenCount int64 `json:"cachedContentTokenCount,omitempty"`
}
