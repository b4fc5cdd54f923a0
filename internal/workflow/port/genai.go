// Package port 定义工作流对上游模型能力的端口
// 编排核心只依赖这里的接口，不感知具体 SDK。
package port

import (
	"context"
	"encoding/json"
	"time"
)

// SchemaKind 结构化输出的响应 schema 选择
type SchemaKind string

const (
	// SchemaRefine 完整精炼信封 schema
	SchemaRefine SchemaKind = "refine"
	// SchemaPreview 仅 previewPrompt 字段
	SchemaPreview SchemaKind = "preview"
	// SchemaFinal 仅 perfectedPrompt 字段
	SchemaFinal SchemaKind = "final"
	// SchemaNone 纯文本输出
	SchemaNone SchemaKind = "none"
)

// Part 一段多模态输入，Text 与 InlineData 二选一
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart 构造文本段
func TextPart(s string) Part { return Part{Text: s} }

// InlinePart 构造内联二进制段
func InlinePart(mime string, data []byte) Part { return Part{MIMEType: mime, Data: data} }

// GenerateRequest 一次生成调用
type GenerateRequest struct {
	Model             string
	Parts             []Part
	SystemInstruction string
	// CachedContent 非空时复用显式缓存，此时 SystemInstruction 必须为空
	CachedContent  string
	Temperature    *float32
	ThinkingBudget *int32
	Schema         SchemaKind
}

// GenerateResult 生成结果
// Usage 为上游原始用量 JSON，字段命名风格由调用方归一化。
type GenerateResult struct {
	Text  string
	Usage json.RawMessage
}

// Generator 模型生成端口
type Generator interface {
	Generate(ctx context.Context, apiKey string, req GenerateRequest) (*GenerateResult, error)
}

// CountRequest token 预估调用
type CountRequest struct {
	Model             string
	Parts             []Part
	SystemInstruction string
}

// CountResult token 预估结果
type CountResult struct {
	TotalTokens int64
}

// TokenCounter token 预估端口
type TokenCounter interface {
	CountTokens(ctx context.Context, apiKey string, req CountRequest) (*CountResult, error)
}

// CachedContentSpec 创建显式缓存的输入
type CachedContentSpec struct {
	Model             string
	Parts             []Part
	SystemInstruction string
	TTL               time.Duration
}

// CachedContentInfo 显式缓存元数据
type CachedContentInfo struct {
	Name            string
	ExpireTime      time.Time
	TotalTokenCount int64
}

// ContentCache 上游显式缓存生命周期端口
type ContentCache interface {
	Create(ctx context.Context, apiKey string, spec CachedContentSpec) (*CachedContentInfo, error)
	// UpdateTTL 刷新缓存存活时间
	UpdateTTL(ctx context.Context, apiKey, name string, ttl time.Duration) (*CachedContentInfo, error)
	Delete(ctx context.Context, apiKey, name string) error
}
