// Package llm Gemini 上游适配器
// 把 workflow/port 的生成、计数、缓存端口落到 google.golang.org/genai SDK。
package llm

import (
	"context"
	"encoding/json"
	"time"

	"google.golang.org/genai"

	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/workflow/port"
	"prompt-refinery-api/pkg/errors"
	"prompt-refinery-api/pkg/logger"
)

// GeminiClient Gemini SDK 适配器
type GeminiClient struct {
	timeout time.Duration
}

// NewGeminiClient 创建适配器
func NewGeminiClient(cfg config.RefinerConfig) *GeminiClient {
	return &GeminiClient{timeout: cfg.Timeout}
}

var (
	_ port.Generator    = (*GeminiClient)(nil)
	_ port.TokenCounter = (*GeminiClient)(nil)
	_ port.ContentCache = (*GeminiClient)(nil)
)

// client 按请求新建 SDK 客户端
// BYOK 密钥只在本次调用内存活，不做任何驻留；构造不发网络请求，开销可忽略。
func (c *GeminiClient) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamError, "上游客户端初始化失败")
	}
	return cli, nil
}

func (c *GeminiClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func toContents(parts []port.Part) []*genai.Content {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Text != "" {
			out = append(out, &genai.Part{Text: p.Text})
			continue
		}
		if p.MIMEType != "" && len(p.Data) > 0 {
			out = append(out, &genai.Part{
				InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data},
			})
		}
	}
	return []*genai.Content{{Role: genai.RoleUser, Parts: out}}
}

func systemContent(instruction string) *genai.Content {
	if instruction == "" {
		return nil
	}
	return &genai.Content{Parts: []*genai.Part{{Text: instruction}}}
}

// Generate 发起一次生成调用
func (c *GeminiClient) Generate(ctx context.Context, apiKey string, req port.GenerateRequest) (*port.GenerateResult, error) {
	cli, err := c.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature:      req.Temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schemaFor(req.Schema),
	}
	if req.ThinkingBudget != nil {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: req.ThinkingBudget}
	}
	if req.CachedContent != "" {
		cfg.CachedContent = req.CachedContent
	} else {
		cfg.SystemInstruction = systemContent(req.SystemInstruction)
	}

	resp, err := cli.Models.GenerateContent(ctx, req.Model, toContents(req.Parts), cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamError, "上游生成调用失败")
	}

	var rawUsage json.RawMessage
	if resp.UsageMetadata != nil {
		if data, err := json.Marshal(resp.UsageMetadata); err == nil {
			rawUsage = data
		}
	}
	return &port.GenerateResult{Text: resp.Text(), Usage: rawUsage}, nil
}

// CountTokens 预估内容 token 数
func (c *GeminiClient) CountTokens(ctx context.Context, apiKey string, req port.CountRequest) (*port.CountResult, error) {
	cli, err := c.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	cfg := &genai.CountTokensConfig{}
	if sys := systemContent(req.SystemInstruction); sys != nil {
		cfg.SystemInstruction = sys
	}
	resp, err := cli.Models.CountTokens(ctx, req.Model, toContents(req.Parts), cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstreamError, "上游计数调用失败")
	}
	return &port.CountResult{TotalTokens: int64(resp.TotalTokens)}, nil
}

// Create 创建显式缓存对象
func (c *GeminiClient) Create(ctx context.Context, apiKey string, spec port.CachedContentSpec) (*port.CachedContentInfo, error) {
	cli, err := c.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	cfg := &genai.CreateCachedContentConfig{
		Contents:          toContents(spec.Parts),
		SystemInstruction: systemContent(spec.SystemInstruction),
	}
	if spec.TTL > 0 {
		cfg.TTL = spec.TTL
	}
	created, err := cli.Caches.Create(ctx, spec.Model, cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "显式缓存创建失败")
	}
	info := &port.CachedContentInfo{
		Name:       created.Name,
		ExpireTime: created.ExpireTime,
	}
	if created.UsageMetadata != nil {
		info.TotalTokenCount = int64(created.UsageMetadata.TotalTokenCount)
	}
	logger.Debug(ctx, "显式缓存对象已创建", "name", info.Name, "expire_time", info.ExpireTime)
	return info, nil
}

// UpdateTTL 刷新显式缓存存活时间
func (c *GeminiClient) UpdateTTL(ctx context.Context, apiKey, name string, ttl time.Duration) (*port.CachedContentInfo, error) {
	cli, err := c.client(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	updated, err := cli.Caches.Update(ctx, name, &genai.UpdateCachedContentConfig{TTL: ttl})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "显式缓存续期失败")
	}
	return &port.CachedContentInfo{Name: updated.Name, ExpireTime: updated.ExpireTime}, nil
}

// Delete 删除显式缓存对象
func (c *GeminiClient) Delete(ctx context.Context, apiKey, name string) error {
	cli, err := c.client(ctx, apiKey)
	if err != nil {
		return err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := cli.Caches.Delete(ctx, name, nil); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "显式缓存删除失败")
	}
	return nil
}
