package refine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/domain/refine"
	"prompt-refinery-api/internal/workflow/port"
	"prompt-refinery-api/pkg/errors"
)

// Preflight 下一轮调用的 token 预估服务
// 按缓存模式估算实际会随请求发送的内容，而不是一律估算完整指令。
type Preflight struct {
	counter port.TokenCounter
	cfg     config.RefinerConfig
}

// NewPreflight 创建预估服务
func NewPreflight(counter port.TokenCounter, cfg config.RefinerConfig) *Preflight {
	return &Preflight{counter: counter, cfg: cfg}
}

// CountNextTurn 预估下一轮主调用的 token 数
//   - 显式缓存且已有缓存名：只统计动态后缀，前缀计费走 cachedContent
//   - 显式缓存但尚未建缓存：并发统计待缓存前缀与动态后缀
//   - 其余模式：统计将要发送的完整指令（文本 + 图片）
func (p *Preflight) CountNextTurn(ctx context.Context, apiKey string, req *refine.RefineRequest) (*refine.TokenCountResult, error) {
	if apiKey == "" {
		return nil, errors.ErrMissingAPIKey
	}
	modelName := p.cfg.Model
	hasImages := req.HasImages()

	useExplicit := false
	cachedName := ""
	if req.Cache != nil {
		if m, ok := refine.ParseCacheMode(req.Cache.Mode); ok {
			useExplicit = m.Explicit()
		}
		cachedName = req.Cache.CachedContentName
	}

	if useExplicit && cachedName != "" {
		resp, err := p.count(ctx, apiKey, port.CountRequest{
			Model: modelName,
			Parts: buildParts(BuildPrimarySuffix(req), nil),
		})
		if err != nil {
			return nil, err
		}
		return &refine.TokenCountResult{TotalTokens: resp.TotalTokens}, nil
	}

	if useExplicit {
		var prefixResp, suffixResp *port.CountResult
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			prefixResp, err = p.count(gctx, apiKey, port.CountRequest{
				Model: modelName,
				Parts: buildParts(BuildCachedPrefix(req, hasImages), req.Assets),
			})
			return err
		})
		g.Go(func() error {
			var err error
			suffixResp, err = p.count(gctx, apiKey, port.CountRequest{
				Model: modelName,
				Parts: buildParts(BuildPrimarySuffix(req), nil),
			})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &refine.TokenCountResult{
			TotalTokens:             suffixResp.TotalTokens,
			CachedContentTokenCount: prefixResp.TotalTokens,
		}, nil
	}

	resp, err := p.count(ctx, apiKey, port.CountRequest{
		Model: modelName,
		Parts: buildParts(BuildDirective(req, hasImages), req.Assets),
	})
	if err != nil {
		return nil, err
	}
	return &refine.TokenCountResult{TotalTokens: resp.TotalTokens}, nil
}

func (p *Preflight) count(ctx context.Context, apiKey string, req port.CountRequest) (*port.CountResult, error) {
	resp, err := p.counter.CountTokens(ctx, apiKey, req)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrUpstreamError.WithError(err)
	}
	return resp, nil
}
