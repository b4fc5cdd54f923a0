package refine

import (
	"context"
	"time"

	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/workflow/port"
	"prompt-refinery-api/pkg/logger"
	"prompt-refinery-api/pkg/metrics"
)

// EnsureResult 缓存确保结果，失败是一个可见分支而不是异常
type EnsureResult struct {
	OK         bool
	Name       string
	ExpireTime time.Time
	Created    bool
	TokenCount int64
	// Reason 失败原因，OK 为 false 时有值
	Reason string
}

// CacheManager 管理上游显式缓存的生命周期
type CacheManager struct {
	cache port.ContentCache
	cfg   config.RefinerCacheConfig
}

// NewCacheManager 创建缓存管理器
func NewCacheManager(cache port.ContentCache, cfg config.RefinerCacheConfig) *CacheManager {
	return &CacheManager{cache: cache, cfg: cfg}
}

// ResolveTTL 请求 TTL 为零时回落到配置默认值
func (m *CacheManager) ResolveTTL(ttlSeconds int) time.Duration {
	if ttlSeconds > 0 {
		return time.Duration(ttlSeconds) * time.Second
	}
	return m.cfg.DefaultTTL
}

// AutoDeleteOnReady 会话完结时是否清理缓存对象
func (m *CacheManager) AutoDeleteOnReady() bool {
	return m.cfg.AutoDeleteOnReady
}

// Ensure 确保一个可引用的显式缓存存在
// 调用方已给出 requestedName 时直接信任，不做校验回程；
// 否则创建新缓存。创建失败返回 OK=false，由编排器降级为无缓存路径。
func (m *CacheManager) Ensure(ctx context.Context, apiKey string, spec port.CachedContentSpec, requestedName string) EnsureResult {
	if requestedName != "" {
		metrics.ContentCacheOps.WithLabelValues("reuse", "success").Inc()
		return EnsureResult{OK: true, Name: requestedName}
	}

	info, err := m.cache.Create(ctx, apiKey, spec)
	if err != nil {
		logger.Warn(ctx, "显式缓存创建失败，降级为无缓存调用", "error", err.Error())
		metrics.ContentCacheOps.WithLabelValues("create", "error").Inc()
		return EnsureResult{OK: false, Reason: err.Error()}
	}
	logger.Debug(ctx, "显式缓存已创建",
		"name", info.Name,
		"expire_time", info.ExpireTime,
		"token_count", info.TotalTokenCount,
	)
	metrics.ContentCacheOps.WithLabelValues("create", "success").Inc()
	return EnsureResult{
		OK:         true,
		Name:       info.Name,
		ExpireTime: info.ExpireTime,
		Created:    true,
		TokenCount: info.TotalTokenCount,
	}
}

// UpdateTTL 刷新缓存存活时间，失败只记日志不回传
func (m *CacheManager) UpdateTTL(ctx context.Context, apiKey, name string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.cfg.DefaultTTL
	}
	if ttl <= 0 {
		return
	}
	if _, err := m.cache.UpdateTTL(ctx, apiKey, name, ttl); err != nil {
		logger.Warn(ctx, "显式缓存续期失败", "name", name, "error", err.Error())
		metrics.ContentCacheOps.WithLabelValues("update_ttl", "error").Inc()
		return
	}
	metrics.ContentCacheOps.WithLabelValues("update_ttl", "success").Inc()
}

// Delete 删除缓存对象，失败只记日志不回传
func (m *CacheManager) Delete(ctx context.Context, apiKey, name string) {
	if err := m.cache.Delete(ctx, apiKey, name); err != nil {
		logger.Warn(ctx, "显式缓存删除失败", "name", name, "error", err.Error())
		metrics.ContentCacheOps.WithLabelValues("delete", "error").Inc()
		return
	}
	metrics.ContentCacheOps.WithLabelValues("delete", "success").Inc()
}
