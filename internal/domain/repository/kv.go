// Package repository 定义领域层对外部存储的端口
package repository

import (
	"context"
	"time"
)

// KVStore 带 TTL 的键值存储端口，由 Redis 实现
type KVStore interface {
	// Get key 不存在时返回 (nil, false, nil)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Touch 仅更新 TTL，key 不存在时返回 false
	Touch(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// TTL key 不存在时返回 (0, false, nil)
	TTL(ctx context.Context, key string) (time.Duration, bool, error)
}

// CounterStore 带窗口过期的原子计数端口，限频用
type CounterStore interface {
	// Incr 原子自增并返回增后值；key 尚无过期时间时设为 ttl
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// QueueStore 有界队列端口，反馈采集入队用
type QueueStore interface {
	// Push 入队并按 maxLen 截断队尾之外的旧元素
	Push(ctx context.Context, key string, value []byte, maxLen int64) error
	Len(ctx context.Context, key string) (int64, error)
}
