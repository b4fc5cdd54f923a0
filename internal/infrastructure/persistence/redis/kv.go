package redis

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"prompt-refinery-api/internal/domain/repository"
)

// KVStore repository.KVStore 的 Redis 实现
type KVStore struct {
	client *Client
}

// NewKVStore 创建键值存储
func NewKVStore(client *Client) *KVStore {
	return &KVStore{client: client}
}

var (
	_ repository.KVStore      = (*KVStore)(nil)
	_ repository.CounterStore = (*KVStore)(nil)
	_ repository.QueueStore   = (*KVStore)(nil)
)

// Get 读取键值，不存在返回 found=false
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, span := tracer.Start(ctx, "redis.kv.Get",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	val, err := s.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		span.RecordError(err)
		return nil, false, err
	}
	return val, true, nil
}

// Set 写入键值并设置 TTL
func (s *KVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "redis.kv.Set",
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.Int64("redis.ttl_ms", ttl.Milliseconds()),
		))
	defer span.End()

	err := s.client.rdb.Set(ctx, key, value, ttl).Err()
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Delete 删除键，幂等
func (s *KVStore) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "redis.kv.Delete",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	err := s.client.rdb.Del(ctx, key).Err()
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// Touch 仅更新 TTL，键不存在返回 false
func (s *KVStore) Touch(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ctx, span := tracer.Start(ctx, "redis.kv.Touch",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	ok, err := s.client.rdb.Expire(ctx, key, ttl).Result()
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	return ok, nil
}

// TTL 查询剩余存活时间，键不存在返回 found=false
func (s *KVStore) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	ctx, span := tracer.Start(ctx, "redis.kv.TTL",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	d, err := s.client.rdb.TTL(ctx, key).Result()
	if err != nil {
		span.RecordError(err)
		return 0, false, err
	}
	remaining, found := ttlResult(d)
	return remaining, found, nil
}

// ttlResult 解读 TTL 命令的返回值
// go-redis 把 -1/-2 哨兵原样放进 time.Duration（纳秒），不做单位换算：
// -1 键存在但无过期时间，-2 键不存在。
func ttlResult(d time.Duration) (time.Duration, bool) {
	switch {
	case d == time.Duration(-1):
		return 0, true
	case d < 0:
		return 0, false
	default:
		return d, true
	}
}

// Incr 原子自增并返回增后值
// INCR 与 EXPIRE NX 走同一管道，首次计数时设窗口过期，避免读改写竞态。
func (s *KVStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	ctx, span := tracer.Start(ctx, "redis.kv.Incr",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	pipe := s.client.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	if ttl > 0 {
		pipe.ExpireNX(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return 0, err
	}
	return incr.Val(), nil
}

// Push 左推入列表并裁剪到 maxLen
func (s *KVStore) Push(ctx context.Context, key string, value []byte, maxLen int64) error {
	ctx, span := tracer.Start(ctx, "redis.kv.Push",
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.Int64("redis.max_len", maxLen),
		))
	defer span.End()

	pipe := s.client.rdb.Pipeline()
	pipe.LPush(ctx, key, value)
	if maxLen > 0 {
		pipe.LTrim(ctx, key, 0, maxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Len 查询列表长度
func (s *KVStore) Len(ctx context.Context, key string) (int64, error) {
	ctx, span := tracer.Start(ctx, "redis.kv.Len",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()

	n, err := s.client.rdb.LLen(ctx, key).Result()
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	return n, nil
}
