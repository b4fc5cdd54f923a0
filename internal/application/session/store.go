// Package session 管理 BYOK 密钥会话
// 客户端提交自己的上游 API key，换取一个仅存在服务端的会话 id，
// 之后的请求只携带会话 cookie，密钥本身不再进出浏览器。
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/domain/repository"
	"prompt-refinery-api/pkg/errors"
	"prompt-refinery-api/pkg/logger"
)

const keyPrefix = "byok:session:"

// Store 密钥会话存储，状态全部落在注入的 KV 里
type Store struct {
	kv  repository.KVStore
	cfg config.SessionConfig
}

// NewStore 创建会话存储
func NewStore(kv repository.KVStore, cfg config.SessionConfig) *Store {
	return &Store{kv: kv, cfg: cfg}
}

// normalizeTTL 归一会话时长：非正回落默认值，超上限截断
func (s *Store) normalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return s.cfg.DefaultTTL
	}
	if ttl > s.cfg.MaxTTL {
		return s.cfg.MaxTTL
	}
	return ttl
}

// Create 新建密钥会话，返回会话 id 与过期时间
func (s *Store) Create(ctx context.Context, apiKey string, ttl time.Duration) (string, time.Time, error) {
	ttl = s.normalizeTTL(ttl)
	sessionID := uuid.NewString()
	if err := s.kv.Set(ctx, keyPrefix+sessionID, []byte(apiKey), ttl); err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.CodeStoreError, "会话写入失败")
	}
	expiresAt := time.Now().Add(ttl)
	logger.Debug(ctx, "密钥会话已创建", "session_id", sessionID, "expires_at", expiresAt)
	return sessionID, expiresAt, nil
}

// APIKey 取回会话绑定的 API key，会话不存在或过期返回空串
// touch 为真时滑动续期：延长默认时长的一半，但剩余时长不超过默认时长。
func (s *Store) APIKey(ctx context.Context, sessionID string, touch bool) (string, error) {
	if sessionID == "" {
		return "", nil
	}
	val, found, err := s.kv.Get(ctx, keyPrefix+sessionID)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStoreError, "会话读取失败")
	}
	if !found {
		return "", nil
	}
	if touch {
		s.slideExpiry(ctx, sessionID)
	}
	return string(val), nil
}

func (s *Store) slideExpiry(ctx context.Context, sessionID string) {
	remaining, found, err := s.kv.TTL(ctx, keyPrefix+sessionID)
	if err != nil || !found {
		return
	}
	extended := remaining + s.cfg.DefaultTTL/2
	if extended > s.cfg.DefaultTTL {
		extended = s.cfg.DefaultTTL
	}
	if extended <= remaining {
		return
	}
	if _, err := s.kv.Touch(ctx, keyPrefix+sessionID, extended); err != nil {
		logger.Warn(ctx, "会话续期失败", "session_id", sessionID, "error", err.Error())
	}
}

// Expiry 查询会话过期时间，不存在返回 false
func (s *Store) Expiry(ctx context.Context, sessionID string) (time.Time, bool, error) {
	if sessionID == "" {
		return time.Time{}, false, nil
	}
	remaining, found, err := s.kv.TTL(ctx, keyPrefix+sessionID)
	if err != nil {
		return time.Time{}, false, errors.Wrap(err, errors.CodeStoreError, "会话读取失败")
	}
	if !found {
		return time.Time{}, false, nil
	}
	return time.Now().Add(remaining), true, nil
}

// Delete 删除会话，幂等
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.kv.Delete(ctx, keyPrefix+sessionID); err != nil {
		return errors.Wrap(err, errors.CodeStoreError, "会话删除失败")
	}
	return nil
}
