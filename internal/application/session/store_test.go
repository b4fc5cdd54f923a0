package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-refinery-api/internal/config"
)

// memKV 带 TTL 的内存 KV，测试里替代 Redis
type memKV struct {
	values map[string][]byte
	ttls   map[string]time.Duration
}

func newMemKV() *memKV {
	return &memKV{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.values[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	delete(m.ttls, key)
	return nil
}

func (m *memKV) Touch(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if _, ok := m.values[key]; !ok {
		return false, nil
	}
	m.ttls[key] = ttl
	return true, nil
}

func (m *memKV) TTL(_ context.Context, key string) (time.Duration, bool, error) {
	if _, ok := m.values[key]; !ok {
		return 0, false, nil
	}
	return m.ttls[key], true, nil
}

func sessionTestConfig() config.SessionConfig {
	return config.SessionConfig{
		DefaultTTL: 12 * time.Hour,
		MaxTTL:     7 * 24 * time.Hour,
		CookieName: "byok_session",
	}
}

func TestStoreCreateAndLookup(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv, sessionTestConfig())
	ctx := context.Background()

	sessionID, expiresAt, err := store.Create(ctx, "AIza-test-key", 2*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, time.Minute)

	key, err := store.APIKey(ctx, sessionID, false)
	require.NoError(t, err)
	assert.Equal(t, "AIza-test-key", key)
}

func TestStoreTTLNormalization(t *testing.T) {
	kv := newMemKV()
	cfg := sessionTestConfig()
	store := NewStore(kv, cfg)
	ctx := context.Background()

	// 非正时长回落默认值
	id1, _, err := store.Create(ctx, "k1", 0)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultTTL, kv.ttls[keyPrefix+id1])

	// 超出上限被截断
	id2, _, err := store.Create(ctx, "k2", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxTTL, kv.ttls[keyPrefix+id2])
}

func TestStoreAPIKey_MissingSession(t *testing.T) {
	store := NewStore(newMemKV(), sessionTestConfig())

	key, err := store.APIKey(context.Background(), "non-existent", false)
	require.NoError(t, err)
	assert.Empty(t, key)

	key, err = store.APIKey(context.Background(), "", true)
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestStoreSlidingRenewal(t *testing.T) {
	kv := newMemKV()
	cfg := sessionTestConfig()
	store := NewStore(kv, cfg)
	ctx := context.Background()

	sessionID, _, err := store.Create(ctx, "k", time.Hour)
	require.NoError(t, err)

	// 剩余 1h，续期到 1h + 默认时长一半 = 7h
	_, err = store.APIKey(ctx, sessionID, true)
	require.NoError(t, err)
	assert.Equal(t, time.Hour+cfg.DefaultTTL/2, kv.ttls[keyPrefix+sessionID])

	// 剩余已超过默认时长时封顶到默认时长，但不缩短
	kv.ttls[keyPrefix+sessionID] = 11 * time.Hour
	_, err = store.APIKey(ctx, sessionID, true)
	require.NoError(t, err)
	assert.Equal(t, cfg.DefaultTTL, kv.ttls[keyPrefix+sessionID])

	kv.ttls[keyPrefix+sessionID] = 13 * time.Hour
	_, err = store.APIKey(ctx, sessionID, true)
	require.NoError(t, err)
	assert.Equal(t, 13*time.Hour, kv.ttls[keyPrefix+sessionID], "续期不应缩短剩余时长")
}

func TestStoreExpiry(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv, sessionTestConfig())
	ctx := context.Background()

	sessionID, _, err := store.Create(ctx, "k", 3*time.Hour)
	require.NoError(t, err)

	expiresAt, found, err := store.Expiry(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, found)
	assert.WithinDuration(t, time.Now().Add(3*time.Hour), expiresAt, time.Minute)

	_, found, err = store.Expiry(ctx, "other")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreDelete(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv, sessionTestConfig())
	ctx := context.Background()

	sessionID, _, err := store.Create(ctx, "k", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, sessionID))

	key, err := store.APIKey(ctx, sessionID, false)
	require.NoError(t, err)
	assert.Empty(t, key)

	// 幂等
	require.NoError(t, store.Delete(ctx, sessionID))
	require.NoError(t, store.Delete(ctx, ""))
}
