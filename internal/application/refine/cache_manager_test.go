package refine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/workflow/port"
)

// fakeContentCache 记录调用的显式缓存假实现
type fakeContentCache struct {
	createErr   error
	createName  string
	expireTime  time.Time
	tokenCount  int64
	createCalls []port.CachedContentSpec
	ttlCalls    []string
	deleteCalls []string
}

func (f *fakeContentCache) Create(_ context.Context, _ string, spec port.CachedContentSpec) (*port.CachedContentInfo, error) {
	f.createCalls = append(f.createCalls, spec)
	if f.createErr != nil {
		return nil, f.createErr
	}
	name := f.createName
	if name == "" {
		name = "cachedContents/generated-1"
	}
	return &port.CachedContentInfo{Name: name, ExpireTime: f.expireTime, TotalTokenCount: f.tokenCount}, nil
}

func (f *fakeContentCache) UpdateTTL(_ context.Context, _ string, name string, _ time.Duration) (*port.CachedContentInfo, error) {
	f.ttlCalls = append(f.ttlCalls, name)
	return &port.CachedContentInfo{Name: name}, nil
}

func (f *fakeContentCache) Delete(_ context.Context, _ string, name string) error {
	f.deleteCalls = append(f.deleteCalls, name)
	return nil
}

func cacheTestConfig() config.RefinerCacheConfig {
	return config.RefinerCacheConfig{
		DefaultMode:       "explicit_per_conversation",
		DefaultTTL:        15 * time.Minute,
		AutoDeleteOnReady: true,
	}
}

func TestCacheManagerEnsure_TrustsRequestedName(t *testing.T) {
	cache := &fakeContentCache{}
	mgr := NewCacheManager(cache, cacheTestConfig())

	result := mgr.Ensure(context.Background(), "key", port.CachedContentSpec{Model: "gemini-2.5-flash"}, "cachedContents/existing")
	require.True(t, result.OK)
	assert.Equal(t, "cachedContents/existing", result.Name)
	assert.False(t, result.Created)
	assert.Empty(t, cache.createCalls, "携带缓存名时不应发起创建")
}

func TestCacheManagerEnsure_CreatesWhenMissing(t *testing.T) {
	expire := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	cache := &fakeContentCache{createName: "cachedContents/fresh", expireTime: expire, tokenCount: 2048}
	mgr := NewCacheManager(cache, cacheTestConfig())

	result := mgr.Ensure(context.Background(), "key", port.CachedContentSpec{Model: "gemini-2.5-flash"}, "")
	require.True(t, result.OK)
	assert.True(t, result.Created)
	assert.Equal(t, "cachedContents/fresh", result.Name)
	assert.Equal(t, expire, result.ExpireTime)
	assert.Equal(t, int64(2048), result.TokenCount)
	assert.Len(t, cache.createCalls, 1)
}

func TestCacheManagerEnsure_CreateFailureDegrades(t *testing.T) {
	cache := &fakeContentCache{createErr: fmt.Errorf("quota exceeded")}
	mgr := NewCacheManager(cache, cacheTestConfig())

	result := mgr.Ensure(context.Background(), "key", port.CachedContentSpec{Model: "gemini-2.5-flash"}, "")
	assert.False(t, result.OK)
	assert.Empty(t, result.Name)
	assert.Contains(t, result.Reason, "quota exceeded")
}

func TestCacheManagerResolveTTL(t *testing.T) {
	mgr := NewCacheManager(&fakeContentCache{}, cacheTestConfig())
	assert.Equal(t, 90*time.Second, mgr.ResolveTTL(90))
	assert.Equal(t, 15*time.Minute, mgr.ResolveTTL(0))
	assert.Equal(t, 15*time.Minute, mgr.ResolveTTL(-5))
}
