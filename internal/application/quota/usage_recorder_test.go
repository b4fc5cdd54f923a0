package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-refinery-api/internal/domain/refine"
	"prompt-refinery-api/internal/domain/service"
)

type memKV struct {
	values map[string][]byte
	getErr error
}

func newMemKV() *memKV {
	return &memKV{values: map[string][]byte{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memKV) Touch(_ context.Context, key string, _ time.Duration) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}

func (m *memKV) TTL(_ context.Context, key string) (time.Duration, bool, error) {
	_, ok := m.values[key]
	return 0, ok, nil
}

func TestRecorderAccumulatesAcrossCalls(t *testing.T) {
	kv := newMemKV()
	recorder := NewRecorder(kv)
	ctx := context.Background()

	recorder.Record(ctx, service.UsageRecord{
		ConversationID: "c-1",
		Model:          "gemini-2.5-flash",
		Call:           "primary",
		Usage:          &refine.UsageMetadata{PromptTokenCount: 100, TotalTokenCount: 140},
	})
	recorder.Record(ctx, service.UsageRecord{
		ConversationID: "c-1",
		Model:          "gemini-2.5-flash",
		Call:           "preview",
		Usage:          &refine.UsageMetadata{PromptTokenCount: 20, TotalTokenCount: 30},
	})

	agg, calls, err := recorder.Lookup(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(120), agg.PromptTokenCount)
	assert.Equal(t, int64(170), agg.TotalTokenCount)
}

func TestRecorderCountsCallsWithoutUsage(t *testing.T) {
	recorder := NewRecorder(newMemKV())
	ctx := context.Background()

	recorder.Record(ctx, service.UsageRecord{ConversationID: "c-2", Call: "primary"})

	agg, calls, err := recorder.Lookup(ctx, "c-2")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Nil(t, agg)
}

func TestRecorderIgnoresAnonymousConversations(t *testing.T) {
	kv := newMemKV()
	recorder := NewRecorder(kv)

	recorder.Record(context.Background(), service.UsageRecord{
		Call:  "primary",
		Usage: &refine.UsageMetadata{TotalTokenCount: 10},
	})
	assert.Empty(t, kv.values)
}

func TestRecorderStoreFailureIsSilent(t *testing.T) {
	kv := newMemKV()
	kv.getErr = assert.AnError
	recorder := NewRecorder(kv)

	// 读失败时静默跳过，不 panic 不回传
	recorder.Record(context.Background(), service.UsageRecord{
		ConversationID: "c-3",
		Usage:          &refine.UsageMetadata{TotalTokenCount: 10},
	})
}

func TestLookupUnknownConversation(t *testing.T) {
	recorder := NewRecorder(newMemKV())
	agg, calls, err := recorder.Lookup(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, agg)
	assert.Zero(t, calls)
}
