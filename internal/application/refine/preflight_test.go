package refine

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-refinery-api/internal/domain/refine"
	"prompt-refinery-api/internal/workflow/port"
	"prompt-refinery-api/pkg/errors"
)

// fakeCounter 按文本内容返回可区分的 token 数
type fakeCounter struct {
	mu    sync.Mutex
	calls []port.CountRequest
	err   error
}

func (f *fakeCounter) CountTokens(_ context.Context, _ string, req port.CountRequest) (*port.CountResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	total := int64(0)
	for _, p := range req.Parts {
		total += int64(len(p.Text)) + int64(len(p.Data))
	}
	return &port.CountResult{TotalTokens: total}, nil
}

func newTestPreflight(counter *fakeCounter) *Preflight {
	return NewPreflight(counter, refinerTestConfig("implicit_only"))
}

func TestCountNextTurn_RequiresAPIKey(t *testing.T) {
	p := newTestPreflight(&fakeCounter{})
	_, err := p.CountNextTurn(context.Background(), "", imageRequest())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMissingAPIKey))
}

func TestCountNextTurn_FullDirectiveByDefault(t *testing.T) {
	counter := &fakeCounter{}
	p := newTestPreflight(counter)

	result, err := p.CountNextTurn(context.Background(), "api-key", imageRequest())
	require.NoError(t, err)
	require.Len(t, counter.calls, 1)
	assert.Contains(t, counter.calls[0].Parts[0].Text, "Raw Prompt:")
	assert.Greater(t, result.TotalTokens, int64(0))
	assert.Zero(t, result.CachedContentTokenCount)
}

func TestCountNextTurn_SuffixOnlyWithCachedName(t *testing.T) {
	counter := &fakeCounter{}
	p := newTestPreflight(counter)

	req := imageRequest()
	req.Answers = []refine.Answer{{QuestionID: "q1", OptionID: "A"}}
	req.Cache = &refine.CacheDescriptor{
		Mode:              string(refine.CacheModeExplicitPerConversation),
		CachedContentName: "cachedContents/abc",
	}
	result, err := p.CountNextTurn(context.Background(), "api-key", req)
	require.NoError(t, err)
	require.Len(t, counter.calls, 1)
	assert.NotContains(t, counter.calls[0].Parts[0].Text, "Raw Prompt:")
	assert.Contains(t, counter.calls[0].Parts[0].Text, "User Answers:")
	assert.Zero(t, result.CachedContentTokenCount)
}

func TestCountNextTurn_SplitsPrefixAndSuffixBeforeCacheExists(t *testing.T) {
	counter := &fakeCounter{}
	p := newTestPreflight(counter)

	req := imageRequest()
	req.Answers = []refine.Answer{{QuestionID: "q1", OptionID: "A"}}
	req.Cache = &refine.CacheDescriptor{Mode: string(refine.CacheModeExplicitPerRequest)}

	result, err := p.CountNextTurn(context.Background(), "api-key", req)
	require.NoError(t, err)
	require.Len(t, counter.calls, 2)

	var sawPrefix, sawSuffix bool
	for _, call := range counter.calls {
		text := call.Parts[len(call.Parts)-1].Text
		if strings.Contains(text, "Raw Prompt:") {
			sawPrefix = true
		}
		if strings.Contains(text, "User Answers:") {
			sawSuffix = true
		}
	}
	assert.True(t, sawPrefix)
	assert.True(t, sawSuffix)
	assert.Greater(t, result.CachedContentTokenCount, int64(0))
	assert.Greater(t, result.TotalTokens, int64(0))
	// TotalTokens 只覆盖后缀，前缀 token 单独回传
	assert.Less(t, result.TotalTokens, result.CachedContentTokenCount)
}

func TestCountNextTurn_WrapsCounterError(t *testing.T) {
	counter := &fakeCounter{err: assert.AnError}
	p := newTestPreflight(counter)

	_, err := p.CountNextTurn(context.Background(), "api-key", imageRequest())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamError))
}
