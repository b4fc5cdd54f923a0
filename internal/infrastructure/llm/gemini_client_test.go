package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/workflow/port"
)

func TestGeminiClient_FreshClientPerCall(t *testing.T) {
	c := NewGeminiClient(config.RefinerConfig{Timeout: 30 * time.Second})

	first, err := c.client(context.Background(), "byok-key-1")
	require.NoError(t, err)
	second, err := c.client(context.Background(), "byok-key-1")
	require.NoError(t, err)
	// 同一密钥两次调用也各建各的客户端，适配器自身不驻留密钥
	assert.NotSame(t, first, second)
}

func TestGeminiClient_CallContext(t *testing.T) {
	c := NewGeminiClient(config.RefinerConfig{Timeout: time.Second})
	ctx, cancel := c.callContext(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)

	none := NewGeminiClient(config.RefinerConfig{})
	ctx, cancel = none.callContext(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)
}

func TestToContents(t *testing.T) {
	contents := toContents([]port.Part{
		{Text: "describe the scene"},
		{MIMEType: "image/png", Data: []byte{0x89, 0x50}},
		{}, // 空分片被丢弃
	})
	require.Len(t, contents, 1)
	parts := contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "describe the scene", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
}

func TestSystemContent_EmptyIsNil(t *testing.T) {
	assert.Nil(t, systemContent(""))
	sc := systemContent("You refine prompts.")
	require.NotNil(t, sc)
	require.Len(t, sc.Parts, 1)
	assert.Equal(t, "You refine prompts.", sc.Parts[0].Text)
}
