// Package quota 上游用量记账
package quota

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prompt-refinery-api/internal/domain/refine"
	"prompt-refinery-api/internal/domain/repository"
	"prompt-refinery-api/internal/domain/service"
	"prompt-refinery-api/pkg/logger"
)

const (
	usageKeyPrefix = "usage:conversation:"
	usageTTL       = 24 * time.Hour
)

// conversationUsage 会话维度的累计用量
type conversationUsage struct {
	Calls     int                   `json:"calls"`
	Aggregate *refine.UsageMetadata `json:"aggregate,omitempty"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// Recorder 把每次上游调用的用量累计到会话维度
// 记账是旁路行为：任何失败只打日志，绝不影响精炼主流程。
type Recorder struct {
	kv repository.KVStore
}

// NewRecorder 创建记账器
func NewRecorder(kv repository.KVStore) *Recorder {
	return &Recorder{kv: kv}
}

var _ service.UsageRecorder = (*Recorder)(nil)

// Record 累加一次调用的用量
func (r *Recorder) Record(ctx context.Context, rec service.UsageRecord) {
	logger.Debug(ctx, "上游调用用量",
		"conversation_id", rec.ConversationID,
		"model", rec.Model,
		"call", rec.Call,
		"usage", rec.Usage,
	)
	if rec.ConversationID == "" {
		return
	}

	key := fmt.Sprintf("%s%s", usageKeyPrefix, rec.ConversationID)
	var acc conversationUsage
	if val, found, err := r.kv.Get(ctx, key); err != nil {
		logger.Warn(ctx, "用量读取失败", "key", key, "error", err.Error())
		return
	} else if found {
		if err := json.Unmarshal(val, &acc); err != nil {
			acc = conversationUsage{}
		}
	}

	acc.Calls++
	if rec.Usage != nil {
		acc.Aggregate = sumUsage(acc.Aggregate, rec.Usage)
	}
	acc.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(acc)
	if err != nil {
		return
	}
	if err := r.kv.Set(ctx, key, payload, usageTTL); err != nil {
		logger.Warn(ctx, "用量写入失败", "key", key, "error", err.Error())
	}
}

// Lookup 查询会话累计用量，不存在返回 nil
func (r *Recorder) Lookup(ctx context.Context, conversationID string) (*refine.UsageMetadata, int, error) {
	val, found, err := r.kv.Get(ctx, usageKeyPrefix+conversationID)
	if err != nil || !found {
		return nil, 0, err
	}
	var acc conversationUsage
	if err := json.Unmarshal(val, &acc); err != nil {
		return nil, 0, nil
	}
	return acc.Aggregate, acc.Calls, nil
}

func sumUsage(acc, add *refine.UsageMetadata) *refine.UsageMetadata {
	if acc == nil {
		out := *add
		return &out
	}
	acc.PromptTokenCount += add.PromptTokenCount
	acc.CandidatesTokenCount += add.CandidatesTokenCount
	acc.TotalTokenCount += add.TotalTokenCount
	acc.CachedContentTokenCount += add.CachedContentTokenCount
	acc.ThoughtsTokenCount += add.ThoughtsTokenCount
	return acc
}
