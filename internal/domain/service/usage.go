// Package service 领域服务接口
package service

import (
	"context"

	"prompt-refinery-api/internal/domain/refine"
)

// UsageRecord 单次上游调用的记账条目
type UsageRecord struct {
	ConversationID string
	Model          string
	Call           string // primary / preview / final / preview_fallback / count_tokens
	Usage          *refine.UsageMetadata
}

// UsageRecorder 上游用量记账端口
// 记账失败不阻断主流程，实现内部自行吞掉错误并打日志。
type UsageRecorder interface {
	Record(ctx context.Context, rec UsageRecord)
}
