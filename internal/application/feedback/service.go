// Package feedback 用户反馈采集
// 反馈落入有界队列，由外部投递流程消费；接口侧只负责限频与入队。
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/domain/repository"
	"prompt-refinery-api/pkg/errors"
	"prompt-refinery-api/pkg/logger"
)

// Entry 一条反馈记录
type Entry struct {
	Message     string    `json:"message"`
	Email       string    `json:"email,omitempty"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Service 反馈服务
type Service struct {
	queue   repository.QueueStore
	limiter repository.CounterStore
	cfg     config.FeedbackConfig
}

// NewService 创建反馈服务
func NewService(queue repository.QueueStore, limiter repository.CounterStore, cfg config.FeedbackConfig) *Service {
	return &Service{queue: queue, limiter: limiter, cfg: cfg}
}

const rateWindow = time.Hour

// Submit 限频校验后入队
// 同一 IP 每小时最多 cfg.MaxPerHour 条，超过返回 TOO_MANY_REQUESTS。
func (s *Service) Submit(ctx context.Context, entry Entry) error {
	if !s.cfg.Enabled {
		return errors.ErrNotFound.WithDetail("反馈通道未开启")
	}
	if err := s.checkRate(ctx, entry.ClientIP); err != nil {
		return err
	}

	entry.SubmittedAt = time.Now().UTC()
	payload, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternalError, "反馈序列化失败")
	}
	if err := s.queue.Push(ctx, s.cfg.QueueKey, payload, s.cfg.QueueMaxLen); err != nil {
		return errors.Wrap(err, errors.CodeStoreError, "反馈入队失败")
	}
	logger.Info(ctx, "收到用户反馈", "client_ip", entry.ClientIP, "has_email", entry.Email != "")
	return nil
}

// checkRate 按小时窗口对来源 IP 原子计数
// 自增与窗口过期在存储侧同一管道内完成，并发提交不会越过上限；
// 窗口是固定而非滑动的，够用且便宜。
func (s *Service) checkRate(ctx context.Context, clientIP string) error {
	if s.cfg.MaxPerHour <= 0 {
		return nil
	}
	key := fmt.Sprintf("feedback:rate:%s", clientIP)
	count, err := s.limiter.Incr(ctx, key, rateWindow)
	if err != nil {
		// 限频存储不可用时放行，不让反馈通道整体失效
		logger.Warn(ctx, "反馈限频计数失败", "error", err.Error())
		return nil
	}
	if count > int64(s.cfg.MaxPerHour) {
		logger.Warn(ctx, "反馈提交超出限频", "client_ip", clientIP, "count", count)
		return errors.ErrTooManyRequests.WithDetail("反馈提交过于频繁，请稍后再试")
	}
	return nil
}
