package handler

import (
	"github.com/gin-gonic/gin"

	"prompt-refinery-api/internal/application/feedback"
	"prompt-refinery-api/internal/interfaces/http/dto"
	"prompt-refinery-api/pkg/errors"
)

// FeedbackHandler 用户反馈端点
type FeedbackHandler struct {
	svc *feedback.Service
}

// NewFeedbackHandler 创建反馈处理器
func NewFeedbackHandler(svc *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Submit 提交反馈
// POST /v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FromAppError(c, errors.ErrInvalidParam.WithError(err))
		return
	}

	err := h.svc.Submit(c.Request.Context(), feedback.Entry{
		Message:   req.Message,
		Email:     req.Email,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, dto.FeedbackResponse{Success: true})
}
