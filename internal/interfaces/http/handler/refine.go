// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	apprefine "prompt-refinery-api/internal/application/refine"
	"prompt-refinery-api/internal/interfaces/http/dto"
	"prompt-refinery-api/internal/interfaces/http/middleware"
	"prompt-refinery-api/pkg/errors"
)

// RefineHandler 精炼与 token 预估端点
type RefineHandler struct {
	orchestrator *apprefine.Orchestrator
	preflight    *apprefine.Preflight
}

// NewRefineHandler 创建精炼处理器
func NewRefineHandler(orchestrator *apprefine.Orchestrator, preflight *apprefine.Preflight) *RefineHandler {
	return &RefineHandler{orchestrator: orchestrator, preflight: preflight}
}

// sessionAPIKey 取会话中间件装载的 API key
func sessionAPIKey(c *gin.Context) string {
	return c.GetString(middleware.ContextKeyAPIKey)
}

// Refine 精炼一轮用户输入
// POST /v1/refine
func (h *RefineHandler) Refine(c *gin.Context) {
	var req dto.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FromAppError(c, errors.ErrInvalidParam.WithError(err))
		return
	}
	if msg := req.Validate(); msg != "" {
		dto.FromAppError(c, errors.ErrInvalidParam.WithDetail(msg))
		return
	}

	apiKey := sessionAPIKey(c)
	if apiKey == "" {
		dto.FromAppError(c, errors.ErrMissingAPIKey)
		return
	}

	resp, err := h.orchestrator.Refine(c.Request.Context(), apiKey, req.ToDomain())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, resp)
}

// CountTokens 预估下一轮调用的 token 数
// POST /v1/tokens/count
func (h *RefineHandler) CountTokens(c *gin.Context) {
	var req dto.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FromAppError(c, errors.ErrInvalidParam.WithError(err))
		return
	}

	apiKey := sessionAPIKey(c)
	if apiKey == "" {
		dto.FromAppError(c, errors.ErrMissingAPIKey)
		return
	}

	result, err := h.preflight.CountNextTurn(c.Request.Context(), apiKey, req.ToDomain())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	dto.Success(c, result)
}
