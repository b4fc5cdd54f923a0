package handler

import (
	"github.com/gin-gonic/gin"

	apprefine "prompt-refinery-api/internal/application/refine"
	"prompt-refinery-api/internal/interfaces/http/dto"
)

// CatalogHandler 模型与预设目录端点
type CatalogHandler struct{}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Models 列出可选目标模型
// GET /v1/models
func (h *CatalogHandler) Models(c *gin.Context) {
	dto.Success(c, apprefine.Models)
}

// Presets 列出指令预设（不含人格全文）
// GET /v1/presets
func (h *CatalogHandler) Presets(c *gin.Context) {
	dto.Success(c, apprefine.Presets)
}
