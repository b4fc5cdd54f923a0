package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prompt-refinery-api/internal/application/session"
	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/interfaces/http/dto"
	"prompt-refinery-api/internal/interfaces/http/middleware"
	"prompt-refinery-api/pkg/errors"
)

// AuthHandler BYOK 密钥会话端点
type AuthHandler struct {
	sessions *session.Store
	codec    *session.TokenCodec
	cfg      config.SessionConfig
}

// NewAuthHandler 创建会话处理器
func NewAuthHandler(sessions *session.Store, codec *session.TokenCodec, cfg config.SessionConfig) *AuthHandler {
	return &AuthHandler{sessions: sessions, codec: codec, cfg: cfg}
}

// Connect 提交 API key 建立会话
// POST /v1/auth/key
func (h *AuthHandler) Connect(c *gin.Context) {
	var req dto.ConnectKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FromAppError(c, errors.ErrInvalidParam.WithError(err))
		return
	}

	ttl := h.cfg.DefaultTTL
	if req.RememberHours > 0 {
		ttl = time.Duration(req.RememberHours) * time.Hour
	}

	sessionID, expiresAt, err := h.sessions.Create(c.Request.Context(), req.APIKey, ttl)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	token, err := h.codec.Sign(sessionID, expiresAt)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.CookieName, token, int(time.Until(expiresAt).Seconds()), "/", "", h.cfg.CookieSecure, true)
	dto.Success(c, dto.ConnectKeyResponse{
		Connected: true,
		ExpiresAt: expiresAt.UnixMilli(),
	})
}

// Status 查询会话状态
// GET /v1/auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextKeySessionID)
	if sessionID == "" {
		dto.Success(c, dto.KeyStatusResponse{Connected: false})
		return
	}

	expiresAt, found, err := h.sessions.Expiry(c.Request.Context(), sessionID)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}
	if !found {
		dto.Success(c, dto.KeyStatusResponse{Connected: false})
		return
	}
	dto.Success(c, dto.KeyStatusResponse{
		Connected: true,
		ExpiresAt: expiresAt.UnixMilli(),
	})
}

// Clear 注销会话并清除 cookie
// DELETE /v1/auth/key
func (h *AuthHandler) Clear(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextKeySessionID)
	if sessionID != "" {
		if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
			dto.FromAppError(c, err)
			return
		}
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	dto.NoContent(c)
}
