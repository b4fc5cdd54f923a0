// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"prompt-refinery-api/pkg/logger"
)

// 会话解析结果在 Gin Context 中的键
const (
	ContextKeySessionID = "byok_session_id"
	ContextKeyAPIKey    = "byok_api_key"
)

// KeyResolver 从会话 id 解析上游 API key
type KeyResolver interface {
	APIKey(ctx context.Context, sessionID string, touch bool) (string, error)
}

// TokenParser 校验会话 cookie token 并取出会话 id
type TokenParser interface {
	Parse(token string) (string, error)
}

// KeySession 解析 BYOK 会话 cookie 并装载 API key
// 没有会话不拦截请求，是否强制由各 handler 决定。
func KeySession(cookieName string, parser TokenParser, resolver KeyResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sessionID, err := parser.Parse(token)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		c.Set(ContextKeySessionID, sessionID)
		ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sessionID)
		c.Request = c.Request.WithContext(ctx)

		apiKey, err := resolver.APIKey(c.Request.Context(), sessionID, true)
		if err != nil {
			logger.Warn(c.Request.Context(), "会话解析失败", "error", err.Error())
			c.Next()
			return
		}
		if apiKey != "" {
			c.Set(ContextKeyAPIKey, apiKey)
		}

		c.Next()
	}
}
