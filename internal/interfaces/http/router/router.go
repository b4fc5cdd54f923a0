// Package router 提供 HTTP 路由配置
package router

import (
	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/interfaces/http/handler"
	"prompt-refinery-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的处理器集合
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Refine   *handler.RefineHandler
	Feedback *handler.FeedbackHandler
	Catalog  *handler.CatalogHandler
}

// Router HTTP 路由器
type Router struct {
	engine      *gin.Engine
	cfg         *config.Config
	handlers    Handlers
	limiter     middleware.RateLimiter
	tokenParser middleware.TokenParser
	keyResolver middleware.KeyResolver
}

// New 创建新的路由器
func New(cfg *config.Config, handlers Handlers, limiter middleware.RateLimiter, tokenParser middleware.TokenParser, keyResolver middleware.KeyResolver) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:      gin.New(),
		cfg:         cfg,
		handlers:    handlers,
		limiter:     limiter,
		tokenParser: tokenParser,
		keyResolver: keyResolver,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	r.engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerMinute: r.cfg.Security.RateLimit.RequestsPerMinute,
	}, r.limiter))

	r.engine.Use(middleware.KeySession(r.cfg.Session.CookieName, r.tokenParser, r.keyResolver))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/key", r.handlers.Auth.Connect)
			auth.DELETE("/key", r.handlers.Auth.Clear)
			auth.GET("/status", r.handlers.Auth.Status)
		}

		v1.POST("/refine", r.handlers.Refine.Refine)
		v1.POST("/tokens/count", r.handlers.Refine.CountTokens)

		v1.GET("/models", r.handlers.Catalog.Models)
		v1.GET("/presets", r.handlers.Catalog.Presets)

		v1.POST("/feedback", r.handlers.Feedback.Submit)
	}
}
