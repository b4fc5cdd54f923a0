// Package wire 提供应用装配
package wire

import (
	"context"

	"github.com/gin-gonic/gin"

	"prompt-refinery-api/internal/application/feedback"
	"prompt-refinery-api/internal/application/quota"
	apprefine "prompt-refinery-api/internal/application/refine"
	"prompt-refinery-api/internal/application/session"
	"prompt-refinery-api/internal/config"
	"prompt-refinery-api/internal/infrastructure/llm"
	"prompt-refinery-api/internal/infrastructure/persistence/redis"
	"prompt-refinery-api/internal/interfaces/http/handler"
	"prompt-refinery-api/internal/interfaces/http/router"
	"prompt-refinery-api/pkg/logger"
)

// App 装配完成的应用
type App struct {
	cfg    *config.Config
	router *router.Router
	redis  *redis.Client
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp 装配应用依赖
// 自底向上：存储客户端 → 应用服务 → 处理器 → 路由。
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}

	kv := redis.NewKVStore(redisClient)
	limiter := redis.NewRateLimiter(redisClient)

	gemini := llm.NewGeminiClient(cfg.Refiner)

	sessions := session.NewStore(kv, cfg.Session)
	tokenCodec := session.NewTokenCodec(cfg.Session.CookieSecret)
	recorder := quota.NewRecorder(kv)
	cacheMgr := apprefine.NewCacheManager(gemini, cfg.Refiner.Cache)
	orchestrator := apprefine.NewOrchestrator(gemini, cacheMgr, recorder, cfg.Refiner)
	preflight := apprefine.NewPreflight(gemini, cfg.Refiner)
	feedbackSvc := feedback.NewService(kv, kv, cfg.Feedback)

	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(redisClient, cfg.App.Version),
		Auth:     handler.NewAuthHandler(sessions, tokenCodec, cfg.Session),
		Refine:   handler.NewRefineHandler(orchestrator, preflight),
		Feedback: handler.NewFeedbackHandler(feedbackSvc),
		Catalog:  handler.NewCatalogHandler(),
	}

	r := router.New(cfg, handlers, limiter, tokenCodec, sessions)

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			logger.Error(ctx, "failed to close redis client", err)
		}
	}

	app := &App{
		cfg:    cfg,
		router: r,
		redis:  redisClient,
	}
	return app, cleanup, nil
}
