package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/ledger-engine/internal/config"
	"github.com/ignatzorin/ledger-engine/internal/http/handlers"
	"github.com/ignatzorin/ledger-engine/internal/http/middleware"
)

func SetupRouter(
	cfg *config.Config,
	batchHandler *handlers.BatchHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	batches := api.Group("/batches")
	batches.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		batches.POST("", batchHandler.Process)
	}

	return r
}
