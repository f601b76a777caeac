package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-relay/pkg/config"
	"contact-relay/pkg/metrics"
	"contact-relay/pkg/middleware"
)

// NewRouter wires middleware and routes onto a fresh gin engine
func NewRouter(cfg *config.Config, handlers *Handlers, logger *zap.SugaredLogger, m *metrics.Metrics) (*gin.Engine, error) {
	router := gin.New()

	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Max:    cfg.RateLimitMax,
		Window: cfg.RateLimitWindow,
	})

	router.GET("/", handlers.Root)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		api.POST("/send", limiter.Middleware(m, logger), handlers.Send)
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ping", handlers.Ping)
	}

	return router, nil
}
