package routes

import (
	"time"

	"stock_updater_project/controllers"
	"stock_updater_project/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRoutes registers the operational endpoints
func SetupRoutes(router *gin.Engine, uc *controllers.UpdateController) {
	// Probes
	router.GET("/health", uc.Health)
	router.GET("/ready", uc.Ready)

	api := router.Group("/api/v1")
	{
		updates := api.Group("/updates")
		{
			updates.GET("/last", uc.LastRun)
			// A run takes a while; a couple of manual triggers per minute is plenty
			updates.POST("/run", middleware.NewRateLimiter(2, time.Minute).Limit(), uc.TriggerRun)
		}
	}
}

// NewRouter creates a gin engine with recovery and request logging
func NewRouter(environment string, logger *zap.Logger) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	return router
}

// requestLogger logs errors and slow requests, skipping probes
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || path == "/ready" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		if c.Writer.Status() >= 400 || duration > time.Second {
			logger.Info("HTTP request",
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.Int("status", c.Writer.Status()),
				zap.Duration("duration", duration))
		}
	}
}
