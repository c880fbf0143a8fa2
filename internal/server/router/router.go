package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fodder/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
// webhook may be nil when WhatsApp is not configured.
func New(fodder *handlers.FodderHandler, webhook *handlers.WebhookHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	api.GET("/agents", fodder.ListAgents)
	api.GET("/farms", fodder.ListFarms)
	api.GET("/requests", fodder.ListRequests)
	api.POST("/requests", fodder.CreateRequest)
	api.GET("/requests/:id", fodder.GetRequest)
	api.PUT("/requests/:id", fodder.UpdateRequest)
	api.GET("/requests/:id/metrics", fodder.Metrics)
	api.GET("/requests/:id/schedule", fodder.Schedule)
	api.GET("/requests/:id/daily", fodder.Daily)

	if webhook != nil {
		r.GET("/webhook", webhook.Verify)
		r.POST("/webhook", webhook.Receive)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized", zap.Bool("webhook", webhook != nil))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
