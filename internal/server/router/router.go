package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/coilstock/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.CoilHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/coils", handler.Create)
	r.GET("/coils", handler.List)
	r.GET("/coils/stats", handler.Stats)

	// Legacy one-field range endpoints, kept for backward compatibility with
	// the combined filter above.
	r.GET("/coils/id", handler.FilterByID)
	r.GET("/coils/length", handler.FilterByLength)
	r.GET("/coils/weight", handler.FilterByWeight)
	r.GET("/coils/add_date", handler.FilterByAddDate)
	r.GET("/coils/delete_date", handler.FilterByDeleteDate)

	r.GET("/coils/:id", handler.GetByID)
	r.DELETE("/coils/:id", handler.Delete)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
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
