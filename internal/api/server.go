package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// NewRouter wires the read-only body feed. An empty origins list allows any
// origin.
func NewRouter(e *Engine, logger log.Logger, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log.With(logger, "component", "http")))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: false,
	}
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	h := NewHandler(e)
	api := r.Group("/api")
	{
		api.GET("/bodies", h.GetBodies)
		api.GET("/bodies/:name", h.GetBodyByName)
		api.GET("/status", h.GetStatus)
	}
	return r
}

func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level.Debug(logger).Log(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
