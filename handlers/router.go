package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterConfig wires the handler and the non-gin endpoints into a router.
type RouterConfig struct {
	AllowOrigins []string
	// Stream serves /api/stream when set.
	Stream http.Handler
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Logger  zerolog.Logger
}

// DefaultOrigin is the Angular dev server of the web viewer.
const DefaultOrigin = "http://localhost:4200"

func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{DefaultOrigin}
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(cfg.Logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "PUT", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: false,
	}))

	api := r.Group("/api")
	{
		api.GET("/planets", h.GetPlanets)
		api.GET("/planets/:name", h.GetPlanetByName)
		api.GET("/bodies", h.GetBodies)
		api.GET("/bodies/:name", h.GetBodyByName)
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.PutSettings)
		api.GET("/camera", h.GetCamera)
		api.POST("/input", h.PostInput)
		if cfg.Stream != nil {
			api.GET("/stream", gin.WrapH(cfg.Stream))
		}
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	return r
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client", c.ClientIP()).
			Msg("http request")
	}
}
