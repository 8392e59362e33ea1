package http

import (
	"log/slog"
	"time"

	"callbreak/internal/api/ws"
	"callbreak/internal/config"
	"callbreak/internal/table"

	"github.com/gin-gonic/gin"
)

func NewRouter(tm *table.Manager, hub *ws.Hub, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(slog.Default()))

	r.GET("/healthz", HealthHandler)

	// WebSocket for live play
	r.GET("/ws", hub.HandleWS)

	// --- TABLE ENDPOINTS ---
	r.POST("/tables", CreateTableHandler(tm))
	r.GET("/tables", ListTablesHandler(tm))
	r.GET("/tables/:code", GetTableHandler(tm))
	r.POST("/tables/:code/bots", AddBotsHandler(tm))

	// --- CONFIG ENDPOINTS ---
	ch := NewConfigHandler(cfg)
	r.GET("/config/bot-weights", ch.GetBotWeightsHandler)

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelDebug
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		log.Log(c.Request.Context(), level, "http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"dur", time.Since(start),
		)
	}
}
