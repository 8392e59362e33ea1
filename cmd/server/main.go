package main

import (
	"log/slog"
	"os"
	"time"

	httpapi "callbreak/internal/api/http"
	"callbreak/internal/api/ws"
	"callbreak/internal/config"
	"callbreak/internal/session"
	"callbreak/internal/store"
	"callbreak/internal/table"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// @title Call Break API
// @version 1.0
// @description Lobby REST API and WebSocket play for four-seat Call Break tables (Go + Gin)
// @BasePath /
func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
	if cfg.LogLevel > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	mem := store.NewMemoryStore()
	tm := table.NewManager(mem, cfg, nil)
	hub := ws.NewHub(tm, session.NewIssuer(cfg.SessionSecret, cfg.SessionTTL))
	tm.SetBroadcaster(hub)
	r := httpapi.NewRouter(tm, hub, cfg)

	slog.Info("listening", "addr", cfg.HTTPAddr, "maxRounds", cfg.MaxRounds)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		slog.Error("server stopped", tint.Err(err))
		os.Exit(1)
	}
}
