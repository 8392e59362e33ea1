package http

import (
	"net/http"

	"callbreak/internal/config"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	cfg config.Config
}

func NewConfigHandler(cfg config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// GetBotWeightsHandler returns the weights every bot seat plays with
// @Summary Get bot weights
// @Description Returns the hand-evaluation weights used for bot calls and trump choice
// @Tags Config
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /config/bot-weights [get]
func (h *ConfigHandler) GetBotWeightsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"weights":   h.cfg.Bot,
		"defaults":  config.DefaultBotWeights(),
		"maxRounds": h.cfg.MaxRounds,
	})
}
