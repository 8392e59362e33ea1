package http

import (
	"errors"
	"io"
	"net/http"

	"callbreak/internal/game"
	"callbreak/internal/table"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, table.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, table.ErrNoEmptySeat), errors.Is(err, game.ErrInvalidPhase):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error(), Reason: table.Reason(err)})
}

// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /healthz [get]
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Create new table
// @Description Create an empty table, optionally seating bots right away
// @Tags Table
// @Accept json
// @Produce json
// @Param request body CreateTableRequest false "Table options"
// @Success 201 {object} map[string]interface{}
// @Router /tables [post]
func CreateTableHandler(tm *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTableRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Reason: "BadPayload"})
			return
		}
		t := tm.CreateTable()
		if req.Bots > 0 {
			if err := tm.AddBots(t.Code, req.Bots); err != nil {
				fail(c, err)
				return
			}
		}
		c.JSON(http.StatusCreated, gin.H{"tableCode": t.Code, "table": t.Summary()})
	}
}

// @Summary List tables
// @Tags Table
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /tables [get]
func ListTablesHandler(tm *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tables": tm.List()})
	}
}

// @Summary Get table state
// @Description Returns the lobby summary and the public game state
// @Tags Table
// @Produce json
// @Param code path string true "Table Code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /tables/{code} [get]
func GetTableHandler(tm *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := tm.Get(c.Param("code"))
		if !ok {
			fail(c, table.ErrTableNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"table": t.Summary(), "state": t.Snapshot()})
	}
}

// @Summary Add bots to a table
// @Description Seat bots in the empty chairs of a waiting table
// @Tags Table
// @Accept json
// @Produce json
// @Param code path string true "Table Code"
// @Param request body AddBotsRequest true "Bot count"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /tables/{code}/bots [post]
func AddBotsHandler(tm *table.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddBotsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Reason: "BadPayload"})
			return
		}
		code := c.Param("code")
		if err := tm.AddBots(code, req.Count); err != nil {
			fail(c, err)
			return
		}
		t, _ := tm.Get(code)
		c.JSON(http.StatusOK, gin.H{"table": t.Summary()})
	}
}
