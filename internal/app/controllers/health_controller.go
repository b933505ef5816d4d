package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the database pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness and readiness
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController. db may be nil when
// predictions are served from a fixture.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports whether the cutoff store is reachable
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if c.db == nil {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "store": "memory"})
		return
	}

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if err := c.db.Ping(pingCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": "postgres"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "store": "postgres"})
}

// Ping is a liveness probe
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
}
