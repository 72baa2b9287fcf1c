package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/coursedesk/internal/app/models/dto"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports service and database health
type HealthController struct {
	db     Pinger
	logger zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger, logger zerolog.Logger) *HealthController {
	return &HealthController{db: db, logger: logger}
}

// Health checks database connectivity
// @Summary Health check
// @Description Reports whether the API and its database are reachable
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		h.logger.Error().Err(err).Msg("Health check: database unreachable")
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Database: "unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Database: "ok"})
}
