package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dkravchenko/schoolfood/internal/app/models/dto"
	"github.com/dkravchenko/schoolfood/internal/db"
)

// HealthController reports process and database liveness
type HealthController struct {
	database *db.PostgresDB
	logger   zerolog.Logger
}

// NewHealthController creates a new HealthController
func NewHealthController(database *db.PostgresDB, logger zerolog.Logger) *HealthController {
	return &HealthController{
		database: database,
		logger:   logger,
	}
}

// Check reports service health
// @Summary Health check
// @Description Reports whether the service and its database connection are healthy.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Check(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.database.Pool.Ping(pingCtx); err != nil {
		c.logger.Warn().Err(err).Msg("Health check: database unreachable")
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status:   "degraded",
			Database: "unreachable",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Database: "connected",
	})
}
