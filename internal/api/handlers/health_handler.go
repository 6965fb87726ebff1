package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/andresuchdata/stockwise/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const healthTimeout = 3 * time.Second

type HealthHandler struct {
	db   repository.HealthChecker
	skus repository.SKURepository
}

func NewHealthHandler(db repository.HealthChecker, skus repository.SKURepository) *HealthHandler {
	return &HealthHandler{db: db, skus: skus}
}

// Check pings the database and reports the SKU count.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	count, err := h.check(ctx)
	if err != nil {
		log.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":          "Service Degraded",
			"database_status": "Error",
			"message":         err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "OK",
		"database_status": "Connected",
		"sku_count":       count,
	})
}

func (h *HealthHandler) check(ctx context.Context) (int, error) {
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			return 0, err
		}
	}
	return h.skus.Count(ctx)
}
