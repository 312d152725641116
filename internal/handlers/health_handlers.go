package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/01moynul/inventory-tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Health is the liveness probe for GET /health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready is the readiness probe for GET /ready; it fails while the store is unreachable.
func (h *Handlers) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Items.Ping(ctx); err != nil {
		log.Printf("[%s] readiness ping: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
