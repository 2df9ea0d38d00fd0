package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Index godoc
// @Summary      Service index
// @Description  Returns the service name, version and available endpoints
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "MarketPulse API",
		"version":     "1.0.0",
		"description": "Trending stocks and crypto analysis powered by Stocktwits and Yahoo Finance",
		"endpoints": gin.H{
			"trending":   "/api/trending",
			"indicators": "/api/indicators/{symbol}",
			"news":       "/api/news/{symbol}",
			"quote":      "/api/quote/{symbol}",
			"summary":    "/api/summary",
			"scan":       "/api/scan",
			"health":     "/api/health",
			"docs":       "/swagger/index.html",
		},
		"timestamp": time.Now().UTC(),
	})
}

// Health godoc
// @Summary      Health check
// @Description  Returns service status, market data availability and cache statistics
// @Tags         health
// @Produce      json
// @Success      200  {object}  service.HealthStatus
// @Router       /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.market.Health(c.Request.Context()))
}
