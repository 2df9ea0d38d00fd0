package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SweepCache godoc
// @Summary      Sweep expired cache entries
// @Tags         cache
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/cache/sweep [post]
func (h *Handler) SweepCache(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"removed": h.market.SweepCache()})
}

// ClearCache godoc
// @Summary      Clear the cache
// @Tags         cache
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/cache [delete]
func (h *Handler) ClearCache(c *gin.Context) {
	h.market.ClearCache()
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// InvalidateCache godoc
// @Summary      Invalidate one cache entry
// @Tags         cache
// @Produce      json
// @Param        key  path  string  true  "Cache key (e.g., yahoo_indicators_AAPL)"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/cache/{key} [delete]
func (h *Handler) InvalidateCache(c *gin.Context) {
	key := c.Param("key")
	if !h.market.InvalidateCache(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "cache key not found: " + key})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "invalidated", "key": key})
}
