package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"marketpulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const maxNewsLimit = 50

func forceRefresh(c *gin.Context) bool {
	v, err := strconv.ParseBool(c.DefaultQuery("force_refresh", "false"))
	return err == nil && v
}

// GetTrending godoc
// @Summary      Trending tickers
// @Description  Returns the Stocktwits trending list, cached for the configured TTL
// @Tags         market
// @Produce      json
// @Param        force_refresh  query  bool  false  "Bypass the cache"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/trending [get]
func (h *Handler) GetTrending(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-trending")
	defer span.End()

	tickers := h.market.Trending(ctx, forceRefresh(c))
	c.JSON(http.StatusOK, gin.H{
		"tickers":      tickers,
		"count":        len(tickers),
		"last_updated": time.Now().UTC(),
	})
}

// GetIndicators godoc
// @Summary      Technical indicators
// @Description  Returns RSI(14), MACD(12,26,9), SMA20 and SMA50 for a symbol
// @Tags         market
// @Produce      json
// @Param        symbol         path   string  true   "Ticker symbol (e.g., AAPL)"
// @Param        force_refresh  query  bool    false  "Bypass the cache"
// @Success      200  {object}  domain.IndicatorSnapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/indicators/{symbol} [get]
func (h *Handler) GetIndicators(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-indicators")
	defer span.End()

	symbol := service.NormalizeSymbol(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	ind, ok := h.market.Indicators(ctx, symbol, forceRefresh(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("unable to fetch indicators for %s: symbol may not exist or data unavailable", symbol),
		})
		return
	}
	c.JSON(http.StatusOK, ind)
}

// GetNews godoc
// @Summary      News headlines
// @Description  Returns recent headlines for a symbol tagged with a sentiment label
// @Tags         market
// @Produce      json
// @Param        symbol         path   string  true   "Ticker symbol (e.g., AAPL)"
// @Param        limit          query  int     false  "Number of articles (1-50)"  default(10)
// @Param        force_refresh  query  bool    false  "Bypass the cache"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/news/{symbol} [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	symbol := service.NormalizeSymbol(c.Param("symbol"))
	limit := h.maxNewsArticles
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxNewsLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 50"})
			return
		}
		limit = n
	}
	span.SetAttributes(attribute.String("symbol", symbol), attribute.Int("limit", limit))

	articles := h.market.News(ctx, symbol, limit, forceRefresh(c))
	c.JSON(http.StatusOK, gin.H{
		"symbol":   symbol,
		"articles": articles,
		"count":    len(articles),
	})
}

// GetQuote godoc
// @Summary      Latest quote
// @Description  Returns the latest regular-market price, volume and change for a symbol
// @Tags         market
// @Produce      json
// @Param        symbol         path   string  true   "Ticker symbol (e.g., AAPL)"
// @Param        force_refresh  query  bool    false  "Bypass the cache"
// @Success      200  {object}  domain.Quote
// @Failure      404  {object}  map[string]string
// @Router       /api/quote/{symbol} [get]
func (h *Handler) GetQuote(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-quote")
	defer span.End()

	symbol := service.NormalizeSymbol(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	quote, ok := h.market.Quote(ctx, symbol, forceRefresh(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "quote not available for " + symbol})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetSummary godoc
// @Summary      Market summary
// @Description  Classifies the top trending tickers and reports the overall market sentiment
// @Tags         market
// @Produce      json
// @Param        force_refresh  query  bool  false  "Bypass the trending cache"
// @Success      200  {object}  domain.MarketSummary
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/summary [get]
func (h *Handler) GetSummary(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-summary")
	defer span.End()

	summary, err := h.market.Summarize(ctx, forceRefresh(c))
	if err != nil {
		pipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetScan godoc
// @Summary      Setup scan
// @Description  Scores every trending ticker and returns the strongest bullish and bearish setups
// @Tags         market
// @Produce      json
// @Param        force_refresh  query  bool  false  "Bypass the trending cache"
// @Success      200  {object}  domain.ScanResult
// @Failure      503  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/scan [get]
func (h *Handler) GetScan(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-scan")
	defer span.End()

	result, err := h.market.Scan(ctx, forceRefresh(c))
	if err != nil {
		pipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func pipelineError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoTrendingData) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unable to fetch trending data"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
