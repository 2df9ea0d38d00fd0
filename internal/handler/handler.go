package handler

import (
	"context"

	"marketpulse/internal/domain"
	"marketpulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// MarketService is the pipeline surface the HTTP API exposes.
type MarketService interface {
	Trending(ctx context.Context, forceRefresh bool) []domain.TickerSnapshot
	Indicators(ctx context.Context, symbol string, forceRefresh bool) (domain.IndicatorSnapshot, bool)
	News(ctx context.Context, symbol string, limit int, forceRefresh bool) []domain.NewsItem
	Quote(ctx context.Context, symbol string, forceRefresh bool) (domain.Quote, bool)
	Summarize(ctx context.Context, forceRefresh bool) (domain.MarketSummary, error)
	Scan(ctx context.Context, forceRefresh bool) (domain.ScanResult, error)
	Health(ctx context.Context) service.HealthStatus
	SweepCache() int
	ClearCache()
	InvalidateCache(key string) bool
}

type Handler struct {
	tracer          trace.Tracer
	market          MarketService
	maxNewsArticles int
}

func New(tracer trace.Tracer, market MarketService, maxNewsArticles int) *Handler {
	if maxNewsArticles <= 0 {
		maxNewsArticles = 10
	}
	return &Handler{
		tracer:          tracer,
		market:          market,
		maxNewsArticles: maxNewsArticles,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/trending", h.GetTrending)
	api.GET("/indicators/:symbol", h.GetIndicators)
	api.GET("/news/:symbol", h.GetNews)
	api.GET("/quote/:symbol", h.GetQuote)
	api.GET("/summary", h.GetSummary)
	api.GET("/scan", h.GetScan)

	api.POST("/cache/sweep", h.SweepCache)
	api.DELETE("/cache", h.ClearCache)
	api.DELETE("/cache/:key", h.InvalidateCache)
}
