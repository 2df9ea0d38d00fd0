package service

import (
	"context"
	"slices"
	"time"

	"marketpulse/internal/cache"
	"marketpulse/internal/domain"
	"marketpulse/pkg/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const trendingCacheKey = "stocktwits_trending"

type TrendingProvider interface {
	FetchTrending(ctx context.Context, limit int) ([]domain.TickerSnapshot, error)
}

// TrendingService serves the ranked trending list through the TTL cache.
type TrendingService struct {
	tracer   trace.Tracer
	cache    *cache.TTLCache
	provider TrendingProvider
	limit    int
	timeout  time.Duration
	log      *logger.Entry
}

func NewTrendingService(tracer trace.Tracer, c *cache.TTLCache, provider TrendingProvider, limit int, timeout time.Duration) *TrendingService {
	if limit <= 0 {
		limit = 10
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TrendingService{
		tracer:   tracer,
		cache:    c,
		provider: provider,
		limit:    limit,
		timeout:  timeout,
		log:      logger.GetLogger().WithComponent("trending-service"),
	}
}

// GetTrending never fails: on upstream failure it returns the last cached
// list, expired or not, or an empty list.
func (s *TrendingService) GetTrending(ctx context.Context, forceRefresh bool) []domain.TickerSnapshot {
	ctx, span := s.tracer.Start(ctx, "trending-service.get-trending")
	defer span.End()
	span.SetAttributes(attribute.Bool("force_refresh", forceRefresh))

	tickers, _ := readThrough(ctx, s.cache, trendingCacheKey, forceRefresh, s.log,
		func(ctx context.Context) ([]domain.TickerSnapshot, bool, error) {
			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			list, err := s.provider.FetchTrending(ctx, s.limit)
			if err != nil {
				return nil, false, err
			}
			if list == nil {
				list = []domain.TickerSnapshot{}
			}
			return list, true, nil
		})

	if tickers == nil {
		return []domain.TickerSnapshot{}
	}
	return slices.Clone(tickers)
}
