package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"marketpulse/internal/cache"
	"marketpulse/internal/domain"
	"marketpulse/internal/sentiment"
	"marketpulse/pkg/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ErrNoTrendingData is returned by the pipeline when the ranked list is
// empty, either from upstream or from cache.
var ErrNoTrendingData = errors.New("unable to fetch trending data")

// summaryTickerLimit bounds how many ranked tickers Summarize analyses.
const summaryTickerLimit = 10

type TrendingSource interface {
	GetTrending(ctx context.Context, forceRefresh bool) []domain.TickerSnapshot
}

type IndicatorSource interface {
	GetIndicators(ctx context.Context, symbol string, forceRefresh bool) (domain.IndicatorSnapshot, bool)
	GetNews(ctx context.Context, symbol string, limit int, forceRefresh bool) []domain.NewsItem
	GetQuote(ctx context.Context, symbol string, forceRefresh bool) (domain.Quote, bool)
	Available() bool
}

// HealthStatus reports cache occupancy and market-data availability.
type HealthStatus struct {
	Status              string      `json:"status"`
	MarketDataAvailable bool        `json:"market_data_available"`
	CacheStats          cache.Stats `json:"cache_stats"`
	Timestamp           time.Time   `json:"timestamp"`
}

// MarketService joins the trending list with per-ticker indicators to build
// market summaries and setup scans.
type MarketService struct {
	tracer      trace.Tracer
	cache       *cache.TTLCache
	trending    TrendingSource
	indicators  IndicatorSource
	maxResults  int
	concurrency int
	now         func() time.Time
	log         *logger.Entry
}

func NewMarketService(
	tracer trace.Tracer,
	c *cache.TTLCache,
	trending TrendingSource,
	indicators IndicatorSource,
	maxResults int,
	concurrency int,
) *MarketService {
	if maxResults <= 0 {
		maxResults = 5
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &MarketService{
		tracer:      tracer,
		cache:       c,
		trending:    trending,
		indicators:  indicators,
		maxResults:  maxResults,
		concurrency: concurrency,
		now:         time.Now,
		log:         logger.GetLogger().WithComponent("market-service"),
	}
}

type tickerIndicators struct {
	ticker     domain.TickerSnapshot
	indicators domain.IndicatorSnapshot
	usable     bool
}

// collect fetches indicators for every ticker on a bounded errgroup and
// returns them in ranked order. A ticker is usable when its indicators are
// present and include RSI.
func (s *MarketService) collect(ctx context.Context, tickers []domain.TickerSnapshot) []tickerIndicators {
	out := make([]tickerIndicators, len(tickers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, t := range tickers {
		g.Go(func() error {
			ind, ok := s.indicators.GetIndicators(gctx, t.Symbol, false)
			out[i] = tickerIndicators{
				ticker:     t,
				indicators: ind,
				usable:     ok && ind.RSI.IsPresent(),
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *MarketService) Summarize(ctx context.Context, forceRefresh bool) (domain.MarketSummary, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.summarize")
	defer span.End()

	tickers := s.trending.GetTrending(ctx, forceRefresh)
	if len(tickers) == 0 {
		return domain.MarketSummary{}, ErrNoTrendingData
	}
	if len(tickers) > summaryTickerLimit {
		tickers = tickers[:summaryTickerLimit]
	}

	summary := domain.MarketSummary{TopMovers: []domain.Mover{}}
	for _, row := range s.collect(ctx, tickers) {
		if !row.usable {
			summary.NeutralCount++
			continue
		}
		sent := sentiment.Classify(row.indicators)
		switch sent {
		case domain.SentimentBullish:
			summary.BullishCount++
		case domain.SentimentBearish:
			summary.BearishCount++
		default:
			summary.NeutralCount++
		}
		summary.TopMovers = append(summary.TopMovers, domain.Mover{
			Symbol:    row.ticker.Symbol,
			Sentiment: sent,
			Price:     row.ticker.Price,
			Change:    row.ticker.PercentChange,
			RSI:       row.indicators.RSI,
		})
	}

	sort.SliceStable(summary.TopMovers, func(i, j int) bool {
		return math.Abs(summary.TopMovers[i].Change) > math.Abs(summary.TopMovers[j].Change)
	})
	if len(summary.TopMovers) > s.maxResults {
		summary.TopMovers = summary.TopMovers[:s.maxResults]
	}

	switch {
	case summary.BullishCount > summary.BearishCount:
		summary.MarketSentiment = domain.SentimentBullish
	case summary.BearishCount > summary.BullishCount:
		summary.MarketSentiment = domain.SentimentBearish
	default:
		summary.MarketSentiment = domain.SentimentNeutral
	}
	summary.LastUpdated = s.now().UTC()

	span.SetAttributes(
		attribute.Int("bullish", summary.BullishCount),
		attribute.Int("bearish", summary.BearishCount),
		attribute.Int("neutral", summary.NeutralCount),
	)
	return summary, nil
}

func (s *MarketService) Scan(ctx context.Context, forceRefresh bool) (domain.ScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.scan")
	defer span.End()

	tickers := s.trending.GetTrending(ctx, forceRefresh)
	if len(tickers) == 0 {
		return domain.ScanResult{}, ErrNoTrendingData
	}

	result := domain.ScanResult{
		Bullish:      []domain.ScanSignal{},
		Bearish:      []domain.ScanSignal{},
		TotalScanned: len(tickers),
	}
	for _, row := range s.collect(ctx, tickers) {
		if !row.usable {
			continue
		}
		score, signals, sent := sentiment.ScoreSetup(row.indicators, row.ticker)
		sig := domain.ScanSignal{
			Symbol:        row.ticker.Symbol,
			Score:         score,
			Signals:       signals,
			Price:         row.ticker.Price,
			RSI:           row.indicators.RSI,
			MACD:          row.indicators.MACD,
			PercentChange: row.ticker.PercentChange,
		}
		switch sent {
		case domain.SentimentBullish:
			result.Bullish = append(result.Bullish, sig)
		case domain.SentimentBearish:
			result.Bearish = append(result.Bearish, sig)
		}
	}

	result.Bullish = s.rankSignals(result.Bullish)
	result.Bearish = s.rankSignals(result.Bearish)
	result.LastUpdated = s.now().UTC()

	span.SetAttributes(
		attribute.Int("total_scanned", result.TotalScanned),
		attribute.Int("bullish", len(result.Bullish)),
		attribute.Int("bearish", len(result.Bearish)),
	)
	return result, nil
}

func (s *MarketService) rankSignals(signals []domain.ScanSignal) []domain.ScanSignal {
	sort.SliceStable(signals, func(i, j int) bool { return signals[i].Score > signals[j].Score })
	if len(signals) > s.maxResults {
		signals = signals[:s.maxResults]
	}
	return signals
}

func (s *MarketService) Health(ctx context.Context) HealthStatus {
	_, span := s.tracer.Start(ctx, "market-service.health")
	defer span.End()

	return HealthStatus{
		Status:              "healthy",
		MarketDataAvailable: s.indicators.Available(),
		CacheStats:          s.cache.Stats(),
		Timestamp:           s.now().UTC(),
	}
}

func (s *MarketService) Trending(ctx context.Context, forceRefresh bool) []domain.TickerSnapshot {
	return s.trending.GetTrending(ctx, forceRefresh)
}

func (s *MarketService) Indicators(ctx context.Context, symbol string, forceRefresh bool) (domain.IndicatorSnapshot, bool) {
	return s.indicators.GetIndicators(ctx, symbol, forceRefresh)
}

func (s *MarketService) News(ctx context.Context, symbol string, limit int, forceRefresh bool) []domain.NewsItem {
	return s.indicators.GetNews(ctx, symbol, limit, forceRefresh)
}

func (s *MarketService) Quote(ctx context.Context, symbol string, forceRefresh bool) (domain.Quote, bool) {
	return s.indicators.GetQuote(ctx, symbol, forceRefresh)
}

func (s *MarketService) SweepCache() int {
	return s.cache.SweepExpired()
}

func (s *MarketService) ClearCache() {
	s.cache.Clear()
}

func (s *MarketService) InvalidateCache(key string) bool {
	return s.cache.Invalidate(key)
}

// Warm primes the trending list and every trending ticker's indicators.
func (s *MarketService) Warm(ctx context.Context) int {
	tickers := s.trending.GetTrending(ctx, false)
	warmed := 0
	for _, row := range s.collect(ctx, tickers) {
		if row.usable {
			warmed++
		}
	}
	s.log.WithField("tickers", len(tickers)).WithField("warmed", warmed).Info("cache warmed")
	return warmed
}
