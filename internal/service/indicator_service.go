package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"marketpulse/internal/cache"
	"marketpulse/internal/domain"
	"marketpulse/internal/provider"
	"marketpulse/internal/sentiment"
	"marketpulse/internal/ta"
	"marketpulse/pkg/logger"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	rsiPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	smaShort     = 20
	smaLong      = 50
	defaultTitle = "No title"
)

type HistoryProvider interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PriceBar, error)
}

type QuoteProvider interface {
	FetchQuote(ctx context.Context, symbol string) (domain.Quote, error)
}

type NewsProvider interface {
	FetchNews(ctx context.Context, symbol string, limit int) ([]provider.RawArticle, error)
}

// IndicatorConfig controls the market-data side of IndicatorService.
type IndicatorConfig struct {
	Enabled      bool
	Timeout      time.Duration
	LookbackDays int
}

// IndicatorService computes technical indicators and serves quotes and news
// through the TTL cache, falling back to stale entries on upstream failure.
type IndicatorService struct {
	tracer     trace.Tracer
	cache      *cache.TTLCache
	history    HistoryProvider
	quotes     QuoteProvider
	news       NewsProvider
	classifier sentiment.TextClassifier
	cfg        IndicatorConfig
	now        func() time.Time
	log        *logger.Entry
}

func NewIndicatorService(
	tracer trace.Tracer,
	c *cache.TTLCache,
	history HistoryProvider,
	quotes QuoteProvider,
	news NewsProvider,
	classifier sentiment.TextClassifier,
	cfg IndicatorConfig,
) *IndicatorService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 100
	}
	if classifier == nil {
		classifier = sentiment.KeywordClassifier{}
	}
	return &IndicatorService{
		tracer:     tracer,
		cache:      c,
		history:    history,
		quotes:     quotes,
		news:       news,
		classifier: classifier,
		cfg:        cfg,
		now:        time.Now,
		log:        logger.GetLogger().WithComponent("indicator-service"),
	}
}

// Available reports whether market data is enabled. When it is not, every
// fetch returns absent without touching the network.
func (s *IndicatorService) Available() bool {
	return s.cfg.Enabled
}

func indicatorsKey(symbol string) string { return "yahoo_indicators_" + symbol }
func quoteKey(symbol string) string      { return "yahoo_quote_" + symbol }
func newsKey(symbol string, limit int) string {
	return fmt.Sprintf("yahoo_news_%s_%d", symbol, limit)
}

// NormalizeSymbol upper-cases and trims a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *IndicatorService) GetIndicators(ctx context.Context, symbol string, forceRefresh bool) (domain.IndicatorSnapshot, bool) {
	symbol = NormalizeSymbol(symbol)
	if !s.Available() || symbol == "" {
		return domain.IndicatorSnapshot{}, false
	}

	ctx, span := s.tracer.Start(ctx, "indicator-service.get-indicators")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol), attribute.Bool("force_refresh", forceRefresh))

	return readThrough(ctx, s.cache, indicatorsKey(symbol), forceRefresh, s.log.WithField("symbol", symbol),
		func(ctx context.Context) (domain.IndicatorSnapshot, bool, error) {
			ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()

			end := s.now()
			start := end.AddDate(0, 0, -s.cfg.LookbackDays)
			bars, err := s.history.FetchHistory(ctx, symbol, start, end)
			if err != nil {
				return domain.IndicatorSnapshot{}, false, err
			}
			if len(bars) == 0 {
				return domain.IndicatorSnapshot{}, false, nil
			}
			return buildIndicatorSnapshot(symbol, bars, end), true, nil
		})
}

// buildIndicatorSnapshot takes the latest value of each indicator series.
// Indicators without enough history are left absent.
func buildIndicatorSnapshot(symbol string, bars []domain.PriceBar, now time.Time) domain.IndicatorSnapshot {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	latest := func(series []float64) domain.Optional[float64] {
		if v, ok := ta.Latest(series); ok {
			return domain.Some(v)
		}
		return domain.None[float64]()
	}

	macd, signal, hist := ta.MACDSeries(closes, macdFast, macdSlow, macdSignal)
	last := bars[len(bars)-1]
	return domain.IndicatorSnapshot{
		Symbol:        symbol,
		RSI:           latest(ta.RSISeries(closes, rsiPeriod)),
		MACD:          latest(macd),
		MACDSignal:    latest(signal),
		MACDHistogram: latest(hist),
		SMA20:         latest(ta.SMASeries(closes, smaShort)),
		SMA50:         latest(ta.SMASeries(closes, smaLong)),
		Price:         last.Close,
		Volume:        last.Volume,
		Timestamp:     now.UTC(),
	}
}

func (s *IndicatorService) GetQuote(ctx context.Context, symbol string, forceRefresh bool) (domain.Quote, bool) {
	symbol = NormalizeSymbol(symbol)
	if !s.Available() || symbol == "" {
		return domain.Quote{}, false
	}

	ctx, span := s.tracer.Start(ctx, "indicator-service.get-quote")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	return readThrough(ctx, s.cache, quoteKey(symbol), forceRefresh, s.log.WithField("symbol", symbol),
		func(ctx context.Context) (domain.Quote, bool, error) {
			ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
			q, err := s.quotes.FetchQuote(ctx, symbol)
			if err != nil {
				return domain.Quote{}, false, err
			}
			q.Symbol = symbol
			return q, true, nil
		})
}

// GetNews returns up to limit headlines tagged with the configured
// TextClassifier. It returns an empty list when nothing is available.
func (s *IndicatorService) GetNews(ctx context.Context, symbol string, limit int, forceRefresh bool) []domain.NewsItem {
	symbol = NormalizeSymbol(symbol)
	if !s.Available() || symbol == "" {
		return []domain.NewsItem{}
	}
	if limit <= 0 {
		limit = 10
	}

	ctx, span := s.tracer.Start(ctx, "indicator-service.get-news")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol), attribute.Int("limit", limit))

	items, _ := readThrough(ctx, s.cache, newsKey(symbol, limit), forceRefresh, s.log.WithField("symbol", symbol),
		func(ctx context.Context) ([]domain.NewsItem, bool, error) {
			ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
			articles, err := s.news.FetchNews(ctx, symbol, limit)
			if err != nil {
				return nil, false, err
			}
			items := make([]domain.NewsItem, 0, len(articles))
			for _, a := range articles {
				items = append(items, s.toNewsItem(ctx, a))
			}
			return items, true, nil
		})

	if items == nil {
		return []domain.NewsItem{}
	}
	return slices.Clone(items)
}

func (s *IndicatorService) toNewsItem(ctx context.Context, a provider.RawArticle) domain.NewsItem {
	title := a.Title
	if title == "" {
		title = defaultTitle
	}
	source := a.Publisher
	if source == "" {
		source = "Unknown"
	}
	published := a.PublishedAt
	if published.IsZero() {
		published = s.now()
	}
	return domain.NewsItem{
		Title:         title,
		Source:        source,
		PublishedDate: published.UTC().Format(time.RFC3339),
		URL:           a.Link,
		Sentiment:     s.classifier.Classify(ctx, a.Title),
	}
}
