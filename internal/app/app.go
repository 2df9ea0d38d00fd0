// Package app assembles the cache, providers and services shared by the
// HTTP server and the MCP server.
package app

import (
	"time"

	"marketpulse/internal/cache"
	"marketpulse/internal/config"
	"marketpulse/internal/provider"
	"marketpulse/internal/sentiment"
	"marketpulse/internal/service"

	"go.opentelemetry.io/otel/trace"
)

// App holds the wired service graph.
type App struct {
	Cache      *cache.TTLCache
	Trending   *service.TrendingService
	Indicators *service.IndicatorService
	Market     *service.MarketService
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// New builds every component from cfg. Headline sentiment uses OpenAI when
// an API key is configured and keyword counting otherwise.
func New(cfg *config.Config, tracer trace.Tracer) *App {
	c := cache.NewTTLCache(seconds(cfg.CacheTTLSeconds))

	stocktwits := provider.NewStocktwitsProvider(cfg.StocktwitsTrendingURL, seconds(cfg.StocktwitsTimeoutSecs), tracer)
	yahoo := provider.NewYahooProvider(cfg.YahooChartURL, seconds(cfg.MarketDataTimeoutSecs), tracer)
	rss := provider.NewRSSProvider(cfg.YahooNewsURL, seconds(cfg.MarketDataTimeoutSecs), tracer)

	var classifier sentiment.TextClassifier = sentiment.KeywordClassifier{}
	if oc := sentiment.NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.OpenAIModel); oc != nil {
		classifier = oc
	}

	trending := service.NewTrendingService(tracer, c, stocktwits, cfg.MaxTrendingTickers, seconds(cfg.StocktwitsTimeoutSecs))
	indicators := service.NewIndicatorService(tracer, c, yahoo, yahoo, rss, classifier, service.IndicatorConfig{
		Enabled:      cfg.MarketDataEnabled,
		Timeout:      seconds(cfg.MarketDataTimeoutSecs),
		LookbackDays: cfg.HistoryLookbackDays,
	})
	market := service.NewMarketService(tracer, c, trending, indicators, cfg.MaxScanResults, cfg.PipelineConcurrency)

	return &App{
		Cache:      c,
		Trending:   trending,
		Indicators: indicators,
		Market:     market,
	}
}
