package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketpulse/internal/config"

	"go.opentelemetry.io/otel/trace"
)

func TestNewWiresServicesAgainstConfiguredEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbols":[{"symbol":"AAPL","title":"Apple","trending_score":3,"fundamentals":{"LastPrice":"190.10","AverageDailyVolumeLast3Months":1200}}]}`))
	}))
	defer srv.Close()

	cfg := &config.Config{
		CacheTTLSeconds:       60,
		MaxTrendingTickers:    5,
		MaxScanResults:        5,
		StocktwitsTrendingURL: srv.URL,
		StocktwitsTimeoutSecs: 2,
		YahooChartURL:         srv.URL,
		YahooNewsURL:          srv.URL,
		MarketDataEnabled:     false,
		MarketDataTimeoutSecs: 2,
		HistoryLookbackDays:   100,
		PipelineConcurrency:   2,
	}
	a := New(cfg, trace.NewNoopTracerProvider().Tracer("test"))

	if a.Cache.TTL().Seconds() != 60 {
		t.Fatalf("expected 60s ttl, got %s", a.Cache.TTL())
	}
	if a.Indicators.Available() {
		t.Fatal("expected market data disabled")
	}

	tickers := a.Market.Trending(context.Background(), false)
	if len(tickers) != 1 || tickers[0].Symbol != "AAPL" {
		t.Fatalf("unexpected tickers: %+v", tickers)
	}
	if stats := a.Cache.Stats(); stats.Count != 1 {
		t.Fatalf("expected trending entry cached, got %+v", stats)
	}
}
