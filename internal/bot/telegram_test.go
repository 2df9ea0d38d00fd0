package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"marketpulse/internal/domain"
	"marketpulse/internal/service"
)

type stubMarket struct {
	tickers    []domain.TickerSnapshot
	indicators map[string]domain.IndicatorSnapshot
	news       []domain.NewsItem
	summary    domain.MarketSummary
	scan       domain.ScanResult
	err        error
	newsLimit  int
}

func (s *stubMarket) Trending(context.Context, bool) []domain.TickerSnapshot { return s.tickers }

func (s *stubMarket) Indicators(_ context.Context, symbol string, _ bool) (domain.IndicatorSnapshot, bool) {
	ind, ok := s.indicators[symbol]
	return ind, ok
}

func (s *stubMarket) News(_ context.Context, _ string, limit int, _ bool) []domain.NewsItem {
	s.newsLimit = limit
	return s.news
}

func (s *stubMarket) Summarize(context.Context, bool) (domain.MarketSummary, error) {
	return s.summary, s.err
}

func (s *stubMarket) Scan(context.Context, bool) (domain.ScanResult, error) {
	return s.scan, s.err
}

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	if err := StartTelegramBot(context.Background(), "", &stubMarket{}); err != nil {
		t.Fatalf("expected no error without token, got %v", err)
	}
}

func TestTrendingReply(t *testing.T) {
	r := &replies{market: &stubMarket{tickers: []domain.TickerSnapshot{
		{Symbol: "NVDA", Price: 120.5, Volume: "1.50M"},
	}}}
	got := r.trending(context.Background())
	if !strings.Contains(got, "1. NVDA $120.50 vol 1.50M") {
		t.Fatalf("unexpected reply %q", got)
	}

	empty := &replies{market: &stubMarket{}}
	if !strings.HasPrefix(empty.trending(context.Background()), "No trending data") {
		t.Fatal("expected empty-list message")
	}
}

func TestSummaryReply(t *testing.T) {
	market := &stubMarket{summary: domain.MarketSummary{
		MarketSentiment: domain.SentimentBullish,
		BullishCount:    3,
		NeutralCount:    1,
		TopMovers:       []domain.Mover{{Symbol: "AMD", Sentiment: domain.SentimentBullish, RSI: domain.Some(28.44)}},
	}}
	r := &replies{market: market}

	got := r.summary(context.Background())
	if !strings.Contains(got, "Market sentiment: BULLISH") || !strings.Contains(got, "AMD bullish RSI 28.44") {
		t.Fatalf("unexpected reply %q", got)
	}

	market.err = service.ErrNoTrendingData
	if got := r.summary(context.Background()); got != "Unable to fetch trending data." {
		t.Fatalf("unexpected error reply %q", got)
	}
}

func TestScanReply(t *testing.T) {
	market := &stubMarket{scan: domain.ScanResult{
		TotalScanned: 4,
		Bullish:      []domain.ScanSignal{{Symbol: "NVDA", Score: 2, Signals: []string{"RSI oversold (25.0)", "MACD bullish crossover"}}},
	}}
	r := &replies{market: market}

	got := r.scan(context.Background())
	if !strings.Contains(got, "Scanned 4 tickers") ||
		!strings.Contains(got, "NVDA score 2: RSI oversold (25.0), MACD bullish crossover") ||
		!strings.Contains(got, "Bearish: none") {
		t.Fatalf("unexpected reply %q", got)
	}

	market.err = errors.New("boom")
	if !strings.HasPrefix(r.scan(context.Background()), "Error scanning market") {
		t.Fatal("expected error reply")
	}
}

func TestIndicatorsReply(t *testing.T) {
	r := &replies{market: &stubMarket{indicators: map[string]domain.IndicatorSnapshot{
		"AAPL": {Symbol: "AAPL", Price: 190, RSI: domain.Some(55.5)},
	}}}

	if got := r.indicators(context.Background(), nil); got != "Usage: /indicators AAPL" {
		t.Fatalf("unexpected usage reply %q", got)
	}
	got := r.indicators(context.Background(), []string{"aapl"})
	if !strings.Contains(got, "RSI(14): 55.50") || !strings.Contains(got, "SMA50: n/a") {
		t.Fatalf("unexpected reply %q", got)
	}
	if got := r.indicators(context.Background(), []string{"zzzz"}); got != "No indicator data for ZZZZ" {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestNewsReply(t *testing.T) {
	market := &stubMarket{news: []domain.NewsItem{{Title: "Shares rally", Source: "Reuters", Sentiment: domain.NewsPositive}}}
	r := &replies{market: market}

	got := r.news(context.Background(), []string{"msft"})
	if !strings.Contains(got, "MSFT headlines") || !strings.Contains(got, "[positive] Shares rally (Reuters)") {
		t.Fatalf("unexpected reply %q", got)
	}
	if market.newsLimit != botNewsLimit {
		t.Fatalf("expected limit %d, got %d", botNewsLimit, market.newsLimit)
	}
}
