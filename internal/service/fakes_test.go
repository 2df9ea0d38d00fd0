package service

import (
	"context"
	"sync"
	"time"

	"marketpulse/internal/domain"
	"marketpulse/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeTrendingProvider struct {
	mu        sync.Mutex
	tickers   []domain.TickerSnapshot
	err       error
	calls     int
	lastLimit int
}

func (f *fakeTrendingProvider) FetchTrending(_ context.Context, limit int) ([]domain.TickerSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.TickerSnapshot(nil), f.tickers...), nil
}

func (f *fakeTrendingProvider) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeMarketData struct {
	mu         sync.Mutex
	bars       map[string][]domain.PriceBar
	quotes     map[string]domain.Quote
	articles   []provider.RawArticle
	err        error
	histCalls  int
	quoteCalls int
	newsCalls  int
	newsLimit  int
}

func (f *fakeMarketData) FetchHistory(_ context.Context, symbol string, start, end time.Time) ([]domain.PriceBar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bars[symbol], nil
}

func (f *fakeMarketData) FetchQuote(_ context.Context, symbol string) (domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quoteCalls++
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return f.quotes[symbol], nil
}

func (f *fakeMarketData) FetchNews(_ context.Context, symbol string, limit int) ([]provider.RawArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.newsCalls++
	f.newsLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.articles) > limit {
		return f.articles[:limit], nil
	}
	return f.articles, nil
}

func (f *fakeMarketData) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func rampBars(n int, start, step float64) []domain.PriceBar {
	bars := make([]domain.PriceBar, n)
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		price := start + float64(i)*step
		bars[i] = domain.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: int64(1000 + i),
		}
	}
	return bars
}
