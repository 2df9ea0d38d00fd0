package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"marketpulse/internal/cache"
	"marketpulse/internal/domain"
	"marketpulse/internal/provider"
)

func trendingFixture() []domain.TickerSnapshot {
	return []domain.TickerSnapshot{
		{Symbol: "NVDA", Price: 120, Direction: domain.DirectionFlat, Source: domain.SourceStocktwits},
		{Symbol: "AAPL", Price: 190, Direction: domain.DirectionFlat, Source: domain.SourceStocktwits},
	}
}

func TestTrendingService_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.NewTTLCache(5*time.Minute, cache.WithClock(clock.Now))
	fake := &fakeTrendingProvider{tickers: trendingFixture()}
	svc := NewTrendingService(testTracer, c, fake, 10, time.Second)

	first := svc.GetTrending(context.Background(), false)
	clock.Advance(4 * time.Minute)
	second := svc.GetTrending(context.Background(), false)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("unexpected lengths %d %d", len(first), len(second))
	}
	if fake.calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", fake.calls)
	}
	if fake.lastLimit != 10 {
		t.Fatalf("expected limit 10, got %d", fake.lastLimit)
	}
}

func TestTrendingService_ForceRefreshBypassesCache(t *testing.T) {
	t.Parallel()

	c := cache.NewTTLCache(time.Minute)
	fake := &fakeTrendingProvider{tickers: trendingFixture()}
	svc := NewTrendingService(testTracer, c, fake, 10, time.Second)

	svc.GetTrending(context.Background(), false)
	svc.GetTrending(context.Background(), true)

	if fake.calls != 2 {
		t.Fatalf("expected forced refresh to hit upstream, got %d calls", fake.calls)
	}
}

func TestTrendingService_StaleFallbackOnFailure(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.NewTTLCache(5*time.Minute, cache.WithClock(clock.Now))
	fake := &fakeTrendingProvider{tickers: trendingFixture()}
	svc := NewTrendingService(testTracer, c, fake, 10, time.Second)

	svc.GetTrending(context.Background(), false)
	clock.Advance(10 * time.Minute)
	fake.setErr(errors.New("503 from upstream"))

	got := svc.GetTrending(context.Background(), false)
	if len(got) != 2 || got[0].Symbol != "NVDA" {
		t.Fatalf("expected stale list, got %+v", got)
	}
	if fake.calls != 2 {
		t.Fatalf("expected expired entry to trigger a fetch, got %d calls", fake.calls)
	}
}

func TestTrendingService_InvalidPayloadSkipsStaleFallback(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	c := cache.NewTTLCache(5*time.Minute, cache.WithClock(clock.Now))
	fake := &fakeTrendingProvider{tickers: trendingFixture()}
	svc := NewTrendingService(testTracer, c, fake, 10, time.Second)

	svc.GetTrending(context.Background(), false)
	clock.Advance(10 * time.Minute)
	fake.setErr(fmt.Errorf("parse trending: %w", provider.ErrInvalidPayload))

	got := svc.GetTrending(context.Background(), false)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty list on unparseable payload, got %+v", got)
	}
	if fake.calls != 2 {
		t.Fatalf("expected expired entry to trigger a fetch, got %d calls", fake.calls)
	}
}

func TestTrendingService_EmptyWhenNothingCached(t *testing.T) {
	t.Parallel()

	fake := &fakeTrendingProvider{err: errors.New("timeout")}
	svc := NewTrendingService(testTracer, cache.NewTTLCache(time.Minute), fake, 10, time.Second)

	got := svc.GetTrending(context.Background(), false)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestTrendingService_ReturnsCopies(t *testing.T) {
	t.Parallel()

	svc := NewTrendingService(testTracer, cache.NewTTLCache(time.Minute), &fakeTrendingProvider{tickers: trendingFixture()}, 10, time.Second)

	got := svc.GetTrending(context.Background(), false)
	got[0].Symbol = "MUTATED"

	again := svc.GetTrending(context.Background(), false)
	if again[0].Symbol != "NVDA" {
		t.Fatalf("cache was mutated through returned slice: %+v", again[0])
	}
}
