package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketpulse/internal/domain"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrSymbolNotFound is returned when the chart API has no data for a symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// YahooProvider reads daily history and quotes from the Yahoo Finance chart API.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewYahooProvider is rate limited to a burst of 5 calls, then 2 per second.
func NewYahooProvider(baseURL string, timeout time.Duration, tracer trace.Tracer) *YahooProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  tracer,
		limiter: NewRateLimiter(5, 500*time.Millisecond),
	}
}

// FetchHistory returns daily bars between start and end, oldest first.
// Rows with a null close are dropped.
func (p *YahooProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PriceBar, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-history")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	q := url.Values{}
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	q.Set("interval", "1d")

	result, err := p.chart(ctx, symbol, q)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}

	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	bars := make([]domain.PriceBar, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) || closes[i].Type != gjson.Number {
			continue
		}
		bars = append(bars, domain.PriceBar{
			Date:   time.Unix(ts.Int(), 0).UTC(),
			Open:   floatAt(opens, i),
			High:   floatAt(highs, i),
			Low:    floatAt(lows, i),
			Close:  closes[i].Float(),
			Volume: int64(floatAt(volumes, i)),
		})
	}
	span.SetAttributes(attribute.Int("bars", len(bars)))
	return bars, nil
}

// FetchQuote returns the latest regular-market quote for symbol.
func (p *YahooProvider) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.fetch-quote")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	q := url.Values{}
	q.Set("range", "5d")
	q.Set("interval", "1d")

	result, err := p.chart(ctx, symbol, q)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}

	meta := result.Get("meta")
	price := meta.Get("regularMarketPrice")
	if price.Type != gjson.Number {
		return domain.Quote{}, fmt.Errorf("fetch quote for %s: %w", symbol, ErrSymbolNotFound)
	}
	prev := meta.Get("chartPreviousClose").Float()
	if prev == 0 {
		prev = meta.Get("previousClose").Float()
	}

	quote := domain.Quote{
		Symbol:      symbol,
		Price:       price.Float(),
		Volume:      meta.Get("regularMarketVolume").Int(),
		LastUpdated: time.Unix(meta.Get("regularMarketTime").Int(), 0).UTC(),
	}
	if prev > 0 {
		quote.Change = quote.Price - prev
		quote.ChangePercent = quote.Change / prev * 100
	}
	return quote, nil
}

func (p *YahooProvider) chart(ctx context.Context, symbol string, q url.Values) (gjson.Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s?%s", p.baseURL, url.PathEscape(symbol), q.Encode())
	body, err := doGet(ctx, p.client, endpoint, "application/json")
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrInvalidPayload
	}

	parsed := gjson.ParseBytes(body)
	if apiErr := parsed.Get("chart.error"); apiErr.Exists() && apiErr.Type != gjson.Null {
		return gjson.Result{}, fmt.Errorf("chart api: %s", apiErr.Get("description").String())
	}
	result := parsed.Get("chart.result.0")
	if !result.Exists() {
		return gjson.Result{}, ErrSymbolNotFound
	}
	return result, nil
}

func floatAt(values []gjson.Result, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return values[i].Float()
}
