package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"marketpulse/internal/domain"
	"marketpulse/pkg/logger"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultHype   = "No hype summary available"
	maxHypeRunes  = 180
	hypeEllipsis  = "..."
	marketCapNone = "N/A"
)

// StocktwitsProvider fetches the public trending-symbols list.
type StocktwitsProvider struct {
	client *http.Client
	url    string
	tracer trace.Tracer
	log    *logger.Entry
}

func NewStocktwitsProvider(url string, timeout time.Duration, tracer trace.Tracer) *StocktwitsProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StocktwitsProvider{
		client: &http.Client{Timeout: timeout},
		url:    url,
		tracer: tracer,
		log:    logger.GetLogger().WithComponent("stocktwits"),
	}
}

// FetchTrending returns at most limit tickers ordered by trending score.
// Records that fail to parse are logged and skipped.
func (p *StocktwitsProvider) FetchTrending(ctx context.Context, limit int) ([]domain.TickerSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "stocktwits.fetch-trending")
	defer span.End()

	body, err := doGet(ctx, p.client, p.url, "application/json")
	if err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("parse trending: %w", ErrInvalidPayload)
	}

	symbols := gjson.GetBytes(body, "symbols").Array()
	sort.SliceStable(symbols, func(i, j int) bool {
		return symbols[i].Get("trending_score").Float() > symbols[j].Get("trending_score").Float()
	})
	if limit > 0 && len(symbols) > limit {
		symbols = symbols[:limit]
	}

	tickers := make([]domain.TickerSnapshot, 0, len(symbols))
	for _, raw := range symbols {
		ticker, err := parseTrendingRecord(raw)
		if err != nil {
			p.log.WithError(err).Warn("skipping trending record")
			continue
		}
		tickers = append(tickers, ticker)
	}
	span.SetAttributes(attribute.Int("tickers", len(tickers)))
	return tickers, nil
}

func parseTrendingRecord(raw gjson.Result) (domain.TickerSnapshot, error) {
	symbol := strings.TrimSpace(raw.Get("symbol").String())
	if symbol == "" {
		return domain.TickerSnapshot{}, errors.New("record has no symbol")
	}

	fundamentals := raw.Get("fundamentals")
	volume, err := parseVolume(fundamentals.Get("AverageDailyVolumeLast3Months"))
	if err != nil {
		return domain.TickerSnapshot{}, fmt.Errorf("%s: %w", symbol, err)
	}

	marketCap := marketCapNone
	if mc := fundamentals.Get("MarketCapitalization"); mc.Exists() && mc.Type != gjson.Null {
		marketCap = mc.String()
	}

	hype := defaultHype
	if summary := raw.Get("trends.summary"); summary.Exists() && summary.Type != gjson.Null {
		hype = summary.String()
	}

	ticker := domain.TickerSnapshot{
		Symbol:        symbol,
		Title:         raw.Get("title").String(),
		Price:         ParsePrice(fundamentals.Get("LastPrice").String()),
		PercentChange: 0,
		Volume:        FormatVolume(volume),
		MarketCap:     marketCap,
		Direction:     domain.DirectionFlat,
		Hype:          TruncateHype(hype),
		Source:        domain.SourceStocktwits,
	}
	if wc := raw.Get("watchlist_count"); wc.Exists() && wc.Type != gjson.Null {
		ticker.WatchlistCount = domain.Some(int(wc.Int()))
	}
	if ts := raw.Get("trending_score"); ts.Exists() && ts.Type != gjson.Null {
		ticker.TrendingScore = domain.Some(ts.Float())
	}
	return ticker, nil
}

func parseVolume(v gjson.Result) (float64, error) {
	switch v.Type {
	case gjson.Null:
		return 0, nil
	case gjson.Number:
		return v.Float(), nil
	}
	text := strings.ReplaceAll(strings.TrimSpace(v.String()), ",", "")
	if text == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid volume %q", v.String())
	}
	return f, nil
}

// ParsePrice strips currency symbols and thousands separators. Empty,
// placeholder or unparseable text yields 0.
func ParsePrice(text string) float64 {
	clean := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(text))
	switch clean {
	case "", "N/A", "None":
		return 0
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return f
}

// FormatVolume renders a share count as 2.30B, 1.50M, 12.00K or 999.
func FormatVolume(volume float64) string {
	switch {
	case volume >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", volume/1_000_000_000)
	case volume >= 1_000_000:
		return fmt.Sprintf("%.2fM", volume/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("%.2fK", volume/1_000)
	default:
		return strconv.FormatInt(int64(volume), 10)
	}
}

// TruncateHype caps a hype summary at 180 characters plus an ellipsis.
func TruncateHype(text string) string {
	runes := []rune(text)
	if len(runes) <= maxHypeRunes {
		return text
	}
	return string(runes[:maxHypeRunes]) + hypeEllipsis
}
