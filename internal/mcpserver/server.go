// Package mcpserver exposes the market pipeline as Model Context Protocol
// tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"marketpulse/internal/domain"
	"marketpulse/internal/service"
	"marketpulse/pkg/logger"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"
)

const (
	defaultNewsLimit = 10
	maxNewsLimit     = 50
)

// Market is the pipeline surface published as tools.
type Market interface {
	Trending(ctx context.Context, forceRefresh bool) []domain.TickerSnapshot
	Indicators(ctx context.Context, symbol string, forceRefresh bool) (domain.IndicatorSnapshot, bool)
	News(ctx context.Context, symbol string, limit int, forceRefresh bool) []domain.NewsItem
	Quote(ctx context.Context, symbol string, forceRefresh bool) (domain.Quote, bool)
	Summarize(ctx context.Context, forceRefresh bool) (domain.MarketSummary, error)
	Scan(ctx context.Context, forceRefresh bool) (domain.ScanResult, error)
	Health(ctx context.Context) service.HealthStatus
}

type RefreshArgs struct {
	ForceRefresh bool `json:"force_refresh,omitempty" jsonschema:"bypass the cache and fetch fresh data"`
}

type SymbolArgs struct {
	Symbol       string `json:"symbol" jsonschema:"ticker symbol, e.g. AAPL"`
	ForceRefresh bool   `json:"force_refresh,omitempty" jsonschema:"bypass the cache and fetch fresh data"`
}

type NewsArgs struct {
	Symbol       string `json:"symbol" jsonschema:"ticker symbol, e.g. AAPL"`
	Limit        int    `json:"limit,omitempty" jsonschema:"number of headlines, 1 to 50 (default 10)"`
	ForceRefresh bool   `json:"force_refresh,omitempty" jsonschema:"bypass the cache and fetch fresh data"`
}

type HealthArgs struct{}

type tools struct {
	market  Market
	timeout time.Duration
	log     *logger.Entry
}

// New builds an MCP server whose tool calls each run under timeout.
func New(market Market, version string, timeout time.Duration) *mcp.Server {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	t := &tools{market: market, timeout: timeout, log: logger.GetLogger().WithComponent("mcp")}

	server := mcp.NewServer(&mcp.Implementation{Name: "marketpulse", Version: version}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_trending",
		Description: "Top trending tickers on Stocktwits with price, volume, market cap and hype summary.",
	}, t.getTrending)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_indicators",
		Description: "RSI(14), MACD(12,26,9), SMA20 and SMA50 for a ticker. Values are null when history is too short.",
	}, t.getIndicators)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_news",
		Description: "Recent headlines for a ticker, each tagged positive, negative or neutral.",
	}, t.getNews)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_quote",
		Description: "Latest price, volume and daily change for a ticker.",
	}, t.getQuote)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Overall market sentiment from the top trending tickers, with counts and top movers.",
	}, t.getSummary)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_scan",
		Description: "Strongest bullish and bearish technical setups among trending tickers, scored 0 to 4.",
	}, t.getScan)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "health",
		Description: "Service status, market data availability and cache statistics.",
	}, t.health)
	return server
}

func (t *tools) getTrending(ctx context.Context, _ *mcp.CallToolRequest, args RefreshArgs) (*mcp.CallToolResult, any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	tickers := t.market.Trending(ctx, args.ForceRefresh)
	return jsonResult(map[string]any{
		"tickers":      tickers,
		"count":        len(tickers),
		"last_updated": time.Now().UTC(),
	})
}

func (t *tools) getIndicators(ctx context.Context, _ *mcp.CallToolRequest, args SymbolArgs) (*mcp.CallToolResult, any, error) {
	symbol := service.NormalizeSymbol(args.Symbol)
	if symbol == "" {
		return errorResult("symbol is required")
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	ind, ok := t.market.Indicators(ctx, symbol, args.ForceRefresh)
	if !ok {
		return errorResult(fmt.Sprintf("unable to fetch indicators for %s: symbol may not exist or data unavailable", symbol))
	}
	return jsonResult(ind)
}

func (t *tools) getNews(ctx context.Context, _ *mcp.CallToolRequest, args NewsArgs) (*mcp.CallToolResult, any, error) {
	symbol := service.NormalizeSymbol(args.Symbol)
	if symbol == "" {
		return errorResult("symbol is required")
	}
	limit := args.Limit
	if limit == 0 {
		limit = defaultNewsLimit
	}
	if limit < 1 || limit > maxNewsLimit {
		return errorResult("limit must be between 1 and 50")
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	articles := t.market.News(ctx, symbol, limit, args.ForceRefresh)
	return jsonResult(map[string]any{
		"symbol":   symbol,
		"articles": articles,
		"count":    len(articles),
	})
}

func (t *tools) getQuote(ctx context.Context, _ *mcp.CallToolRequest, args SymbolArgs) (*mcp.CallToolResult, any, error) {
	symbol := service.NormalizeSymbol(args.Symbol)
	if symbol == "" {
		return errorResult("symbol is required")
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	quote, ok := t.market.Quote(ctx, symbol, args.ForceRefresh)
	if !ok {
		return errorResult("quote not available for " + symbol)
	}
	return jsonResult(quote)
}

func (t *tools) getSummary(ctx context.Context, _ *mcp.CallToolRequest, args RefreshArgs) (*mcp.CallToolResult, any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	summary, err := t.market.Summarize(ctx, args.ForceRefresh)
	if err != nil {
		return t.pipelineError("get_summary", err)
	}
	return jsonResult(summary)
}

func (t *tools) getScan(ctx context.Context, _ *mcp.CallToolRequest, args RefreshArgs) (*mcp.CallToolResult, any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	result, err := t.market.Scan(ctx, args.ForceRefresh)
	if err != nil {
		return t.pipelineError("get_scan", err)
	}
	return jsonResult(result)
}

func (t *tools) health(ctx context.Context, _ *mcp.CallToolRequest, _ HealthArgs) (*mcp.CallToolResult, any, error) {
	return jsonResult(t.market.Health(ctx))
}

func (t *tools) pipelineError(tool string, err error) (*mcp.CallToolResult, any, error) {
	if errors.Is(err, service.ErrNoTrendingData) {
		return errorResult("unable to fetch trending data")
	}
	t.log.WithError(err).WithField("tool", tool).Error("tool call failed")
	return errorResult(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(body)}}}, nil, nil
}

func errorResult(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}, nil, nil
}

// HTTPHandler serves server over streamable HTTP, rejecting requests beyond
// perMinute with 429. perMinute <= 0 disables the limit.
func HTTPHandler(server *mcp.Server, perMinute int) http.Handler {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	return RateLimit(handler, perMinute)
}

// RateLimit wraps next with a token bucket refilled at perMinute per minute.
func RateLimit(next http.Handler, perMinute int) http.Handler {
	if perMinute <= 0 {
		return next
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
