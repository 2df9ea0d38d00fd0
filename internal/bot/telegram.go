package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketpulse/internal/domain"
	"marketpulse/internal/service"
	"marketpulse/pkg/logger"

	tele "gopkg.in/telebot.v3"
)

const (
	commandTimeout = 30 * time.Second
	botNewsLimit   = 5
)

// MarketReader is what the bot needs from the pipeline.
type MarketReader interface {
	Trending(ctx context.Context, forceRefresh bool) []domain.TickerSnapshot
	Indicators(ctx context.Context, symbol string, forceRefresh bool) (domain.IndicatorSnapshot, bool)
	News(ctx context.Context, symbol string, limit int, forceRefresh bool) []domain.NewsItem
	Summarize(ctx context.Context, forceRefresh bool) (domain.MarketSummary, error)
	Scan(ctx context.Context, forceRefresh bool) (domain.ScanResult, error)
}

// StartTelegramBot registers the chat commands and polls until ctx is
// cancelled. An empty token disables the bot.
func StartTelegramBot(ctx context.Context, token string, market MarketReader) error {
	log := logger.GetLogger().WithComponent("telegram")
	if strings.TrimSpace(token) == "" {
		log.Info("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	r := &replies{market: market}
	reply := func(c tele.Context, build func(context.Context) string) error {
		cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		return c.Send(build(cmdCtx))
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/trending", func(c tele.Context) error {
		return reply(c, r.trending)
	})
	b.Handle("/summary", func(c tele.Context) error {
		return reply(c, r.summary)
	})
	b.Handle("/scan", func(c tele.Context) error {
		return reply(c, r.scan)
	})
	b.Handle("/indicators", func(c tele.Context) error {
		return reply(c, func(ctx context.Context) string { return r.indicators(ctx, c.Args()) })
	})
	b.Handle("/news", func(c tele.Context) error {
		return reply(c, func(ctx context.Context) string { return r.news(ctx, c.Args()) })
	})

	go func() {
		<-ctx.Done()
		b.Stop()
	}()
	log.Info("Telegram bot started")
	go b.Start()
	return nil
}

type replies struct {
	market MarketReader
}

func (r *replies) trending(ctx context.Context) string {
	tickers := r.market.Trending(ctx, false)
	if len(tickers) == 0 {
		return "No trending data available right now."
	}
	var sb strings.Builder
	sb.WriteString("Trending on Stocktwits\n")
	for i, t := range tickers {
		fmt.Fprintf(&sb, "%d. %s $%.2f vol %s\n", i+1, t.Symbol, t.Price, t.Volume)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r *replies) summary(ctx context.Context) string {
	s, err := r.market.Summarize(ctx, false)
	if errors.Is(err, service.ErrNoTrendingData) {
		return "Unable to fetch trending data."
	}
	if err != nil {
		return "Error building summary: " + err.Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Market sentiment: %s\nBullish %d / Bearish %d / Neutral %d",
		strings.ToUpper(string(s.MarketSentiment)), s.BullishCount, s.BearishCount, s.NeutralCount)
	for _, m := range s.TopMovers {
		fmt.Fprintf(&sb, "\n%s %s RSI %s", m.Symbol, m.Sentiment, formatOptional(m.RSI))
	}
	return sb.String()
}

func (r *replies) scan(ctx context.Context) string {
	res, err := r.market.Scan(ctx, false)
	if errors.Is(err, service.ErrNoTrendingData) {
		return "Unable to fetch trending data."
	}
	if err != nil {
		return "Error scanning market: " + err.Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Scanned %d tickers", res.TotalScanned)
	writeBucket(&sb, "Bullish", res.Bullish)
	writeBucket(&sb, "Bearish", res.Bearish)
	return sb.String()
}

func writeBucket(sb *strings.Builder, name string, signals []domain.ScanSignal) {
	fmt.Fprintf(sb, "\n%s:", name)
	if len(signals) == 0 {
		sb.WriteString(" none")
		return
	}
	for _, s := range signals {
		fmt.Fprintf(sb, "\n%s score %d: %s", s.Symbol, s.Score, strings.Join(s.Signals, ", "))
	}
}

func (r *replies) indicators(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /indicators AAPL"
	}
	symbol := service.NormalizeSymbol(args[0])
	ind, ok := r.market.Indicators(ctx, symbol, false)
	if !ok {
		return "No indicator data for " + symbol
	}
	return fmt.Sprintf(
		"%s $%.2f\nRSI(14): %s\nMACD: %s (signal %s)\nSMA20: %s\nSMA50: %s",
		symbol, ind.Price, formatOptional(ind.RSI), formatOptional(ind.MACD),
		formatOptional(ind.MACDSignal), formatOptional(ind.SMA20), formatOptional(ind.SMA50),
	)
}

func (r *replies) news(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /news AAPL"
	}
	symbol := service.NormalizeSymbol(args[0])
	items := r.market.News(ctx, symbol, botNewsLimit, false)
	if len(items) == 0 {
		return "No news for " + symbol
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s headlines", symbol)
	for _, n := range items {
		fmt.Fprintf(&sb, "\n[%s] %s (%s)", n.Sentiment, n.Title, n.Source)
	}
	return sb.String()
}

func formatOptional(v domain.Optional[float64]) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return "n/a"
}
