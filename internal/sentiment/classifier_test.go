package sentiment

import (
	"context"
	"testing"

	"marketpulse/internal/domain"
)

func snapshot(rsi, macd, signal, price, sma50 *float64) domain.IndicatorSnapshot {
	ind := domain.IndicatorSnapshot{Symbol: "TEST"}
	if rsi != nil {
		ind.RSI = domain.Some(*rsi)
	}
	if macd != nil {
		ind.MACD = domain.Some(*macd)
	}
	if signal != nil {
		ind.MACDSignal = domain.Some(*signal)
	}
	if price != nil {
		ind.Price = *price
	}
	if sma50 != nil {
		ind.SMA50 = domain.Some(*sma50)
	}
	return ind
}

func f(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ind  domain.IndicatorSnapshot
		want domain.Sentiment
	}{
		{"all bullish", snapshot(f(25), f(1), f(0.5), f(100), f(90)), domain.SentimentBullish},
		{"all bearish", snapshot(f(75), f(0.5), f(1), f(90), f(100)), domain.SentimentBearish},
		{"nothing present", domain.IndicatorSnapshot{Symbol: "X"}, domain.SentimentNeutral},
		{"rsi 50 is bearish", snapshot(f(50), nil, nil, nil, nil), domain.SentimentBearish},
		{"rsi 70 is weak bearish", snapshot(f(70), f(1), f(0.5), nil, nil), domain.SentimentNeutral},
		{"rsi 49.9 is weak bullish", snapshot(f(49.9), nil, nil, nil, nil), domain.SentimentBullish},
		{"strong rsi ties two opposing votes", snapshot(f(20), f(0.5), f(1), f(90), f(100)), domain.SentimentNeutral},
		{"macd without signal is ignored", snapshot(nil, f(1), nil, nil, nil), domain.SentimentNeutral},
		{"price equal to sma50 casts no vote", snapshot(nil, nil, nil, f(100), f(100)), domain.SentimentNeutral},
	}

	for _, tc := range cases {
		if got := Classify(tc.ind); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestSentimentOf(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.NewsSentiment{
		"Stocks rally as profits surge":        domain.NewsPositive,
		"Shares FALL after earnings MISS":      domain.NewsNegative,
		"Company holds annual meeting":         domain.NewsNeutral,
		"Gains offset by a drop in guidance":   domain.NewsNeutral,
		"":                                     domain.NewsNeutral,
		"Analysts say buy, growth looks solid": domain.NewsPositive,
		"Up, up and away while shares go down": domain.NewsNeutral,
		"Drop, drop, drop as buyers rally":     domain.NewsPositive,
	}
	for text, want := range cases {
		if got := SentimentOf(text); got != want {
			t.Fatalf("SentimentOf(%q) = %s, want %s", text, got, want)
		}
	}
}

func TestKeywordClassifier(t *testing.T) {
	t.Parallel()

	var c TextClassifier = KeywordClassifier{}
	if got := c.Classify(context.Background(), "Bearish decline continues"); got != domain.NewsNegative {
		t.Fatalf("expected negative, got %s", got)
	}
}
