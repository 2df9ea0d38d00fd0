// Package sentiment classifies tickers from their indicators and headlines
// from their wording, and scores trade setups.
package sentiment

import (
	"context"
	"strings"

	"marketpulse/internal/domain"
)

const (
	rsiOversold   = 30.0
	rsiMidline    = 50.0
	rsiOverbought = 70.0
)

// Classify takes a weighted vote over RSI, MACD against its signal line and
// price against SMA50. Ties, including no votes at all, are neutral.
func Classify(ind domain.IndicatorSnapshot) domain.Sentiment {
	bullish, bearish := 0, 0

	if rsi, ok := ind.RSI.Get(); ok {
		switch {
		case rsi < rsiOversold:
			bullish += 2
		case rsi < rsiMidline:
			bullish++
		case rsi <= rsiOverbought:
			bearish++
		default:
			bearish += 2
		}
	}

	macd, hasMACD := ind.MACD.Get()
	signal, hasSignal := ind.MACDSignal.Get()
	if hasMACD && hasSignal {
		if macd > signal {
			bullish++
		} else if macd < signal {
			bearish++
		}
	}

	if sma50, ok := ind.SMA50.Get(); ok {
		if ind.Price > sma50 {
			bullish++
		} else if ind.Price < sma50 {
			bearish++
		}
	}

	switch {
	case bullish > bearish:
		return domain.SentimentBullish
	case bearish > bullish:
		return domain.SentimentBearish
	default:
		return domain.SentimentNeutral
	}
}

// TextClassifier tags a headline with a tone.
type TextClassifier interface {
	Classify(ctx context.Context, text string) domain.NewsSentiment
}

var (
	positiveWords = []string{"gain", "up", "surge", "rally", "buy", "bullish", "growth", "profit", "beat", "success"}
	negativeWords = []string{"loss", "down", "fall", "drop", "sell", "bearish", "decline", "miss", "fail", "cut"}
)

// SentimentOf counts how many distinct keywords appear in text, ignoring
// case. A keyword repeated in the headline counts once. Words match as
// substrings, so "update" counts as "up".
func SentimentOf(text string) domain.NewsSentiment {
	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return domain.NewsPositive
	case neg > pos:
		return domain.NewsNegative
	default:
		return domain.NewsNeutral
	}
}

// KeywordClassifier is the TextClassifier form of SentimentOf.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(_ context.Context, text string) domain.NewsSentiment {
	return SentimentOf(text)
}
