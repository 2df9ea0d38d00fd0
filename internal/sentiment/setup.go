package sentiment

import (
	"fmt"
	"math"

	"marketpulse/internal/domain"
)

const strongMomentumPct = 5.0

// MaxSetupScore is the number of rules ScoreSetup evaluates.
const MaxSetupScore = 4

// ScoreSetup awards one point per matching rule and returns the signals that
// fired in rule order, along with the ticker's Classify sentiment.
func ScoreSetup(ind domain.IndicatorSnapshot, ticker domain.TickerSnapshot) (int, []string, domain.Sentiment) {
	score := 0
	signals := make([]string, 0, MaxSetupScore)

	if rsi, ok := ind.RSI.Get(); ok {
		if rsi < rsiOversold {
			score++
			signals = append(signals, fmt.Sprintf("RSI oversold (%.1f)", rsi))
		} else if rsi > rsiOverbought {
			score++
			signals = append(signals, fmt.Sprintf("RSI overbought (%.1f)", rsi))
		}
	}

	macd, hasMACD := ind.MACD.Get()
	signal, hasSignal := ind.MACDSignal.Get()
	if hasMACD && hasSignal {
		if macd > signal && macd > 0 {
			score++
			signals = append(signals, "MACD bullish crossover")
		} else if macd < signal && macd < 0 {
			score++
			signals = append(signals, "MACD bearish crossover")
		}
	}

	sma20, has20 := ind.SMA20.Get()
	sma50, has50 := ind.SMA50.Get()
	if has20 && has50 {
		if ind.Price > sma20 && sma20 > sma50 {
			score++
			signals = append(signals, "Price above SMAs (bullish alignment)")
		} else if ind.Price < sma20 && sma20 < sma50 {
			score++
			signals = append(signals, "Price below SMAs (bearish alignment)")
		}
	}

	if math.Abs(ticker.PercentChange) > strongMomentumPct {
		score++
		signals = append(signals, fmt.Sprintf("Strong momentum (%.1f%%)", math.Abs(ticker.PercentChange)))
	}

	return score, signals, Classify(ind)
}
