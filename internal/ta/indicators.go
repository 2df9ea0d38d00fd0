// Package ta computes technical-indicator series from closing prices.
// Warm-up rows that do not have enough history are NaN.
package ta

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Latest returns the last value of series unless it is missing or NaN.
func Latest(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func SMASeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = stat.Mean(values[i-period+1:i+1], nil)
	}
	return out
}

// EMASeries is seeded with the SMA of the first period values.
func EMASeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	alpha := 2.0 / float64(period+1)
	out[period-1] = stat.Mean(values[:period], nil)
	for i := period; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSISeries uses Wilder smoothing.
func RSISeries(closes []float64, period int) []float64 {
	series := nanSeries(len(closes))
	if period <= 0 || len(closes) <= period {
		return series
	}

	var gainSum float64
	var lossSum float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	series[period] = rsiFromAvg(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		series[i] = rsiFromAvg(avgGain, avgLoss)
	}
	return series
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACDSeries returns the MACD line, its signal line and the histogram.
// The line needs slow values, the signal slow+signal-1.
func MACDSeries(values []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	n := len(values)
	macd = nanSeries(n)
	sig = nanSeries(n)
	hist = nanSeries(n)
	if fast <= 0 || slow <= fast || signal <= 0 || n < slow {
		return macd, sig, hist
	}

	fastEMA := EMASeries(values, fast)
	slowEMA := EMASeries(values, slow)
	for i := slow - 1; i < n; i++ {
		macd[i] = fastEMA[i] - slowEMA[i]
	}

	signalEMA := EMASeries(macd[slow-1:], signal)
	for i, v := range signalEMA {
		idx := i + slow - 1
		sig[idx] = v
		if !math.IsNaN(v) {
			hist[idx] = macd[idx] - v
		}
	}
	return macd, sig, hist
}
