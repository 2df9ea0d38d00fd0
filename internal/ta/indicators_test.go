package ta

import (
	"math"
	"testing"
)

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestLatest(t *testing.T) {
	if _, ok := Latest(nil); ok {
		t.Fatal("empty series should have no latest value")
	}
	if _, ok := Latest([]float64{1, math.NaN()}); ok {
		t.Fatal("NaN latest should be absent")
	}
	if v, ok := Latest([]float64{1, 2}); !ok || v != 2 {
		t.Fatalf("expected 2, got %v", v)
	}
}

func TestSMASeries(t *testing.T) {
	series := SMASeries([]float64{1, 2, 3, 4, 5}, 3)
	if !math.IsNaN(series[1]) {
		t.Fatalf("warm-up rows should be NaN, got %v", series[1])
	}
	if series[2] != 2 || series[4] != 4 {
		t.Fatalf("unexpected sma series: %v", series)
	}
}

func TestSMAInsufficientHistory(t *testing.T) {
	if _, ok := Latest(SMASeries(ramp(49, 1, 1), 50)); ok {
		t.Fatal("sma50 over 49 rows should be absent")
	}
	if v, ok := Latest(SMASeries(ramp(50, 1, 1), 50)); !ok || v != 25.5 {
		t.Fatalf("expected 25.5, got %v (ok=%v)", v, ok)
	}
}

func TestRSISeriesMonotonic(t *testing.T) {
	up, ok := Latest(RSISeries(ramp(30, 10, 1), 14))
	if !ok || up != 100 {
		t.Fatalf("strictly rising closes should give RSI 100, got %v", up)
	}
	down, ok := Latest(RSISeries(ramp(30, 100, -1), 14))
	if !ok || down != 0 {
		t.Fatalf("strictly falling closes should give RSI 0, got %v", down)
	}
	if _, ok := Latest(RSISeries(ramp(14, 1, 1), 14)); ok {
		t.Fatal("rsi needs more than period closes")
	}
}

func TestMACDSeriesWarmup(t *testing.T) {
	macd, sig, hist := MACDSeries(ramp(33, 1, 1), 12, 26, 9)
	if _, ok := Latest(macd); !ok {
		t.Fatal("macd line should exist after 26 rows")
	}
	if _, ok := Latest(sig); ok {
		t.Fatal("signal needs 34 rows")
	}
	if _, ok := Latest(hist); ok {
		t.Fatal("histogram needs the signal line")
	}

	macd, sig, hist = MACDSeries(ramp(60, 1, 1), 12, 26, 9)
	m, _ := Latest(macd)
	s, ok := Latest(sig)
	if !ok {
		t.Fatal("signal should exist after 34 rows")
	}
	h, _ := Latest(hist)
	if math.Abs(h-(m-s)) > 1e-9 {
		t.Fatalf("histogram should equal macd-signal, got %v vs %v", h, m-s)
	}
	if m <= 0 {
		t.Fatalf("rising series should have positive macd, got %v", m)
	}
}
