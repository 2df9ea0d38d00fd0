package provider

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestYahooFetchHistory(t *testing.T) {
	t.Parallel()

	payload := `{"chart":{"result":[{"meta":{"symbol":"AAPL"},
		"timestamp":[1700000000,1700086400,1700172800],
		"indicators":{"quote":[{"open":[1,2,3],"high":[2,3,4],"low":[0.5,1.5,2.5],
		"close":[1.5,null,3.5],"volume":[100,200,300]}]}}],"error":null}}`

	p := NewYahooProvider("https://yahoo.example/v8/finance/chart/", 0, testTracer())
	p.client = stubClient(http.StatusOK, payload, func(req *http.Request) {
		if req.URL.Path != "/v8/finance/chart/AAPL" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		q := req.URL.Query()
		if q.Get("interval") != "1d" || q.Get("period1") == "" || q.Get("period2") == "" {
			t.Errorf("unexpected query %s", req.URL.RawQuery)
		}
	})

	end := time.Unix(1700200000, 0)
	bars, err := p.FetchHistory(context.Background(), "AAPL", end.AddDate(0, 0, -100), end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected null close row to be dropped, got %d bars", len(bars))
	}
	if bars[1].Close != 3.5 || bars[1].Volume != 300 || !bars[1].Date.Equal(time.Unix(1700172800, 0)) {
		t.Fatalf("unexpected last bar: %+v", bars[1])
	}
}

func TestYahooFetchHistoryChartError(t *testing.T) {
	t.Parallel()

	payload := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	p := NewYahooProvider("https://yahoo.example/chart", 0, testTracer())
	p.client = stubClient(http.StatusOK, payload, nil)

	_, err := p.FetchHistory(context.Background(), "ZZZZ", time.Now().AddDate(0, 0, -10), time.Now())
	if err == nil || !strings.Contains(err.Error(), "delisted") {
		t.Fatalf("expected chart api error, got %v", err)
	}
}

func TestYahooFetchHistoryEmptyResult(t *testing.T) {
	t.Parallel()

	p := NewYahooProvider("https://yahoo.example/chart", 0, testTracer())
	p.client = stubClient(http.StatusOK, `{"chart":{"result":[],"error":null}}`, nil)

	_, err := p.FetchHistory(context.Background(), "ZZZZ", time.Now().AddDate(0, 0, -10), time.Now())
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
}

func TestYahooFetchQuoteInvalidJSON(t *testing.T) {
	t.Parallel()

	p := NewYahooProvider("https://yahoo.example/chart", 0, testTracer())
	p.client = stubClient(http.StatusOK, "<html>consent</html>", nil)

	_, err := p.FetchQuote(context.Background(), "AAPL")
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestYahooFetchQuote(t *testing.T) {
	t.Parallel()

	payload := `{"chart":{"result":[{"meta":{"symbol":"MSFT","regularMarketPrice":110,
		"chartPreviousClose":100,"regularMarketVolume":5000,"regularMarketTime":1700000000}}],"error":null}}`
	p := NewYahooProvider("https://yahoo.example/chart", 0, testTracer())
	p.client = stubClient(http.StatusOK, payload, func(req *http.Request) {
		if req.URL.Query().Get("range") != "5d" {
			t.Errorf("unexpected query %s", req.URL.RawQuery)
		}
	})

	q, err := p.FetchQuote(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 110 || q.Volume != 5000 || q.Change != 10 || math.Abs(q.ChangePercent-10) > 1e-9 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestYahooFetchQuoteHTTPError(t *testing.T) {
	t.Parallel()

	p := NewYahooProvider("https://yahoo.example/chart", 0, testTracer())
	p.client = stubClient(http.StatusTooManyRequests, "slow down", nil)

	if _, err := p.FetchQuote(context.Background(), "MSFT"); err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}
