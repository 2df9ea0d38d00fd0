package tui

import (
	"fmt"
	"strconv"
	"strings"

	"marketpulse/internal/domain"

	"github.com/charmbracelet/bubbles/table"
)

func columnsFor(v view) []table.Column {
	switch v {
	case viewSummary:
		return []table.Column{
			{Title: "Symbol", Width: 8},
			{Title: "Outlook", Width: 9},
			{Title: "Price", Width: 10},
			{Title: "Change %", Width: 9},
			{Title: "RSI", Width: 7},
		}
	case viewScan:
		return []table.Column{
			{Title: "Bucket", Width: 8},
			{Title: "Symbol", Width: 8},
			{Title: "Score", Width: 6},
			{Title: "Price", Width: 10},
			{Title: "Signals", Width: 48},
		}
	default:
		return []table.Column{
			{Title: "#", Width: 3},
			{Title: "Symbol", Width: 8},
			{Title: "Price", Width: 10},
			{Title: "Volume", Width: 9},
			{Title: "Watchers", Width: 9},
			{Title: "Hype", Width: 40},
		}
	}
}

func trendingRows(tickers []domain.TickerSnapshot) []table.Row {
	rows := make([]table.Row, 0, len(tickers))
	for i, t := range tickers {
		watchers := "n/a"
		if n, ok := t.WatchlistCount.Get(); ok {
			watchers = strconv.Itoa(n)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			t.Symbol,
			fmt.Sprintf("$%.2f", t.Price),
			t.Volume,
			watchers,
			t.Hype,
		})
	}
	return rows
}

func moverRows(movers []domain.Mover) []table.Row {
	rows := make([]table.Row, 0, len(movers))
	for _, m := range movers {
		rows = append(rows, table.Row{
			m.Symbol,
			string(m.Sentiment),
			fmt.Sprintf("$%.2f", m.Price),
			fmt.Sprintf("%+.2f", m.Change),
			optional(m.RSI),
		})
	}
	return rows
}

func scanRows(r domain.ScanResult) []table.Row {
	rows := make([]table.Row, 0, len(r.Bullish)+len(r.Bearish))
	add := func(bucket string, signals []domain.ScanSignal) {
		for _, s := range signals {
			rows = append(rows, table.Row{
				bucket,
				s.Symbol,
				strconv.Itoa(s.Score),
				fmt.Sprintf("$%.2f", s.Price),
				strings.Join(s.Signals, "; "),
			})
		}
	}
	add("bullish", r.Bullish)
	add("bearish", r.Bearish)
	return rows
}

func optional(v domain.Optional[float64]) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf("%.1f", f)
	}
	return "n/a"
}
