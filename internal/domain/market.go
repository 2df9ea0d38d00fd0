package domain

import "time"

// Sentiment is the technical outlook assigned to a ticker.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// NewsSentiment is the tone of a single headline.
type NewsSentiment string

const (
	NewsPositive NewsSentiment = "positive"
	NewsNegative NewsSentiment = "negative"
	NewsNeutral  NewsSentiment = "neutral"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// SourceStocktwits tags snapshots produced by the trending adapter.
const SourceStocktwits = "stocktwits_api"

// TickerSnapshot is one entry of the ranked trending list.
// PercentChange and Direction are always 0/flat: the trending feed carries
// no change data.
type TickerSnapshot struct {
	Symbol         string            `json:"symbol"`
	Title          string            `json:"title"`
	Price          float64           `json:"price"`
	PercentChange  float64           `json:"percent_change"`
	Volume         string            `json:"volume"`
	MarketCap      string            `json:"market_cap"`
	Direction      Direction         `json:"direction"`
	WatchlistCount Optional[int]     `json:"watchlist_count"`
	TrendingScore  Optional[float64] `json:"trending_score"`
	Hype           string            `json:"hype"`
	Source         string            `json:"source"`
}

// IndicatorSnapshot holds the latest computed indicator values for a symbol.
type IndicatorSnapshot struct {
	Symbol        string            `json:"symbol"`
	RSI           Optional[float64] `json:"rsi"`
	MACD          Optional[float64] `json:"macd"`
	MACDSignal    Optional[float64] `json:"macd_signal"`
	MACDHistogram Optional[float64] `json:"macd_histogram"`
	SMA20         Optional[float64] `json:"sma_20"`
	SMA50         Optional[float64] `json:"sma_50"`
	Price         float64           `json:"price"`
	Volume        int64             `json:"volume"`
	Timestamp     time.Time         `json:"last_updated"`
}

// PriceBar is one daily row of a historical price series.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Volume        int64     `json:"volume"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	LastUpdated   time.Time `json:"last_updated"`
}

type NewsItem struct {
	Title         string        `json:"title"`
	Source        string        `json:"source"`
	PublishedDate string        `json:"published_date"`
	URL           string        `json:"url"`
	Sentiment     NewsSentiment `json:"sentiment"`
}

// ScanSignal is a scored setup for one ticker.
type ScanSignal struct {
	Symbol        string            `json:"symbol"`
	Score         int               `json:"score"`
	Signals       []string          `json:"signals"`
	Price         float64           `json:"price"`
	RSI           Optional[float64] `json:"rsi"`
	MACD          Optional[float64] `json:"macd"`
	PercentChange float64           `json:"percent_change"`
}

type Mover struct {
	Symbol    string            `json:"symbol"`
	Sentiment Sentiment         `json:"sentiment"`
	Price     float64           `json:"price"`
	Change    float64           `json:"change"`
	RSI       Optional[float64] `json:"rsi"`
}

type MarketSummary struct {
	MarketSentiment Sentiment `json:"market_sentiment"`
	BullishCount    int       `json:"bullish_count"`
	BearishCount    int       `json:"bearish_count"`
	NeutralCount    int       `json:"neutral_count"`
	TopMovers       []Mover   `json:"top_movers"`
	LastUpdated     time.Time `json:"last_updated"`
}

type ScanResult struct {
	Bullish      []ScanSignal `json:"bullish"`
	Bearish      []ScanSignal `json:"bearish"`
	TotalScanned int          `json:"total_scanned"`
	LastUpdated  time.Time    `json:"last_updated"`
}
