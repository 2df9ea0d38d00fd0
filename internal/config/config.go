package config

import (
	"os"
	"strconv"
	"strings"

	"marketpulse/pkg/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultStocktwitsTrendingURL = "https://api.stocktwits.com/api/2/trending/symbols.json"
	defaultYahooChartURL         = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultYahooNewsURL          = "https://feeds.finance.yahoo.com/rss/2.0/headline"
)

// Config is loaded from an optional YAML file (CONFIG_FILE) and then
// overridden by environment variables.
type Config struct {
	HTTPPort int `yaml:"http_port"`

	CacheTTLSeconds    int    `yaml:"cache_ttl_seconds"`
	CacheSweepSchedule string `yaml:"cache_sweep_schedule"`
	WarmCacheOnStart   bool   `yaml:"warm_cache_on_start"`

	MaxTrendingTickers int `yaml:"max_trending_tickers"`
	MaxNewsArticles    int `yaml:"max_news_articles"`
	MaxScanResults     int `yaml:"max_scan_results"`

	StocktwitsTrendingURL string `yaml:"stocktwits_trending_url"`
	StocktwitsTimeoutSecs int    `yaml:"stocktwits_timeout_secs"`

	YahooChartURL         string `yaml:"yahoo_chart_url"`
	YahooNewsURL          string `yaml:"yahoo_news_url"`
	MarketDataEnabled     bool   `yaml:"market_data_enabled"`
	MarketDataTimeoutSecs int    `yaml:"market_data_timeout_secs"`
	HistoryLookbackDays   int    `yaml:"history_lookback_days"`
	PipelineConcurrency   int    `yaml:"pipeline_concurrency"`

	TelegramBotToken string `yaml:"telegram_bot_token"`

	SSHPort        int    `yaml:"ssh_port"`
	SSHHostKeyPath string `yaml:"ssh_host_key_path"`

	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`

	MCPTransport          string `yaml:"mcp_transport"`
	MCPHTTPBind           string `yaml:"mcp_http_bind"`
	MCPHTTPPort           int    `yaml:"mcp_http_port"`
	MCPRequestTimeoutSecs int    `yaml:"mcp_request_timeout_secs"`
	MCPRateLimitPerMin    int    `yaml:"mcp_rate_limit_per_min"`

	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	LogOutput     string `yaml:"log_output"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`
}

func defaults() *Config {
	return &Config{
		HTTPPort:              8080,
		CacheTTLSeconds:       300,
		CacheSweepSchedule:    "@every 10m",
		MaxTrendingTickers:    10,
		MaxNewsArticles:       10,
		MaxScanResults:        5,
		StocktwitsTrendingURL: defaultStocktwitsTrendingURL,
		StocktwitsTimeoutSecs: 10,
		YahooChartURL:         defaultYahooChartURL,
		YahooNewsURL:          defaultYahooNewsURL,
		MarketDataEnabled:     true,
		MarketDataTimeoutSecs: 15,
		HistoryLookbackDays:   100,
		PipelineConcurrency:   4,
		SSHPort:               2222,
		SSHHostKeyPath:        ".ssh/marketpulse_ed25519",
		OpenAIModel:           "gpt-4o-mini",
		MCPTransport:          "stdio",
		MCPHTTPBind:           "127.0.0.1",
		MCPHTTPPort:           8090,
		MCPRequestTimeoutSecs: 20,
		MCPRateLimitPerMin:    60,
		LogLevel:              "info",
		LogFormat:             "json",
		LogOutput:             "stdout",
	}
}

var log = logger.GetLogger().WithComponent("config")

func Load() *Config {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err != nil:
			log.Warnf("cannot read CONFIG_FILE %s: %v", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				log.Warnf("cannot parse CONFIG_FILE %s: %v", path, err)
			}
		}
	}

	envInt(&cfg.HTTPPort, "PORT", 1, 65535)
	envInt(&cfg.CacheTTLSeconds, "CACHE_TTL_SECONDS", 1, 0)
	if v, ok := os.LookupEnv("CACHE_SWEEP_SCHEDULE"); ok {
		cfg.CacheSweepSchedule = strings.TrimSpace(v)
	}
	envBool(&cfg.WarmCacheOnStart, "WARM_CACHE_ON_START")

	envInt(&cfg.MaxTrendingTickers, "MAX_TRENDING_TICKERS", 1, 0)
	envInt(&cfg.MaxNewsArticles, "MAX_NEWS_ARTICLES", 1, 50)
	envInt(&cfg.MaxScanResults, "MAX_SCAN_RESULTS", 1, 0)

	envString(&cfg.StocktwitsTrendingURL, "STOCKTWITS_TRENDING_URL")
	envInt(&cfg.StocktwitsTimeoutSecs, "STOCKTWITS_TIMEOUT_SECS", 1, 0)

	envString(&cfg.YahooChartURL, "YAHOO_CHART_URL")
	envString(&cfg.YahooNewsURL, "YAHOO_NEWS_URL")
	envBool(&cfg.MarketDataEnabled, "MARKET_DATA_ENABLED")
	envInt(&cfg.MarketDataTimeoutSecs, "MARKET_DATA_TIMEOUT_SECS", 1, 0)
	envInt(&cfg.HistoryLookbackDays, "HISTORY_LOOKBACK_DAYS", 60, 0)
	envInt(&cfg.PipelineConcurrency, "PIPELINE_CONCURRENCY", 1, 32)

	envString(&cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	if cfg.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, Telegram bot disabled")
	}

	envInt(&cfg.SSHPort, "SSH_PORT", 1, 65535)
	envString(&cfg.SSHHostKeyPath, "SSH_HOST_KEY_PATH")

	envString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY not set, headline sentiment uses keywords only")
	}
	envString(&cfg.OpenAIModel, "OPENAI_MODEL")

	envString(&cfg.MCPTransport, "MCP_TRANSPORT")
	cfg.MCPTransport = strings.ToLower(cfg.MCPTransport)
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warnf("unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}
	envString(&cfg.MCPHTTPBind, "MCP_HTTP_BIND")
	envInt(&cfg.MCPHTTPPort, "MCP_HTTP_PORT", 1, 65535)
	envInt(&cfg.MCPRequestTimeoutSecs, "MCP_REQUEST_TIMEOUT_SECS", 1, 0)
	envInt(&cfg.MCPRateLimitPerMin, "MCP_RATE_LIMIT_PER_MIN", 1, 0)

	envString(&cfg.LogLevel, "LOG_LEVEL")
	envString(&cfg.LogFormat, "LOG_FORMAT")
	envString(&cfg.LogOutput, "LOG_OUTPUT")
	envInt(&cfg.LogMaxAgeDays, "LOG_MAX_AGE_DAYS", 0, 0)

	return cfg
}

func envString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// envInt overrides dst when key holds an integer within [lo, hi]; hi <= 0
// means unbounded.
func envInt(dst *int, key string, lo, hi int) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || (hi > 0 && n > hi) {
		log.Warnf("invalid %s=%q, keeping %d", key, v, *dst)
		return
	}
	*dst = n
}

func envBool(dst *bool, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warnf("invalid %s=%q, keeping %t", key, v, *dst)
		return
	}
	*dst = b
}
