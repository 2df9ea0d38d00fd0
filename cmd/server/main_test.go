package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"marketpulse/internal/bot"
	"marketpulse/internal/config"
	"marketpulse/internal/job"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore, started := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}

	select {
	case srv := <-started:
		if srv.Addr != ":18080" {
			t.Fatalf("expected :18080, got %s", srv.Addr)
		}
		if srv.Handler == nil {
			t.Fatal("expected router handler")
		}
	case <-time.After(time.Second):
		t.Fatal("http server was not started")
	}
}

func stubServerDeps() (func(), <-chan *http.Server) {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origStartSweeper := startSweeperFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	started := make(chan *http.Server, 1)

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			HTTPPort:              18080,
			CacheTTLSeconds:       60,
			StocktwitsTrendingURL: "http://127.0.0.1:0/trending",
			YahooChartURL:         "http://127.0.0.1:0/chart",
			YahooNewsURL:          "http://127.0.0.1:0/rss",
			LogLevel:              "error",
			LogFormat:             "json",
			LogOutput:             "stderr",
		}
	}
	initTracerFunc = func(ctx context.Context, _ string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	startSweeperFunc = func(*job.CacheSweeper, context.Context) error { return nil }
	startTelegramBotFunc = func(context.Context, string, bot.MarketReader) error { return nil }
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) { time.Sleep(50 * time.Millisecond) }
	startHTTPServerFunc = func(srv *http.Server) error {
		started <- srv
		return http.ErrServerClosed
	}
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		startSweeperFunc = origStartSweeper
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}, started
}
