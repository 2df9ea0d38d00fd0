package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketpulse/internal/app"
	"marketpulse/internal/config"
	"marketpulse/internal/mcpserver"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverVersion = "1.0.0"

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	newAppFunc     = app.New
	runStdioFunc   = func(ctx context.Context, server *mcp.Server) error {
		return server.Run(ctx, &mcp.StdioTransport{})
	}
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	notifyContextFunc      = signal.NotifyContext
	exitFunc               = os.Exit
)

func main() {
	if err := run(); err != nil {
		logger.GetLogger().WithError(err).Error("mcp server failed")
		exitFunc(1)
	}
}

func run() error {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()

	// stdout carries the protocol in stdio mode.
	output := cfg.LogOutput
	if cfg.MCPTransport == "stdio" && (output == "" || output == "stdout") {
		output = "stderr"
	}
	log := logger.GetLogger()
	if err := log.Configure(cfg.LogLevel, cfg.LogFormat, output, cfg.LogMaxAgeDays); err != nil {
		log.WithError(err).Warn("invalid logging configuration, keeping defaults")
	}

	ctx, stop := notifyContextFunc(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := initTracerFunc(ctx, tracing.DefaultServiceName+"-mcp")
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Errorf("error shutting down tracer provider: %v", err)
		}
	}()

	a := newAppFunc(cfg, tracer)
	server := mcpserver.New(a.Market, serverVersion, time.Duration(cfg.MCPRequestTimeoutSecs)*time.Second)

	if cfg.MCPTransport != "http" {
		log.Info("serving MCP over stdio")
		return runStdioFunc(ctx, server)
	}
	return serveHTTP(ctx, cfg, server)
}

func serveHTTP(ctx context.Context, cfg *config.Config, server *mcp.Server) error {
	log := logger.GetLogger().WithComponent("mcp-http")
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler:           mcpserver.HTTPHandler(server, cfg.MCPRateLimitPerMin),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("serving MCP over HTTP on %s", srv.Addr)
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("MCP server exiting")
	return nil
}
