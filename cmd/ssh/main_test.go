package main

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"marketpulse/internal/config"

	"github.com/charmbracelet/ssh"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	restore, calls := stubSSHDeps(&ssh.Server{})
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

	if calls.options == 0 {
		t.Fatal("expected wish server options")
	}
	if !calls.shutdown {
		t.Fatal("expected graceful shutdown")
	}
}

func TestMainWithoutServer(t *testing.T) {
	restore, calls := stubSSHDeps(nil)
	defer restore()

	main()
	if calls.shutdown {
		t.Fatal("nil server must not be shut down")
	}
}

type sshCalls struct {
	options  int
	started  chan struct{}
	shutdown bool
}

func stubSSHDeps(server *ssh.Server) (func(), *sshCalls) {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origNewWishServer := newWishServerFunc
	origStartSSH := startSSHServerFunc
	origShutdownSSH := shutdownSSHServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc

	calls := &sshCalls{started: make(chan struct{}, 1)}

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			CacheTTLSeconds:       60,
			StocktwitsTrendingURL: "http://127.0.0.1:0/trending",
			YahooChartURL:         "http://127.0.0.1:0/chart",
			YahooNewsURL:          "http://127.0.0.1:0/rss",
			SSHPort:               2222,
			SSHHostKeyPath:        ".ssh/test_key",
			LogLevel:              "error",
			LogOutput:             "stderr",
		}
	}
	initTracerFunc = func(context.Context, string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		calls.options = len(ops)
		return server, nil
	}
	startSSHServerFunc = func(*ssh.Server) error {
		calls.started <- struct{}{}
		return ssh.ErrServerClosed
	}
	shutdownSSHServerFunc = func(*ssh.Server, context.Context) error {
		calls.shutdown = true
		return errors.New("already closed")
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {
		if server != nil {
			<-calls.started
		}
	}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		newWishServerFunc = origNewWishServer
		startSSHServerFunc = origStartSSH
		shutdownSSHServerFunc = origShutdownSSH
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
	}, calls
}
