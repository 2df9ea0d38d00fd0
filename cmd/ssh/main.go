package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"marketpulse/internal/app"
	"marketpulse/internal/config"
	"marketpulse/internal/tui"
	"marketpulse/pkg/logger"
	"marketpulse/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"
)

var (
	loadEnvFunc           = godotenv.Load
	loadConfigFunc        = config.Load
	initTracerFunc        = tracing.InitTracer
	newAppFunc            = app.New
	newWishServerFunc     = wish.NewServer
	startSSHServerFunc    = func(srv *ssh.Server) error { return srv.ListenAndServe() }
	shutdownSSHServerFunc = func(srv *ssh.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify     = ossignal.Notify
	waitForSignalFunc     = func(quit <-chan os.Signal) { <-quit }
)

// dashboardHandler starts one read-only dashboard per SSH session.
func dashboardHandler(market tui.Market) bubbletea.Handler {
	return func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
		model := tui.NewModel(market, s.User(), bubbletea.MakeRenderer(s))
		if pty, _, ok := s.Pty(); ok {
			model.SetSize(pty.Window.Width, pty.Window.Height)
		}
		return model, []tea.ProgramOption{tea.WithAltScreen()}
	}
}

// acceptKey lets every client in and records its fingerprint; the dashboard
// only reads public market data.
func acceptKey(ctx ssh.Context, key ssh.PublicKey) bool {
	logger.GetLogger().WithComponent("ssh").WithFields(logger.Fields{
		"user":        ctx.User(),
		"fingerprint": gossh.FingerprintSHA256(key),
	}).Info("ssh session authenticated")
	return true
}

func acceptKeyboardInteractive(ctx ssh.Context, _ gossh.KeyboardInteractiveChallenge) bool {
	logger.GetLogger().WithComponent("ssh").WithField("user", ctx.User()).Info("ssh session without key")
	return true
}

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()

	log := logger.GetLogger()
	if err := log.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput, cfg.LogMaxAgeDays); err != nil {
		log.WithError(err).Warn("invalid logging configuration, keeping defaults")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.DefaultServiceName+"-ssh")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Errorf("error shutting down tracer provider: %v", err)
		}
	}()

	a := newAppFunc(cfg, tracer)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)
	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(acceptKey),
		wish.WithKeyboardInteractiveAuth(acceptKeyboardInteractive),
		wish.WithMiddleware(
			bubbletea.Middleware(dashboardHandler(a.Market)),
			activeterm.Middleware(),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Infof("SSH server listening on %s", addr)
			if err := startSSHServerFunc(srv); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
				log.WithError(err).Error("SSH server stopped")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := shutdownSSHServerFunc(srv, shutdownCtx); err != nil {
			log.WithError(err).Error("SSH server shutdown error")
		}
	}

	log.Info("SSH server exited")
}
