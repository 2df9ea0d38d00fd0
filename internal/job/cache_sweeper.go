package job

import (
	"context"
	"fmt"
	"strings"

	"marketpulse/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CacheMaintainer is the part of the market service the sweeper drives.
type CacheMaintainer interface {
	SweepCache() int
	Warm(ctx context.Context) int
}

// CacheSweeper removes expired cache entries on a cron schedule and can prime
// the cache once at startup.
type CacheSweeper struct {
	tracer      trace.Tracer
	target      CacheMaintainer
	schedule    string
	warmOnStart bool
	cron        *cron.Cron
	log         *logger.Entry
}

// NewCacheSweeper accepts standard five-field specs and descriptors such as
// "@every 10m". An empty schedule disables sweeping.
func NewCacheSweeper(tracer trace.Tracer, target CacheMaintainer, schedule string, warmOnStart bool) *CacheSweeper {
	return &CacheSweeper{
		tracer:      tracer,
		target:      target,
		schedule:    strings.TrimSpace(schedule),
		warmOnStart: warmOnStart,
		cron:        cron.New(),
		log:         logger.GetLogger().WithComponent("cache-sweeper"),
	}
}

// Start registers the sweep, optionally warms the cache and blocks until ctx
// is cancelled.
func (s *CacheSweeper) Start(ctx context.Context) error {
	if s.schedule != "" {
		if _, err := s.cron.AddFunc(s.schedule, func() { s.sweep(ctx) }); err != nil {
			return fmt.Errorf("register cache sweep %q: %w", s.schedule, err)
		}
		s.cron.Start()
		s.log.WithField("schedule", s.schedule).Info("cache sweeper started")
	}

	if s.warmOnStart {
		s.warm(ctx)
	}

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	s.log.Info("cache sweeper stopped")
	return nil
}

func (s *CacheSweeper) sweep(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "cache-sweeper.sweep")
	defer span.End()

	removed := s.target.SweepCache()
	span.SetAttributes(attribute.Int("removed", removed))
	s.log.WithField("removed", removed).Debug("swept expired cache entries")
}

func (s *CacheSweeper) warm(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "cache-sweeper.warm")
	defer span.End()

	warmed := s.target.Warm(ctx)
	span.SetAttributes(attribute.Int("warmed", warmed))
}
