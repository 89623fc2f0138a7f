// Package telemetry periodically logs what the cache and its workers did during the last interval.
package telemetry

import (
	"context"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache"
	"github.com/perezable/hyper8-FACT-sub000/internal/evictor"
	"github.com/perezable/hyper8-FACT-sub000/internal/lifetimer"
	"github.com/perezable/hyper8-FACT-sub000/internal/metrics"
	"github.com/perezable/hyper8-FACT-sub000/internal/shared/bytes"
	"github.com/perezable/hyper8-FACT-sub000/internal/warmer"
	"log/slog"
	"time"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

type CacheSource interface {
	Counters() cache.Counters
	Usage() metrics.Usage
	Strategy() string
}

type MetricsSource interface {
	Totals() metrics.Totals
}

type Logs struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       *config.Cache
	logger    *slog.Logger
	cache     CacheSource
	metrics   MetricsSource
	evictor   evictor.Evictor
	lifetimer lifetimer.Lifetimer
	warming   warmer.Scheduler
	interval  time.Duration
}

func New(
	ctx context.Context,
	cfg *config.Cache,
	logger *slog.Logger,
	cache CacheSource,
	metrics MetricsSource,
	evictor evictor.Evictor,
	lifetimer lifetimer.Lifetimer,
	warming warmer.Scheduler,
) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	return (&Logs{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		logger:    logger,
		cache:     cache,
		metrics:   metrics,
		evictor:   evictor,
		lifetimer: lifetimer,
		warming:   warming,
		interval:  cfg.DB.TelemetryLogsInterval,
	}).run()
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

func (l *Logs) Close() error {
	l.cancel()
	return nil
}

func (l *Logs) run() *Logs {
	if l.cfg != nil && l.cfg.DB.IsTelemetryLogsEnabled && l.interval > 0 {
		go l.loop()
	}
	return l
}

func (l *Logs) loop() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	var softLimit = "INF"
	if l.cfg.Eviction.Enabled() {
		softLimit = bytes.FmtMem(uint64(l.cfg.Eviction.SoftMemoryLimitBytes))
	}
	hardLimit := bytes.FmtMem(uint64(l.cfg.DB.MaxSizeBytes))

	s := newSampler(l.cache, l.metrics, l.evictor, l.lifetimer, l.warming)
	prev := s.snapshot()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := s.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			common := []any{"interval", l.interval.String()}
			usage := l.cache.Usage()

			l.logger.Info("operations",
				append(common,
					"gets", int64(d.gets),
					"hits", int64(d.hits),
					"misses", int64(d.misses),
					"hit_rate", d.hitRate(),
					"stores", int64(d.stores),
					"rejected", int64(d.rejected),
				)...,
			)

			if l.cfg.AdmissionControl.Enabled() {
				l.logger.Info("admission_controller",
					append(common, "not_allowed", int64(d.rejectedAdmit))...,
				)
			}

			if l.cfg.Eviction.Enabled() {
				l.logger.Info("soft_evictor",
					append(common,
						"passes", int64(d.optimizerPasses),
						"freed_bytes", bytes.FmtMem(d.optimizerFreed),
						"strategy_switches", int64(d.switches),
					)...,
				)
			}

			if d.reclaimed > 0 || d.evicted > 0 || d.emergency > 0 {
				l.logger.Info("reclamation",
					append(common,
						"expired", int64(d.reclaimed),
						"strategy", int64(d.evicted),
						"emergency", int64(d.emergency),
					)...,
				)
			}

			if l.cfg.Validation.Enabled() && l.cfg.Validation.Interval > 0 {
				l.logger.Info("lifetime_manager",
					append(common,
						"sweeps", int64(d.sweeps),
						"issues", int64(d.issues),
						"repaired", int64(d.repaired),
					)...,
				)
			}

			if d.warmRuns > 0 {
				l.logger.Info("warmer",
					append(common,
						"runs", int64(d.warmRuns),
						"warmed", int64(d.warmed),
						"failed", int64(d.warmFailed),
					)...,
				)
			}

			l.logger.Info("storage",
				append(common,
					"size", bytes.FmtMem(uint64(usage.Bytes)),
					"entries", usage.Entries,
					"tokens", usage.Tokens,
					"strategy", l.cache.Strategy(),
					"soft_limit", softLimit,
					"hard_limit", hardLimit,
				)...,
			)
		}
	}
}
