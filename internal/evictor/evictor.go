// Package evictor runs the cache optimizer in the background: expired entries are
// reclaimed, the adaptive strategy is re-evaluated and memory is brought back
// under the soft limit.
package evictor

import (
	"context"
	"errors"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache"
	"github.com/perezable/hyper8-FACT-sub000/internal/shared/bytes"
	"log/slog"
	"sync"
	"time"
)

var ErrEvictorNotResponded = errors.New("evictor not responded")

type Evictor interface {
	ForceCall(timeout time.Duration) error
	Metrics() Metrics
	Close() error
}

// Optimizer is the cache side of the worker.
type Optimizer interface {
	Optimize() cache.OptimizeResult
}

type EvictionWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.EvictionCfg
	logger   *slog.Logger
	cache    Optimizer
	counters *evictorCounters
	invokeCh chan struct{}
}

func New(
	ctx context.Context,
	cfg *config.EvictionCfg,
	logger *slog.Logger,
	cache Optimizer,
) Evictor {
	if !cfg.Enabled() {
		return &NoOpEvictor{}
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&EvictionWorker{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger,
		cache:    cache,
		counters: newEvictorCounters(),
		invokeCh: make(chan struct{}),
	}).run()
}

// ForceCall hands an optimization pass to the worker, waiting at most timeout for it to be accepted.
func (w *EvictionWorker) ForceCall(timeout time.Duration) error {
	after := time.NewTimer(timeout)
	defer after.Stop()

	select {
	case <-w.ctx.Done():
	case w.invokeCh <- struct{}{}:
	case <-after.C:
		return ErrEvictorNotResponded
	}
	return nil
}

func (w *EvictionWorker) Metrics() Metrics {
	return w.counters.snapshot()
}

func (w *EvictionWorker) Close() error {
	w.cancel()
	return nil
}

func (w *EvictionWorker) run() *EvictionWorker {
	w.logger.Info("evictor is running",
		"strategy", w.cfg.Strategy,
		"interval", w.cfg.OptimizeInterval.String(),
		"soft_limit", bytes.FmtMem(uint64(w.cfg.SoftMemoryLimitBytes)),
	)

	go func() {
		defer w.logger.Info("evictor is stopped")
		var wg sync.WaitGroup
		wg.Go(w.consumer)
		wg.Go(w.provider)
		wg.Wait()
	}()

	return w
}

// provider - requests an optimization pass every OptimizeInterval.
func (w *EvictionWorker) provider() {
	tick := time.NewTicker(w.cfg.OptimizeInterval)
	defer tick.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-tick.C:
			w.counters.scans.Add(1)
			select {
			case <-w.ctx.Done():
				return
			case w.invokeCh <- struct{}{}:
			}
		}
	}
}

// consumer - runs optimization passes one at a time.
func (w *EvictionWorker) consumer() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.invokeCh:
			res := w.cache.Optimize()
			w.counters.passes.Add(1)
			w.counters.expired.Add(int64(res.Expired))
			w.counters.evicted.Add(int64(res.Evicted))
			w.counters.freedBytes.Add(res.FreedBytes)
			if res.Switched {
				w.counters.switches.Add(1)
			}
			if res.Expired > 0 || res.Evicted > 0 {
				w.logger.Debug("optimization pass",
					"expired", res.Expired,
					"evicted", res.Evicted,
					"freed", bytes.FmtMem(uint64(res.FreedBytes)),
					"strategy", res.Strategy,
				)
			}
		}
	}
}
