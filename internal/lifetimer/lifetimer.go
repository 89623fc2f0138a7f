// Package lifetimer periodically validates the cache and, when configured,
// removes the entries the sweep found critical or expired.
package lifetimer

import (
	"context"
	"errors"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/validator"
	"log/slog"
	"sync"
	"time"
)

var ErrLifetimerNotResponded = errors.New("lifetimer not responded")

type Lifetimer interface {
	ForceCall(timeout time.Duration) error
	Metrics() Metrics
	// Last is the most recent sweep result; ok is false before the first sweep.
	Last() (res validator.Result, ok bool)
	Close() error
}

type Validator interface {
	Validate(ctx context.Context, level config.ValidationLevel) (validator.Result, error)
	AutoRepair(res validator.Result) validator.Repair
}

type LifetimeWorker struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       *config.ValidationCfg
	validator Validator
	logger    *slog.Logger
	counters  *lifetimerCounters
	invokeCh  chan struct{}

	mu   sync.Mutex
	last *validator.Result
}

func New(
	ctx context.Context,
	cfg *config.ValidationCfg,
	logger *slog.Logger,
	v Validator,
) Lifetimer {
	if !cfg.Enabled() || cfg.Interval <= 0 {
		return &NoOpLifetimer{}
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&LifetimeWorker{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		validator: v,
		logger:    logger,
		counters:  newLifetimerCounters(),
		invokeCh:  make(chan struct{}),
	}).run()
}

func (w *LifetimeWorker) ForceCall(timeout time.Duration) error {
	after := time.NewTimer(timeout)
	defer after.Stop()

	select {
	case <-w.ctx.Done():
	case w.invokeCh <- struct{}{}:
	case <-after.C:
		return ErrLifetimerNotResponded
	}
	return nil
}

func (w *LifetimeWorker) Metrics() Metrics {
	return w.counters.snapshot()
}

func (w *LifetimeWorker) Last() (validator.Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return validator.Result{}, false
	}
	return *w.last, true
}

func (w *LifetimeWorker) Close() error {
	w.cancel()
	return nil
}

func (w *LifetimeWorker) run() *LifetimeWorker {
	w.logger.Info("lifetimer is running",
		"level", w.cfg.Level,
		"interval", w.cfg.Interval.String(),
		"auto_repair", w.cfg.AutoRepair,
	)

	go func() {
		defer w.logger.Info("lifetimer is stopped")
		var wg sync.WaitGroup
		wg.Go(w.consumer)
		wg.Go(w.provider)
		wg.Wait()
	}()

	return w
}

func (w *LifetimeWorker) provider() {
	tick := time.NewTicker(w.cfg.Interval)
	defer tick.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-tick.C:
			select {
			case <-w.ctx.Done():
				return
			case w.invokeCh <- struct{}{}:
			}
		}
	}
}

func (w *LifetimeWorker) consumer() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.invokeCh:
			w.sweep()
		}
	}
}

func (w *LifetimeWorker) sweep() {
	res, err := w.validator.Validate(w.ctx, w.cfg.Level)
	w.counters.sweeps.Add(1)
	if err != nil {
		w.counters.errors.Add(1)
		w.logger.Warn("validation sweep failed", "err", err)
		return
	}
	w.counters.issues.Add(int64(len(res.Issues)))
	w.counters.marked.Add(int64(res.Marked))

	if w.cfg.AutoRepair {
		rep := w.validator.AutoRepair(res)
		w.counters.repaired.Add(int64(rep.EntriesRemoved))
	}
	if res.Health != validator.HealthHealthy {
		w.logger.Warn("cache health degraded", "health", res.Health, "recommendations", res.Recommendations)
	}

	w.mu.Lock()
	w.last = &res
	w.mu.Unlock()
}
