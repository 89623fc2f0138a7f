package warmer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var ErrSchedulerNotResponded = errors.New("warming scheduler not responded")

type Scheduler interface {
	ForceCall(timeout time.Duration) error
	Metrics() (runs, warmed, failed int64)
	Close() error
}

type schedulerCounters struct {
	runs   atomic.Int64
	warmed atomic.Int64
	failed atomic.Int64
}

func (c *schedulerCounters) snapshot() (runs, warmed, failed int64) {
	return c.runs.Load(), c.warmed.Load(), c.failed.Load()
}

// WarmingWorker runs a warming cycle every Interval and on ForceCall.
type WarmingWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	logger   *slog.Logger
	warmer   *Warmer
	counters *schedulerCounters
	invokeCh chan struct{}
}

// NewScheduler starts a worker for w. Without an interval or a generator it returns a no-op.
func NewScheduler(ctx context.Context, w *Warmer, logger *slog.Logger) Scheduler {
	if w == nil || !w.cfg.Enabled() || w.cfg.Interval <= 0 || w.gen == nil {
		return &NoOpScheduler{}
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&WarmingWorker{
		ctx:      ctx,
		cancel:   cancel,
		interval: w.cfg.Interval,
		logger:   logger,
		warmer:   w,
		counters: &schedulerCounters{},
		invokeCh: make(chan struct{}),
	}).run()
}

func (s *WarmingWorker) ForceCall(timeout time.Duration) error {
	after := time.NewTimer(timeout)
	defer after.Stop()

	select {
	case <-s.ctx.Done():
	case s.invokeCh <- struct{}{}:
	case <-after.C:
		return ErrSchedulerNotResponded
	}
	return nil
}

func (s *WarmingWorker) Metrics() (runs, warmed, failed int64) {
	return s.counters.snapshot()
}

func (s *WarmingWorker) Close() error {
	s.cancel()
	return nil
}

func (s *WarmingWorker) run() *WarmingWorker {
	s.logger.Info("warming scheduler is running", "interval", s.interval.String())

	go func() {
		defer s.logger.Info("warming scheduler is stopped")
		var wg sync.WaitGroup
		wg.Go(s.consumer)
		wg.Go(s.provider)
		wg.Wait()
	}()

	return s
}

func (s *WarmingWorker) provider() {
	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-tick.C:
			select {
			case <-s.ctx.Done():
				return
			case s.invokeCh <- struct{}{}:
			}
		}
	}
}

func (s *WarmingWorker) consumer() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.invokeCh:
			res, err := s.warmer.Warm(s.ctx)
			s.counters.runs.Add(1)
			if err != nil {
				s.logger.Warn("scheduled warming failed", "err", err)
				continue
			}
			s.counters.warmed.Add(int64(res.Successful))
			s.counters.failed.Add(int64(res.Failed))
		}
	}
}

// NoOpScheduler never warms.
type NoOpScheduler struct{}

func (NoOpScheduler) ForceCall(time.Duration) error        { return nil }
func (NoOpScheduler) Metrics() (runs, warmed, failed int64) { return 0, 0, 0 }
func (NoOpScheduler) Close() error                          { return nil }
