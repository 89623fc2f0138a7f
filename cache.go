// Package factcache is a response cache for LLM-backed question answering. It
// decides what to cache, keeps entries within byte and token budgets, evicts with
// pluggable strategies, validates stored content and warms itself ahead of demand.
package factcache

import (
	"context"
	"errors"
	"fmt"
	"github.com/benbjohnson/clock"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache"
	"github.com/perezable/hyper8-FACT-sub000/internal/evictor"
	"github.com/perezable/hyper8-FACT-sub000/internal/history"
	"github.com/perezable/hyper8-FACT-sub000/internal/lifetimer"
	"github.com/perezable/hyper8-FACT-sub000/internal/metrics"
	"github.com/perezable/hyper8-FACT-sub000/internal/strategy"
	"github.com/perezable/hyper8-FACT-sub000/internal/telemetry"
	"github.com/perezable/hyper8-FACT-sub000/internal/validator"
	"github.com/perezable/hyper8-FACT-sub000/internal/warmer"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrEmptyContent      = cache.ErrEmptyContent
	ErrSecurityRejected  = cache.ErrSecurityRejected
	ErrNotAdmitted       = cache.ErrNotAdmitted
	ErrMinTokens         = cache.ErrMinTokens
	ErrSizeLimitExceeded = cache.ErrSizeLimitExceeded
	ErrNoGenerator       = warmer.ErrNoGenerator
	ErrUnknownLevel      = validator.ErrUnknownLevel
)

type Cache struct {
	cfg    *config.Cache
	logger *slog.Logger
	clock  clock.Clock
	ctx    context.Context
	cls    context.CancelFunc
	once   sync.Once

	manager   *cache.Manager
	collector *metrics.Collector
	validator *validator.Validator
	warmer    *warmer.Warmer
	history   History
	ownsHist  bool

	evictor   evictor.Evictor
	lifetimer lifetimer.Lifetimer
	scheduler warmer.Scheduler
	telemeter telemetry.Logger
}

// New assembles the cache and starts the background workers enabled in cfg.
// A nil cfg uses config.Default(); workers stop on Close or when ctx is cancelled.
func New(ctx context.Context, cfg *config.Cache, logger *slog.Logger, opts ...Option) (*Cache, error) {
	if cfg == nil {
		cfg = config.Default()
	} else if err := cfg.AdjustConfig(); err != nil {
		return nil, fmt.Errorf("adjust config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := options{clock: clock.New()}
	for _, opt := range opts {
		opt(&o)
	}

	collector, err := metrics.NewCollector(cfg.Metrics, cfg.WarmingOrDefault().TargetHitRate, o.registerer)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	var (
		name      = config.StrategyRecency
		evalEvery time.Duration
	)
	if cfg.Eviction.Enabled() {
		name, evalEvery = cfg.Eviction.Strategy, cfg.Eviction.EvaluationInterval
	}
	st, err := strategy.New(name, strategy.Options{
		MinTokenEfficiency: cfg.ValidationOrDefault().MinTokenEfficiency,
		EvaluationInterval: evalEvery,
		Admission:          cfg.AdmissionControl,
	})
	if err != nil {
		return nil, err
	}

	hist, owns := o.history, false
	if hist == nil {
		if hist, err = history.New(cfg.History); err != nil {
			return nil, fmt.Errorf("query history: %w", err)
		}
		owns = true
	}

	ctx, cancel := context.WithCancel(ctx)
	manager := cache.New(cfg, st, collector, o.clock, logger)
	c := &Cache{
		cfg:       cfg,
		logger:    logger,
		clock:     o.clock,
		ctx:       ctx,
		cls:       cancel,
		manager:   manager,
		collector: collector,
		validator: validator.New(manager, cfg, o.checker, logger),
		history:   hist,
		ownsHist:  owns,
	}
	c.warmer = warmer.New(manager, collector, o.generator, hist, cfg.WarmingOrDefault(), o.clock, logger)

	c.evictor = evictor.New(ctx, cfg.Eviction, logger, manager)
	c.lifetimer = lifetimer.New(ctx, cfg.Validation, logger, c.validator)
	c.scheduler = warmer.NewScheduler(ctx, c.warmer, logger)
	c.telemeter = telemetry.New(ctx, cfg, logger, manager, collector, c.evictor, c.lifetimer, c.scheduler)

	logger.Info("fact cache is running",
		"strategy", manager.Strategy(),
		"max_size", cfg.DB.MaxSize,
		"ttl", cfg.DB.TTL.String(),
		"min_tokens", cfg.DB.MinTokens,
		"admission", cfg.AdmissionControl.Enabled(),
	)
	return c, nil
}

// Lookup returns the cached content for query. Every lookup is recorded in the
// query history so that warming can learn from it.
func (c *Cache) Lookup(query string) (string, bool) {
	if err := c.history.Record(c.ctx, query, c.clock.Now()); err != nil {
		c.logger.Debug("query history record failed", "err", err)
	}
	snap, ok := c.manager.Get(c.manager.GenerateKey(query))
	if !ok {
		return "", false
	}
	return snap.Content, true
}

// Store caches content as the answer to query. Rejections are returned as errors
// wrapping one of the Err* sentinels; callers may treat them as a miss.
func (c *Cache) Store(query, content string) error {
	_, err := c.manager.Store(c.manager.GenerateKey(query), content)
	return err
}

// Invalidate drops every entry of the cache namespace, typically because the data
// behind the answers changed. It returns the number of entries removed.
func (c *Cache) Invalidate(reason string) int {
	return c.invalidate(c.cfg.DB.NamespacePrefix+":", reason)
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (c *Cache) InvalidatePrefix(prefix string) int {
	return c.invalidate(prefix, "prefix")
}

func (c *Cache) invalidate(prefix, reason string) int {
	n := c.manager.InvalidateByPrefix(prefix)
	if n > 0 {
		c.logger.Info("cache invalidated", "reason", reason, "prefix", prefix, "entries", n)
	}
	return n
}

// Validate sweeps the cache at level; an empty level uses the configured one.
func (c *Cache) Validate(ctx context.Context, level config.ValidationLevel) (ValidationResult, error) {
	return c.validator.Validate(ctx, level)
}

// AutoRepair removes the entries res found critical or expired.
func (c *Cache) AutoRepair(res ValidationResult) Repair {
	return c.validator.AutoRepair(res)
}

// Warm runs one warming cycle. It requires a generator, see WithGenerator.
func (c *Cache) Warm(ctx context.Context) (WarmResult, error) {
	return c.warmer.Warm(ctx)
}

// Optimize runs an optimizer pass in the calling goroutine.
func (c *Cache) Optimize() cache.OptimizeResult {
	return c.manager.Optimize()
}

// Clear removes every entry and resets collected metrics.
func (c *Cache) Clear() {
	c.manager.Clear()
	c.collector.Reset()
}

func (c *Cache) Config() *config.Cache { return c.cfg }

// Close stops the background workers and releases the query history. It is safe to call more than once.
func (c *Cache) Close() error {
	var err error
	c.once.Do(func() {
		c.cls()
		err = errors.Join(
			c.telemeter.Close(),
			c.scheduler.Close(),
			c.lifetimer.Close(),
			c.evictor.Close(),
		)
		if c.ownsHist {
			err = errors.Join(err, c.history.Close())
		}
		c.logger.Info("fact cache is stopped")
	})
	return err
}
