package factcache

import (
	"context"
	"github.com/benbjohnson/clock"
	"github.com/perezable/hyper8-FACT-sub000/internal/validator"
	"github.com/perezable/hyper8-FACT-sub000/internal/warmer"
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

type (
	// Generator produces the content cached for a query during warming.
	Generator = warmer.Generator

	ValidationResult = validator.Result
	Repair           = validator.Repair
	Issue            = validator.Issue
	CrossChecker     = validator.CrossChecker
	WarmResult       = warmer.Result
)

// History records looked-up queries for warming analysis.
type History interface {
	Record(ctx context.Context, query string, at time.Time) error
	Recent(ctx context.Context, limit int) ([]string, error)
	Close() error
}

type options struct {
	clock      clock.Clock
	generator  Generator
	history    History
	checker    CrossChecker
	registerer prometheus.Registerer
}

type Option func(*options)

// WithClock replaces wall time, mostly for tests.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		if clk != nil {
			o.clock = clk
		}
	}
}

// WithGenerator enables warming.
func WithGenerator(gen Generator) Option {
	return func(o *options) { o.generator = gen }
}

// WithHistory replaces the configured query history. The caller keeps ownership and closes it.
func WithHistory(h History) Option {
	return func(o *options) { o.history = h }
}

// WithCrossChecker adds an external source of truth to comprehensive validation.
func WithCrossChecker(c CrossChecker) Option {
	return func(o *options) { o.checker = c }
}

// WithRegisterer exports cache metrics to a prometheus registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}
