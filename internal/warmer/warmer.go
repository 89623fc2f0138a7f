// Package warmer fills the cache ahead of demand with the queries most likely
// to be asked: recurring patterns from query history plus a catalogue of
// financial-knowledge templates.
package warmer

import (
	"context"
	"errors"
	"fmt"
	"github.com/benbjohnson/clock"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"github.com/perezable/hyper8-FACT-sub000/internal/metrics"
	"log/slog"
	"time"
)

var ErrNoGenerator = errors.New("warming requires a generator")

// Generator produces the content cached for query, typically by asking the model.
type Generator func(ctx context.Context, query string) (string, error)

// Cache is the part of the cache manager the warmer writes through.
type Cache interface {
	GenerateKey(query string) string
	Contains(key string) bool
	Store(key, content string) (model.Snapshot, error)
	Usage() metrics.Usage
}

type HitRater interface {
	HitRate() float64
}

// QuerySource yields recently asked queries, newest first.
type QuerySource interface {
	Recent(ctx context.Context, limit int) ([]string, error)
}

type Category string

const (
	CategoryFinancial  Category = "financial"
	CategoryCompany    Category = "company"
	CategoryComparison Category = "comparison"
	CategoryGeneral    Category = "general"
)

// Query is a warming candidate.
type Query struct {
	Text           string    `json:"text"`
	Pattern        string    `json:"pattern,omitempty"`
	Priority       int       `json:"priority"`
	ExpectedTokens int       `json:"expected_tokens"`
	Category       Category  `json:"category"`
	FrequencyScore float64   `json:"frequency_score"`
	LastWarmed     time.Time `json:"last_warmed,omitzero"`
}

type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeConcurrent Mode = "concurrent"
)

type Result struct {
	RunID          string        `json:"run_id"`
	Mode           Mode          `json:"mode"`
	Attempted      int           `json:"attempted"`
	Successful     int           `json:"successful"`
	Failed         int           `json:"failed"`
	TotalTime      time.Duration `json:"total_time"`
	EntriesCreated int           `json:"entries_created"`
	TokensCached   int64         `json:"tokens_cached"`
	Errors         []string      `json:"errors,omitempty"`
}

type Warmer struct {
	cache   Cache
	rates   HitRater
	gen     Generator
	history QuerySource
	cfg     *config.WarmingCfg
	clock   clock.Clock
	logger  *slog.Logger
}

// New builds a warmer. rates, gen and history may be nil.
func New(c Cache, rates HitRater, gen Generator, history QuerySource, cfg *config.WarmingCfg, clk clock.Clock, logger *slog.Logger) *Warmer {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Warmer{
		cache:   c,
		rates:   rates,
		gen:     gen,
		history: history,
		cfg:     cfg,
		clock:   clk,
		logger:  logger,
	}
}

func (w *Warmer) hitRate() float64 {
	if w.rates == nil {
		return 0
	}
	return w.rates.HitRate()
}

// Warm runs one full cycle: analyze history and templates, prioritize, scope and populate.
func (w *Warmer) Warm(ctx context.Context) (Result, error) {
	if w.gen == nil {
		return Result{}, ErrNoGenerator
	}

	candidates := w.TemplateQueries()
	if w.history != nil {
		recent, err := w.history.Recent(ctx, w.cfg.HistoryLimit)
		if err != nil {
			return Result{}, fmt.Errorf("read query history: %w", err)
		}
		candidates = append(w.AnalyzePatterns(recent), candidates...)
	}

	selected := w.Prioritize(candidates, w.Scope())
	var res Result
	if w.cfg.ConcurrentWarming {
		res = w.WarmConcurrent(ctx, selected)
	} else {
		res = w.WarmSequential(ctx, selected)
	}

	w.logger.Info("cache warming finished",
		"run_id", res.RunID,
		"mode", res.Mode,
		"candidates", len(candidates),
		"attempted", res.Attempted,
		"successful", res.Successful,
		"failed", res.Failed,
		"tokens_cached", res.TokensCached,
		"took", res.TotalTime,
	)
	return res, nil
}
