package lifetimer

import (
	"context"
	"errors"
	"github.com/benbjohnson/clock"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache"
	"github.com/perezable/hyper8-FACT-sub000/internal/validator"
	"github.com/stretchr/testify/require"
	"log/slog"
	"strings"
	"testing"
	"time"
)

const answer = "Microsoft reported revenue of 245 billion dollars for fiscal 2024 led by its cloud segment."

// TestLifetimeWorker_SweepRepairs verifies that a forced sweep validates the cache and removes expired entries.
func TestLifetimeWorker_SweepRepairs(t *testing.T) {
	cfg := &config.Cache{
		DB:         config.DBCfg{MinTokens: 5, TTLSeconds: 60},
		Validation: &config.ValidationCfg{Level: config.ValidationStandard, AutoRepair: true, Interval: time.Hour},
	}
	require.NoError(t, cfg.AdjustConfig())

	clk := clock.NewMock()
	m := cache.New(cfg, nil, nil, clk, slog.Default())
	_, err := m.Store(m.GenerateKey("old"), answer)
	require.NoError(t, err)
	clk.Add(2 * time.Minute)
	_, err = m.Store(m.GenerateKey("fresh"), answer+" "+strings.Repeat("more ", 3))
	require.NoError(t, err)

	v := validator.New(m, cfg, nil, slog.Default())
	lt := New(context.Background(), cfg.Validation, slog.Default(), v)
	defer lt.Close()
	require.IsType(t, &LifetimeWorker{}, lt)

	require.NoError(t, lt.ForceCall(time.Second))
	require.Eventually(t, func() bool {
		_, ok := lt.Last()
		return ok
	}, 5*time.Second, 5*time.Millisecond)

	res, _ := lt.Last()
	require.Equal(t, 2, res.Total)
	require.Equal(t, 1, res.Expired)

	got := lt.Metrics()
	require.Equal(t, int64(1), got.Sweeps)
	require.Equal(t, int64(1), got.Repaired)
	require.Equal(t, 1, m.Usage().Entries)
	require.True(t, m.Contains(m.GenerateKey("fresh")))
}

type failingValidator struct{}

func (failingValidator) Validate(context.Context, config.ValidationLevel) (validator.Result, error) {
	return validator.Result{}, errors.New("source unavailable")
}

func (failingValidator) AutoRepair(validator.Result) validator.Repair {
	panic("auto-repair must not run after a failed sweep")
}

// TestLifetimeWorker_SweepError verifies that a failed sweep is counted and the worker keeps running.
func TestLifetimeWorker_SweepError(t *testing.T) {
	cfg := &config.ValidationCfg{AutoRepair: true, Interval: time.Hour}
	lt := New(context.Background(), cfg, slog.Default(), failingValidator{})
	defer lt.Close()

	for range 2 {
		require.NoError(t, lt.ForceCall(time.Second))
	}
	require.Eventually(t, func() bool {
		return lt.Metrics().Errors == 2
	}, 5*time.Second, 5*time.Millisecond)
	_, ok := lt.Last()
	require.False(t, ok)
}

// TestNew_Disabled verifies that a missing config or interval yields the no-op lifetimer.
func TestNew_Disabled(t *testing.T) {
	require.IsType(t, &NoOpLifetimer{}, New(context.Background(), nil, slog.Default(), nil))
	require.IsType(t, &NoOpLifetimer{}, New(context.Background(), &config.ValidationCfg{}, slog.Default(), nil))
}
