package metrics

import (
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func testCollector(t *testing.T, reg prometheus.Registerer) *Collector {
	t.Helper()
	cfg := config.Default()
	cfg.Metrics.WindowSize = 4
	cfg.Metrics.HistorySize = 8
	c, err := NewCollector(cfg.Metrics, 0.6, reg)
	require.NoError(t, err)
	return c
}

func get(hit bool, latency time.Duration, tokens int) Sample {
	return Sample{Kind: KindGet, At: t0, Latency: latency, Success: true, Hit: hit, Tokens: tokens}
}

// TestCollector_Totals counts every kind of operation.
func TestCollector_Totals(t *testing.T) {
	c := testCollector(t, nil)
	c.Record(get(true, time.Millisecond, 120))
	c.Record(get(false, 2*time.Millisecond, 0))
	c.Record(Sample{Kind: KindStore, At: t0, Success: true, Tokens: 80, Size: 400})
	c.Record(Sample{Kind: KindStore, At: t0, Success: false})
	c.Record(Sample{Kind: KindInvalidate, At: t0, Success: true})
	c.Record(Sample{Kind: KindEvict, At: t0, Success: true})

	tot := c.Totals()
	require.Equal(t, Totals{
		Gets: 2, Hits: 1, Misses: 1,
		Stores: 1, StoreFailures: 1,
		Invalidations: 1, Evictions: 1,
		TokensServed: 120, TokensStored: 80, BytesStored: 400,
	}, tot)
	require.InDelta(t, 0.5, c.HitRate(), 1e-9)
}

// TestCollector_LatencyWindows keeps only the newest window and computes percentiles.
func TestCollector_LatencyWindows(t *testing.T) {
	c := testCollector(t, nil)
	for _, ms := range []int{100, 1, 2, 3, 4} { // 100 falls out of the window of 4
		c.Record(get(true, time.Duration(ms)*time.Millisecond, 1))
	}
	c.Record(get(false, 200*time.Millisecond, 0))

	la := c.Latency()
	require.Equal(t, 4, la.Hit.Count)
	require.Equal(t, 2500*time.Microsecond, la.Hit.Mean)
	require.Equal(t, 2*time.Millisecond, la.Hit.P50)
	require.Equal(t, 4*time.Millisecond, la.Hit.P99)
	require.Equal(t, 100.0, la.HitSLACompliance)
	require.Equal(t, 0.0, la.MissSLACompliance)
	require.Zero(t, la.Store.Count)
}

// TestCollector_CostAnalysis values hits against the uncached baseline.
func TestCollector_CostAnalysis(t *testing.T) {
	c := testCollector(t, nil)
	c.Record(get(true, time.Millisecond, 1000))
	c.Record(get(true, time.Millisecond, 1000))
	c.Record(get(true, time.Millisecond, 1000))
	c.Record(get(false, time.Millisecond, 0))

	cost := c.Cost()
	require.Equal(t, int64(3000), cost.TokensSaved)
	require.InDelta(t, 3000*CostPerToken, cost.EstimatedSavingsUSD, 1e-12)
	require.InDelta(t, 4*BaselineTokensPerQuery*CostPerToken, cost.BaselineCostUSD, 1e-12)
	require.InDelta(t, 1*BaselineTokensPerQuery*CostPerToken, cost.CachedCostUSD, 1e-12)
	require.InDelta(t, 75.0, cost.CostReductionPercent, 1e-9)
}

// TestCollector_Health_Perfect scores a fast, fully hitting, well sized cache near 100.
func TestCollector_Health_Perfect(t *testing.T) {
	c := testCollector(t, nil)
	for range 4 {
		c.Record(get(true, time.Millisecond, 100))
	}
	u := NewUsage(10, 8*1024, 10*1024, 8*200) // 80% full, 200 tokens/KiB

	h := c.Health(u)
	require.InDelta(t, 1.0, h.HitRate, 1e-9)
	require.InDelta(t, 1.0, h.LatencyScore, 1e-9)
	require.InDelta(t, 1.0, h.TokenEfficiency, 1e-9)
	require.InDelta(t, 1.0, h.MemoryFitness, 1e-9)
	require.InDelta(t, 1.0, h.CostEfficiency, 1e-9)
	require.InDelta(t, 100.0, h.Score, 1e-9)
	require.Empty(t, h.Alerts)
}

// TestCollector_Health_Alerts raises every alert kind.
func TestCollector_Health_Alerts(t *testing.T) {
	c := testCollector(t, nil)
	c.Record(get(true, 500*time.Millisecond, 1))
	for range 3 {
		c.Record(get(false, time.Second, 0))
	}
	h := c.Health(NewUsage(1, 95, 100, 1))

	kinds := make(map[string]Severity)
	for _, a := range h.Alerts {
		kinds[a.Kind] = a.Severity
	}
	require.Equal(t, map[string]Severity{
		"hit_latency":        SeverityCritical,
		"memory_utilization": SeverityCritical,
		"hit_rate":           SeverityWarning,
		"health_score":       SeverityWarning,
	}, kinds)
}

// TestCollector_Health_NoGetsNoHitRateAlert stays quiet about hit rate before traffic.
func TestCollector_Health_NoGetsNoHitRateAlert(t *testing.T) {
	c := testCollector(t, nil)
	for _, a := range c.Health(NewUsage(0, 0, 100, 0)).Alerts {
		require.NotEqual(t, "hit_rate", a.Kind)
	}
}

// TestMemoryFitness peaks at 80% and decays on both sides.
func TestMemoryFitness(t *testing.T) {
	require.InDelta(t, 0.0, memoryFitness(0), 1e-9)
	require.InDelta(t, 0.5, memoryFitness(0.4), 1e-9)
	require.InDelta(t, 1.0, memoryFitness(0.8), 1e-9)
	require.InDelta(t, 0.5, memoryFitness(0.9), 1e-9)
	require.InDelta(t, 0.0, memoryFitness(1.0), 1e-9)
	require.InDelta(t, 0.0, memoryFitness(1.5), 1e-9)
}

// TestCollector_HourlyBuckets groups by hour of epoch and prunes after a week.
func TestCollector_HourlyBuckets(t *testing.T) {
	c := testCollector(t, nil)
	old := t0.Add(-200 * time.Hour)
	c.Record(Sample{Kind: KindGet, At: old, Success: true})
	c.Record(Sample{Kind: KindGet, At: t0, Success: true, Hit: true, Tokens: 10, Latency: 2 * time.Millisecond})
	c.Record(Sample{Kind: KindGet, At: t0.Add(10 * time.Minute), Success: true, Latency: 4 * time.Millisecond})
	c.Record(Sample{Kind: KindStore, At: t0.Add(time.Hour), Success: true})

	buckets := c.Hourly()
	require.Len(t, buckets, 2)
	require.Equal(t, t0.Unix()/3600, buckets[0].Hour)
	require.Equal(t, t0, buckets[0].Start())
	require.Equal(t, int64(2), buckets[0].Gets)
	require.Equal(t, int64(1), buckets[0].Hits)
	require.Equal(t, 3*time.Millisecond, buckets[0].MeanLatency())
	require.Equal(t, int64(1), buckets[1].Stores)
}

// TestCollector_RecentAndReset bounds the sample history and clears it.
func TestCollector_RecentAndReset(t *testing.T) {
	c := testCollector(t, nil)
	for i := range 10 {
		c.Record(get(false, time.Duration(i), 0))
	}
	recent := c.Recent(3)
	require.Len(t, recent, 3)
	require.Equal(t, time.Duration(9), recent[0].Latency)

	c.Reset()
	require.Empty(t, c.Recent(3))
	require.Equal(t, Totals{}, c.Totals())
	require.Empty(t, c.Hourly())
}

// TestCollector_PrometheusExport mirrors samples into the registry.
func TestCollector_PrometheusExport(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := testCollector(t, reg)

	c.Record(get(true, time.Millisecond, 1))
	c.Record(get(false, time.Millisecond, 0))
	c.Record(Sample{Kind: KindStore, At: t0, Success: false})
	c.Record(Sample{Kind: KindEvict, At: t0, Success: true})
	h := c.Health(NewUsage(0, 0, 100, 0))

	require.Equal(t, 1.0, testutil.ToFloat64(c.exporter.hits))
	require.Equal(t, 1.0, testutil.ToFloat64(c.exporter.misses))
	require.Equal(t, 1.0, testutil.ToFloat64(c.exporter.evictions))
	require.Equal(t, 2.0, testutil.ToFloat64(c.exporter.operations.WithLabelValues("get", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.exporter.operations.WithLabelValues("store", "failure")))
	require.Equal(t, h.Score, testutil.ToFloat64(c.exporter.healthScore))

	_, err := NewCollector(config.Default().Metrics, 0.6, reg)
	require.Error(t, err, "registering twice must fail")
}
