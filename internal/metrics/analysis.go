package metrics

import (
	"math"
	"slices"
	"time"
)

const (
	// CostPerToken is the assumed provider price of one model token in USD.
	CostPerToken = 0.00002
	// BaselineTokensPerQuery is the conservative token spend of an uncached query.
	BaselineTokensPerQuery = 500

	healthHitRateWeight    = 0.30
	healthLatencyWeight    = 0.25
	healthEfficiencyWeight = 0.20
	healthMemoryWeight     = 0.15
	healthCostWeight       = 0.10

	idealUtilization    = 0.8
	criticalUtilization = 0.9
	warningHealthScore  = 60
	efficiencyCeiling   = 100.0
)

type Stats struct {
	Count int           `json:"count"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
}

type LatencyAnalysis struct {
	Hit               Stats   `json:"hit"`
	Miss              Stats   `json:"miss"`
	Store             Stats   `json:"store"`
	HitSLACompliance  float64 `json:"hit_sla_compliance"`
	MissSLACompliance float64 `json:"miss_sla_compliance"`
}

type CostAnalysis struct {
	Hits                 int64   `json:"hits"`
	Misses               int64   `json:"misses"`
	TokensSaved          int64   `json:"tokens_saved"`
	EstimatedSavingsUSD  float64 `json:"estimated_savings_usd"`
	BaselineCostUSD      float64 `json:"baseline_cost_usd"`
	CachedCostUSD        float64 `json:"cached_cost_usd"`
	CostReductionPercent float64 `json:"cost_reduction_percent"`
}

type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Alert struct {
	Severity  Severity `json:"severity"`
	Kind      string   `json:"kind"`
	Message   string   `json:"message"`
	Value     float64  `json:"value"`
	Threshold float64  `json:"threshold"`
}

type HealthMetrics struct {
	Score           float64 `json:"score"`
	HitRate         float64 `json:"hit_rate"`
	LatencyScore    float64 `json:"latency_score"`
	TokenEfficiency float64 `json:"token_efficiency"`
	MemoryFitness   float64 `json:"memory_fitness"`
	CostEfficiency  float64 `json:"cost_efficiency"`
	Alerts          []Alert `json:"alerts,omitempty"`
}

func computeStats(values []time.Duration) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum time.Duration
	for _, v := range sorted {
		sum += v
	}
	return Stats{
		Count: len(sorted),
		Mean:  sum / time.Duration(len(sorted)),
		P50:   percentile(sorted, 0.50),
		P95:   percentile(sorted, 0.95),
		P99:   percentile(sorted, 0.99),
	}
}

// percentile uses the nearest-rank method on an ascending slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	return sorted[max(0, min(idx, len(sorted)-1))]
}

// compliance is the percentage of values at or below target; 100 when there are none.
func compliance(values []time.Duration, target time.Duration) float64 {
	if len(values) == 0 {
		return 100
	}
	within := 0
	for _, v := range values {
		if v <= target {
			within++
		}
	}
	return 100 * float64(within) / float64(len(values))
}

func costOf(t Totals) CostAnalysis {
	c := CostAnalysis{
		Hits:        t.Hits,
		Misses:      t.Misses,
		TokensSaved: t.TokensServed,
	}
	c.EstimatedSavingsUSD = float64(c.TokensSaved) * CostPerToken
	c.BaselineCostUSD = float64(t.Gets*BaselineTokensPerQuery) * CostPerToken
	c.CachedCostUSD = float64(t.Misses*BaselineTokensPerQuery) * CostPerToken
	if c.BaselineCostUSD > 0 {
		c.CostReductionPercent = 100 * (c.BaselineCostUSD - c.CachedCostUSD) / c.BaselineCostUSD
	}
	return c
}

// memoryFitness peaks at 80% utilization and falls to zero at 0% and 100%.
func memoryFitness(u float64) float64 {
	if u <= idealUtilization {
		return math.Max(0, u/idealUtilization)
	}
	return math.Max(0, 1-(u-idealUtilization)/(1-idealUtilization))
}
