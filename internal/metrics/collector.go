// Package metrics records every cache operation and derives latency, cost and
// health analyses from the rolling windows it keeps.
package metrics

import (
	"fmt"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/shared/queue"
	"github.com/prometheus/client_golang/prometheus"
	"maps"
	"slices"
	"sync"
	"time"
)

// hourlyRetention is how many hourly buckets are kept (one week).
const hourlyRetention = 168

// Recorder is the write side of the collector used by the cache manager.
type Recorder interface {
	Record(s Sample)
}

type Collector struct {
	mu            sync.Mutex
	cfg           config.MetricsCfg
	targetHitRate float64

	hits    *queue.Ring[time.Duration]
	misses  *queue.Ring[time.Duration]
	stores  *queue.Ring[time.Duration]
	history *queue.Ring[Sample]
	hourly  map[int64]*HourlyBucket
	totals  Totals

	exporter *exporter
}

// NewCollector builds a collector. When reg is non-nil the collector also
// exports prometheus metrics through it.
func NewCollector(cfg config.MetricsCfg, targetHitRate float64, reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		cfg:           cfg,
		targetHitRate: targetHitRate,
		hits:          queue.NewRing[time.Duration](cfg.WindowSize),
		misses:        queue.NewRing[time.Duration](cfg.WindowSize),
		stores:        queue.NewRing[time.Duration](cfg.WindowSize),
		history:       queue.NewRing[Sample](cfg.HistorySize),
		hourly:        make(map[int64]*HourlyBucket),
	}
	if reg != nil {
		exp, err := newExporter(reg)
		if err != nil {
			return nil, fmt.Errorf("register cache metrics: %w", err)
		}
		c.exporter = exp
	}
	return c, nil
}

func (c *Collector) Record(s Sample) {
	c.mu.Lock()
	c.history.Push(s)
	c.accumulate(s)
	c.bucket(s)
	c.mu.Unlock()

	c.exporter.observe(s)
}

func (c *Collector) accumulate(s Sample) {
	switch s.Kind {
	case KindGet:
		c.totals.Gets++
		if s.Hit {
			c.totals.Hits++
			c.totals.TokensServed += int64(s.Tokens)
			c.hits.Push(s.Latency)
		} else {
			c.totals.Misses++
			c.misses.Push(s.Latency)
		}
	case KindStore:
		c.stores.Push(s.Latency)
		if s.Success {
			c.totals.Stores++
			c.totals.TokensStored += int64(s.Tokens)
			c.totals.BytesStored += s.Size
		} else {
			c.totals.StoreFailures++
		}
	case KindInvalidate:
		c.totals.Invalidations++
	case KindEvict:
		c.totals.Evictions++
	}
}

func (c *Collector) bucket(s Sample) {
	hour := s.At.Unix() / 3600
	b, ok := c.hourly[hour]
	if !ok {
		b = &HourlyBucket{Hour: hour}
		c.hourly[hour] = b
		for h := range c.hourly {
			if h <= hour-hourlyRetention {
				delete(c.hourly, h)
			}
		}
	}
	b.Samples++
	b.TotalLatency += s.Latency
	if !s.Success {
		b.Failures++
	}
	switch s.Kind {
	case KindGet:
		b.Gets++
		if s.Hit {
			b.Hits++
			b.Tokens += int64(s.Tokens)
		} else {
			b.Misses++
		}
	case KindStore:
		if s.Success {
			b.Stores++
		}
	case KindEvict:
		b.Evictions++
	}
}

func (c *Collector) Latency() LatencyAnalysis {
	hits, misses, stores := c.hits.Values(), c.misses.Values(), c.stores.Values()
	return LatencyAnalysis{
		Hit:               computeStats(hits),
		Miss:              computeStats(misses),
		Store:             computeStats(stores),
		HitSLACompliance:  compliance(hits, c.cfg.HitLatencyTarget),
		MissSLACompliance: compliance(misses, c.cfg.MissLatencyTarget),
	}
}

func (c *Collector) Cost() CostAnalysis {
	return costOf(c.Totals())
}

// Health scores the cache from 0 to 100 and raises threshold alerts.
func (c *Collector) Health(u Usage) HealthMetrics {
	totals := c.Totals()
	latency := c.Latency()
	cost := costOf(totals)

	h := HealthMetrics{
		HitRate:         totals.HitRate(),
		LatencyScore:    (latency.HitSLACompliance + latency.MissSLACompliance) / 200,
		TokenEfficiency: min(1, u.TokensPerKiB()/efficiencyCeiling),
		MemoryFitness:   memoryFitness(u.Utilization),
		CostEfficiency:  cost.CostReductionPercent / 100,
	}
	h.Score = 100 * (healthHitRateWeight*h.HitRate +
		healthLatencyWeight*h.LatencyScore +
		healthEfficiencyWeight*h.TokenEfficiency +
		healthMemoryWeight*h.MemoryFitness +
		healthCostWeight*h.CostEfficiency)

	if latency.Hit.Count > 0 && latency.Hit.Mean > c.cfg.HitLatencyTarget {
		h.Alerts = append(h.Alerts, Alert{
			Severity:  SeverityCritical,
			Kind:      "hit_latency",
			Message:   fmt.Sprintf("mean hit latency %s exceeds target %s", latency.Hit.Mean, c.cfg.HitLatencyTarget),
			Value:     float64(latency.Hit.Mean) / float64(time.Millisecond),
			Threshold: c.cfg.HitLatencyTargetMs,
		})
	}
	if u.Utilization > criticalUtilization {
		h.Alerts = append(h.Alerts, Alert{
			Severity:  SeverityCritical,
			Kind:      "memory_utilization",
			Message:   fmt.Sprintf("memory utilization %.1f%% above %.0f%%", 100*u.Utilization, 100*criticalUtilization),
			Value:     u.Utilization,
			Threshold: criticalUtilization,
		})
	}
	if totals.Gets > 0 && h.HitRate < c.targetHitRate {
		h.Alerts = append(h.Alerts, Alert{
			Severity:  SeverityWarning,
			Kind:      "hit_rate",
			Message:   fmt.Sprintf("hit rate %.1f%% below target %.1f%%", 100*h.HitRate, 100*c.targetHitRate),
			Value:     h.HitRate,
			Threshold: c.targetHitRate,
		})
	}
	if h.Score < warningHealthScore {
		h.Alerts = append(h.Alerts, Alert{
			Severity:  SeverityWarning,
			Kind:      "health_score",
			Message:   fmt.Sprintf("health score %.1f below %d", h.Score, warningHealthScore),
			Value:     h.Score,
			Threshold: warningHealthScore,
		})
	}

	c.exporter.health(h.Score)
	return h
}

// HitRate is the lifetime share of gets that hit.
func (c *Collector) HitRate() float64 { return c.Totals().HitRate() }

func (c *Collector) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals
}

// Hourly returns the retained hourly buckets, oldest first.
func (c *Collector) Hourly() []HourlyBucket {
	c.mu.Lock()
	defer c.mu.Unlock()
	hours := slices.Sorted(maps.Keys(c.hourly))
	out := make([]HourlyBucket, 0, len(hours))
	for _, h := range hours {
		out = append(out, *c.hourly[h])
	}
	return out
}

// Recent returns up to n of the latest samples, newest first.
func (c *Collector) Recent(n int) []Sample { return c.history.Last(n) }

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits.Reset()
	c.misses.Reset()
	c.stores.Reset()
	c.history.Reset()
	clear(c.hourly)
	c.totals = Totals{}
}
