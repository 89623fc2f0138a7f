package factcache

import (
	"encoding/json"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache"
	"github.com/perezable/hyper8-FACT-sub000/internal/evictor"
	"github.com/perezable/hyper8-FACT-sub000/internal/lifetimer"
	"github.com/perezable/hyper8-FACT-sub000/internal/metrics"
	"github.com/perezable/hyper8-FACT-sub000/internal/shared/bytes"
	"time"
)

// Report is the structured health report served by the surrounding service.
type Report struct {
	GeneratedAt    time.Time               `json:"generated_at"`
	Strategy       string                  `json:"strategy"`
	Size           string                  `json:"size"`
	Usage          metrics.Usage           `json:"usage"`
	Totals         metrics.Totals          `json:"totals"`
	Latency        metrics.LatencyAnalysis `json:"latency"`
	Cost           metrics.CostAnalysis    `json:"cost"`
	Health         metrics.HealthMetrics   `json:"health"`
	Counters       cache.Counters          `json:"counters"`
	Optimizer      evictor.Metrics         `json:"optimizer"`
	Validation     lifetimer.Metrics       `json:"validation"`
	LastValidation *ValidationResult       `json:"last_validation,omitempty"`
	Hourly         []metrics.HourlyBucket  `json:"hourly,omitempty"`
}

func (c *Cache) HealthReport() Report {
	usage := c.manager.Usage()
	r := Report{
		GeneratedAt: c.clock.Now(),
		Strategy:    c.manager.Strategy(),
		Size:        bytes.FmtMem(uint64(usage.Bytes)) + " / " + bytes.FmtMem(uint64(usage.MaxBytes)),
		Usage:       usage,
		Totals:      c.collector.Totals(),
		Latency:     c.collector.Latency(),
		Cost:        c.collector.Cost(),
		Health:      c.collector.Health(usage),
		Counters:    c.manager.Counters(),
		Optimizer:   c.evictor.Metrics(),
		Validation:  c.lifetimer.Metrics(),
		Hourly:      c.collector.Hourly(),
	}
	if last, ok := c.lifetimer.Last(); ok {
		r.LastValidation = &last
	}
	return r
}

func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
