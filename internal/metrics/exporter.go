package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "fact"
	subsystem = "cache"
)

// exporter mirrors recorded samples into prometheus collectors. A nil exporter is a no-op.
type exporter struct {
	operations  *prometheus.CounterVec   // by kind and outcome
	hits        prometheus.Counter
	misses      prometheus.Counter
	evictions   prometheus.Counter
	latency     *prometheus.HistogramVec // by kind
	healthScore prometheus.Gauge
}

func newExporter(reg prometheus.Registerer) (*exporter, error) {
	e := &exporter{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations_total",
			Help:      "Cache operations by kind and outcome",
		}, []string{"kind", "outcome"}),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "hits_total",
			Help:      "Lookups served from the cache",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "misses_total",
			Help:      "Lookups not served from the cache",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evictions_total",
			Help:      "Entries removed to make room",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Cache operation latency in seconds",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.048, 0.14, 0.5, 1},
		}, []string{"kind"}),
		healthScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "health_score",
			Help:      "Composite cache health score (0-100) at the last report",
		}),
	}
	for _, c := range []prometheus.Collector{e.operations, e.hits, e.misses, e.evictions, e.latency, e.healthScore} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *exporter) observe(s Sample) {
	if e == nil {
		return
	}
	outcome := "success"
	if !s.Success {
		outcome = "failure"
	}
	e.operations.WithLabelValues(string(s.Kind), outcome).Inc()
	e.latency.WithLabelValues(string(s.Kind)).Observe(s.Latency.Seconds())
	switch s.Kind {
	case KindGet:
		if s.Hit {
			e.hits.Inc()
		} else {
			e.misses.Inc()
		}
	case KindEvict:
		e.evictions.Inc()
	}
}

func (e *exporter) health(score float64) {
	if e == nil {
		return
	}
	e.healthScore.Set(score)
}
