package config

// Cache groups configuration of all cache subsystems.
// Optional subsystems are pointers: a nil pointer disables the subsystem.
type Cache struct {
	DB DBCfg `yaml:"db"`

	// Metrics configures latency targets and rolling window sizes. Metrics are always collected.
	Metrics MetricsCfg `yaml:"metrics"`

	// AdmissionControl sizes the TinyLFU sketch used by the frequency strategy.
	// If nil, a small default sketch is used.
	AdmissionControl *AdmissionControlCfg `yaml:"admission_control"`

	// Eviction configures the eviction strategy and the background optimizer.
	// If nil, the recency strategy is used and no background optimization runs.
	Eviction *EvictionCfg `yaml:"eviction"`

	// Validation configures validator thresholds and the periodic validation sweep.
	// If nil, defaults are used for on-demand validation and no sweep runs.
	Validation *ValidationCfg `yaml:"validation"`

	// Warming configures the warmer. If nil, scheduled warming is disabled.
	Warming *WarmingCfg `yaml:"warming"`

	// History configures where looked-up queries are recorded for warmup analysis.
	// If nil, an in-memory ring of DefaultHistoryCapacity queries is used.
	History *HistoryCfg `yaml:"history"`
}
