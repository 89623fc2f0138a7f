package config

import "time"

type MetricsCfg struct {
	HitLatencyTargetMs  float64 `yaml:"hit_latency_target_ms"`
	MissLatencyTargetMs float64 `yaml:"miss_latency_target_ms"`

	// WindowSize bounds each rolling latency window (hit, miss, store).
	WindowSize int `yaml:"window_size"`

	// HistorySize bounds the raw sample history.
	HistorySize int `yaml:"history_size"`

	// HitLatencyTarget and MissLatencyTarget are derived during AdjustConfig.
	HitLatencyTarget  time.Duration `yaml:"-"`
	MissLatencyTarget time.Duration `yaml:"-"`
}
