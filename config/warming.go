package config

import "time"

type WarmingCfg struct {
	TargetHitRate     float64 `yaml:"target_hit_rate"`
	WarmingBatchSize  int     `yaml:"warming_batch_size"`
	ConcurrentWarming bool    `yaml:"concurrent_warming"`

	// MaxQueries is the base warming scope; HardCap bounds the adaptive increase.
	MaxQueries int `yaml:"max_queries"`
	HardCap    int `yaml:"hard_cap"`

	// HighWaterMark is the utilization above which warming scope is halved.
	HighWaterMark float64 `yaml:"high_water_mark"`

	// Rate paces sequential warming (queries per second).
	Rate int `yaml:"rate"`

	// BatchPause is the delay between concurrent batches.
	BatchPause time.Duration `yaml:"batch_pause"`

	// Interval schedules periodic warming. Interval 0 disables the scheduler.
	Interval time.Duration `yaml:"interval"`

	// HistoryLimit bounds how many recent queries are analyzed per run.
	HistoryLimit int `yaml:"history_limit"`
}

func (cfg *WarmingCfg) Enabled() bool {
	return cfg != nil
}
