package config

import (
	"fmt"
	"os"
	"time"

	"github.com/perezable/hyper8-FACT-sub000/internal/shared/bytes"
	"gopkg.in/yaml.v3"
)

const (
	defaultNamespacePrefix = "fact"
	defaultMinTokens       = 50
	defaultMaxSize         = "10MB"
	defaultTTLSeconds      = 3600
	defaultTelemetryEvery  = 30 * time.Second

	defaultHitLatencyTargetMs  = 48
	defaultMissLatencyTargetMs = 140
	defaultWindowSize          = 1000
	defaultHistorySize         = 10_000

	defaultSoftLimitCoefficient = 0.8
	defaultOptimizeInterval     = time.Minute
	defaultEvaluationInterval   = 5 * time.Minute

	defaultMaxCorruptionRate  = 0.05
	defaultMaxExpiryRate      = 0.2
	defaultMinTokenEfficiency = 10
	defaultMaxEntryAgeHours   = 24
	defaultMaxEntrySize       = "64KB"

	defaultTargetHitRate = 0.6
	defaultBatchSize     = 5
	defaultMaxQueries    = 20
	defaultHardCap       = 100
	defaultHighWaterMark = 0.85
	defaultWarmRate      = 10
	defaultBatchPause    = 100 * time.Millisecond
	defaultHistoryLimit  = 1000

	defaultAdmissionCapacity = 4096
	defaultSampleMultiplier  = 10
	defaultDoorBits          = 4
)

// Default returns a fully populated configuration with every subsystem enabled
// except scheduled warming and persistent history.
func Default() *Cache {
	cfg := &Cache{
		DB: DBCfg{
			NamespacePrefix:       defaultNamespacePrefix,
			MinTokens:             defaultMinTokens,
			MaxSize:               defaultMaxSize,
			TTLSeconds:            defaultTTLSeconds,
			TelemetryLogsInterval: defaultTelemetryEvery,
		},
		AdmissionControl: &AdmissionControlCfg{},
		Eviction:         &EvictionCfg{Strategy: StrategyAdaptive},
		Validation:       &ValidationCfg{AutoRepair: true, Interval: 10 * time.Minute},
		Warming:          &WarmingCfg{ConcurrentWarming: true},
		History:          &HistoryCfg{},
	}
	if err := cfg.AdjustConfig(); err != nil {
		panic(err) // defaults are constants
	}
	return cfg
}

// AdjustConfig fills zero values with defaults and computes derived fields.
func (cfg *Cache) AdjustConfig() error {
	if cfg.DB.NamespacePrefix == "" {
		cfg.DB.NamespacePrefix = defaultNamespacePrefix
	}
	if cfg.DB.MinTokens <= 0 {
		cfg.DB.MinTokens = defaultMinTokens
	}
	if cfg.DB.MaxSize == "" {
		cfg.DB.MaxSize = defaultMaxSize
	}
	size, err := bytes.ParseSize(cfg.DB.MaxSize)
	if err != nil {
		return fmt.Errorf("db.max_size: %w", err)
	}
	cfg.DB.MaxSizeBytes = size
	if cfg.DB.TTLSeconds <= 0 {
		cfg.DB.TTLSeconds = defaultTTLSeconds
	}
	cfg.DB.TTL = time.Duration(cfg.DB.TTLSeconds) * time.Second
	if cfg.DB.TelemetryLogsInterval <= 0 {
		cfg.DB.TelemetryLogsInterval = defaultTelemetryEvery
	}

	if cfg.Metrics.HitLatencyTargetMs <= 0 {
		cfg.Metrics.HitLatencyTargetMs = defaultHitLatencyTargetMs
	}
	if cfg.Metrics.MissLatencyTargetMs <= 0 {
		cfg.Metrics.MissLatencyTargetMs = defaultMissLatencyTargetMs
	}
	if cfg.Metrics.WindowSize <= 0 {
		cfg.Metrics.WindowSize = defaultWindowSize
	}
	if cfg.Metrics.HistorySize <= 0 {
		cfg.Metrics.HistorySize = defaultHistorySize
	}
	cfg.Metrics.HitLatencyTarget = msToDuration(cfg.Metrics.HitLatencyTargetMs)
	cfg.Metrics.MissLatencyTarget = msToDuration(cfg.Metrics.MissLatencyTargetMs)

	if cfg.AdmissionControl.Enabled() {
		if cfg.AdmissionControl.Capacity <= 0 {
			cfg.AdmissionControl.Capacity = defaultAdmissionCapacity
		}
		if cfg.AdmissionControl.SampleMultiplier <= 0 {
			cfg.AdmissionControl.SampleMultiplier = defaultSampleMultiplier
		}
		if cfg.AdmissionControl.DoorBitsPerCounter <= 0 {
			cfg.AdmissionControl.DoorBitsPerCounter = defaultDoorBits
		}
	}

	if cfg.Eviction.Enabled() {
		switch cfg.Eviction.Strategy {
		case "":
			cfg.Eviction.Strategy = StrategyAdaptive
		case StrategyRecency, StrategyFrequency, StrategyTokenEfficiency, StrategyAdaptive:
		default:
			return fmt.Errorf("eviction.strategy: unknown strategy %q", cfg.Eviction.Strategy)
		}
		if cfg.Eviction.SoftLimitCoefficient <= 0 || cfg.Eviction.SoftLimitCoefficient > 1 {
			cfg.Eviction.SoftLimitCoefficient = defaultSoftLimitCoefficient
		}
		if cfg.Eviction.OptimizeInterval <= 0 {
			cfg.Eviction.OptimizeInterval = defaultOptimizeInterval
		}
		if cfg.Eviction.EvaluationInterval <= 0 {
			cfg.Eviction.EvaluationInterval = defaultEvaluationInterval
		}
		cfg.Eviction.SoftMemoryLimitBytes = int64(float64(cfg.DB.MaxSizeBytes) * cfg.Eviction.SoftLimitCoefficient)
	}

	if cfg.Validation.Enabled() {
		if err = cfg.Validation.adjust(); err != nil {
			return err
		}
	}

	if cfg.Warming.Enabled() {
		cfg.Warming.adjust()
	}

	if cfg.History.Enabled() && cfg.History.Capacity <= 0 {
		cfg.History.Capacity = DefaultHistoryCapacity
	}

	return nil
}

// ValidationOrDefault returns the validation config, or defaults when validation is not configured.
func (cfg *Cache) ValidationOrDefault() *ValidationCfg {
	if cfg.Validation.Enabled() {
		return cfg.Validation
	}
	v := &ValidationCfg{}
	_ = v.adjust()
	return v
}

// WarmingOrDefault returns the warming config, or defaults when warming is not configured.
func (cfg *Cache) WarmingOrDefault() *WarmingCfg {
	if cfg.Warming.Enabled() {
		return cfg.Warming
	}
	w := &WarmingCfg{}
	w.adjust()
	return w
}

func (cfg *ValidationCfg) adjust() error {
	if cfg.MaxCorruptionRate <= 0 {
		cfg.MaxCorruptionRate = defaultMaxCorruptionRate
	}
	if cfg.MaxExpiryRate <= 0 {
		cfg.MaxExpiryRate = defaultMaxExpiryRate
	}
	if cfg.MinTokenEfficiency <= 0 {
		cfg.MinTokenEfficiency = defaultMinTokenEfficiency
	}
	if cfg.MaxEntryAgeHours <= 0 {
		cfg.MaxEntryAgeHours = defaultMaxEntryAgeHours
	}
	if cfg.MaxEntrySize == "" {
		cfg.MaxEntrySize = defaultMaxEntrySize
	}
	size, err := bytes.ParseSize(cfg.MaxEntrySize)
	if err != nil {
		return fmt.Errorf("validation.max_entry_size: %w", err)
	}
	cfg.MaxEntrySizeBytes = size
	switch cfg.Level {
	case "":
		cfg.Level = ValidationStandard
	case ValidationBasic, ValidationStandard, ValidationComprehensive:
	default:
		return fmt.Errorf("validation.level: unknown level %q", cfg.Level)
	}
	return nil
}

func (cfg *WarmingCfg) adjust() {
	if cfg.TargetHitRate <= 0 || cfg.TargetHitRate > 1 {
		cfg.TargetHitRate = defaultTargetHitRate
	}
	if cfg.WarmingBatchSize <= 0 {
		cfg.WarmingBatchSize = defaultBatchSize
	}
	if cfg.MaxQueries <= 0 {
		cfg.MaxQueries = defaultMaxQueries
	}
	if cfg.HardCap <= 0 {
		cfg.HardCap = defaultHardCap
	}
	if cfg.HardCap < cfg.MaxQueries {
		cfg.HardCap = cfg.MaxQueries
	}
	if cfg.HighWaterMark <= 0 || cfg.HighWaterMark > 1 {
		cfg.HighWaterMark = defaultHighWaterMark
	}
	if cfg.Rate <= 0 {
		cfg.Rate = defaultWarmRate
	}
	if cfg.BatchPause < 0 {
		cfg.BatchPause = 0
	} else if cfg.BatchPause == 0 {
		cfg.BatchPause = defaultBatchPause
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
}

func LoadConfig(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Cache
	if err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if cfg == nil {
		cfg = &Cache{}
	}
	if err = cfg.AdjustConfig(); err != nil {
		return nil, fmt.Errorf("adjust config from %s: %w", path, err)
	}

	return cfg, nil
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
