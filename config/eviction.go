package config

import "time"

// StrategyName selects an eviction strategy.
type StrategyName string

const (
	StrategyRecency         StrategyName = "lru"
	StrategyFrequency       StrategyName = "lfu"
	StrategyTokenEfficiency StrategyName = "token_efficiency"
	StrategyAdaptive        StrategyName = "adaptive"
)

type EvictionCfg struct {
	// Strategy is one of "lru", "lfu", "token_efficiency", "adaptive".
	Strategy StrategyName `yaml:"strategy"`

	// SoftLimitCoefficient defines the proactive eviction threshold as a fraction of DB.MaxSizeBytes.
	//
	// Example:
	//   SoftLimitCoefficient: 0.80 // optimizer starts evicting after reaching 80% of the budget
	SoftLimitCoefficient float64 `yaml:"soft_limit_coefficient"`

	// OptimizeInterval is how often the background optimizer runs.
	OptimizeInterval time.Duration `yaml:"optimize_interval"`

	// EvaluationInterval is how often the adaptive strategy re-scores its variants.
	EvaluationInterval time.Duration `yaml:"evaluation_interval"`

	// SoftMemoryLimitBytes is derived during AdjustConfig. It is not read from YAML.
	SoftMemoryLimitBytes int64 `yaml:"-"`
}

func (cfg *EvictionCfg) Enabled() bool {
	return cfg != nil
}
