package config

import "time"

// ValidationLevel selects how many checks the validator runs.
type ValidationLevel string

const (
	ValidationBasic         ValidationLevel = "basic"
	ValidationStandard      ValidationLevel = "standard"
	ValidationComprehensive ValidationLevel = "comprehensive"
)

type ValidationCfg struct {
	MaxCorruptionRate  float64 `yaml:"max_corruption_rate"`
	MaxExpiryRate      float64 `yaml:"max_expiry_rate"`
	MinTokenEfficiency float64 `yaml:"min_token_efficiency"`
	MaxEntryAgeHours   float64 `yaml:"max_entry_age_hours"`

	// MaxEntrySize flags oversized, rarely used entries at the comprehensive level, e.g. "64KB".
	MaxEntrySize string `yaml:"max_entry_size"`

	// Level and Interval drive the periodic validation sweep. Interval 0 disables the sweep.
	Level    ValidationLevel `yaml:"level"`
	Interval time.Duration   `yaml:"interval"`

	// AutoRepair removes critical and expired entries after each periodic sweep.
	AutoRepair bool `yaml:"auto_repair"`

	// MaxEntrySizeBytes is derived during AdjustConfig.
	MaxEntrySizeBytes int64 `yaml:"-"`
}

func (cfg *ValidationCfg) Enabled() bool {
	return cfg != nil
}
