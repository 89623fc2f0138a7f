package config

import "time"

type DBCfg struct {
	// NamespacePrefix partitions keys; all entries of one cache share it.
	NamespacePrefix string `yaml:"namespace_prefix"`

	// MinTokens is the admission floor: content estimated below it is never stored.
	MinTokens int `yaml:"min_tokens"`

	// MaxSize is the byte budget in human form, e.g. "10MB" or "512KiB".
	MaxSize string `yaml:"max_size"`

	// MaxEntries caps the number of entries (0 = unlimited).
	MaxEntries int `yaml:"max_entries"`

	// TTLSeconds is the maximum age of an entry.
	TTLSeconds int64 `yaml:"ttl_seconds"`

	IsTelemetryLogsEnabled bool          `yaml:"stat_logs_enabled"`
	TelemetryLogsInterval  time.Duration `yaml:"stat_logs_interval"`

	// MaxSizeBytes is derived from MaxSize during AdjustConfig and is not read from YAML.
	MaxSizeBytes int64 `yaml:"-"`

	// TTL is derived from TTLSeconds during AdjustConfig and is not read from YAML.
	TTL time.Duration `yaml:"-"`
}
