package metrics

import "time"

type Kind string

const (
	KindGet        Kind = "get"
	KindStore      Kind = "store"
	KindInvalidate Kind = "invalidate"
	KindEvict      Kind = "evict"
)

// Sample is one cache operation as seen by the collector.
type Sample struct {
	Kind    Kind          `json:"kind"`
	At      time.Time     `json:"at"`
	Latency time.Duration `json:"latency"`
	Success bool          `json:"success"`
	Hit     bool          `json:"hit,omitempty"`
	Tokens  int           `json:"tokens,omitempty"`
	Size    int64         `json:"size,omitempty"`
}

// Usage describes how full the cache is.
type Usage struct {
	Entries     int     `json:"entries"`
	Bytes       int64   `json:"bytes"`
	MaxBytes    int64   `json:"max_bytes"`
	Tokens      int64   `json:"tokens"`
	Utilization float64 `json:"utilization"`
}

func NewUsage(entries int, bytes, maxBytes, tokens int64) Usage {
	u := Usage{Entries: entries, Bytes: bytes, MaxBytes: maxBytes, Tokens: tokens}
	if maxBytes > 0 {
		u.Utilization = float64(bytes) / float64(maxBytes)
	}
	return u
}

// TokensPerKiB is the average token density of the cached content.
func (u Usage) TokensPerKiB() float64 {
	if u.Bytes <= 0 {
		return 0
	}
	return float64(u.Tokens) / (float64(u.Bytes) / 1024)
}

// HourlyBucket aggregates samples recorded during one hour of the epoch.
type HourlyBucket struct {
	Hour         int64         `json:"hour"` // unix seconds / 3600
	Gets         int64         `json:"gets"`
	Hits         int64         `json:"hits"`
	Misses       int64         `json:"misses"`
	Stores       int64         `json:"stores"`
	Failures     int64         `json:"failures"`
	Evictions    int64         `json:"evictions"`
	Tokens       int64         `json:"tokens"`
	TotalLatency time.Duration `json:"total_latency"`
	Samples      int64         `json:"samples"`
}

func (b HourlyBucket) Start() time.Time { return time.Unix(b.Hour*3600, 0).UTC() }

func (b HourlyBucket) MeanLatency() time.Duration {
	if b.Samples == 0 {
		return 0
	}
	return b.TotalLatency / time.Duration(b.Samples)
}

// Totals are lifetime counters since the last Reset.
type Totals struct {
	Gets          int64 `json:"gets"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Stores        int64 `json:"stores"`
	StoreFailures int64 `json:"store_failures"`
	Invalidations int64 `json:"invalidations"`
	Evictions     int64 `json:"evictions"`
	TokensServed  int64 `json:"tokens_served"`
	TokensStored  int64 `json:"tokens_stored"`
	BytesStored   int64 `json:"bytes_stored"`
}

func (t Totals) HitRate() float64 {
	if t.Gets == 0 {
		return 0
	}
	return float64(t.Hits) / float64(t.Gets)
}
