package evictor

import "sync/atomic"

// Metrics is a point-in-time copy of the worker counters.
type Metrics struct {
	Scans      int64 `json:"scans"`
	Passes     int64 `json:"passes"`
	Expired    int64 `json:"expired"`
	Evicted    int64 `json:"evicted"`
	FreedBytes int64 `json:"freed_bytes"`
	Switches   int64 `json:"strategy_switches"`
}

type evictorCounters struct {
	scans      atomic.Int64
	passes     atomic.Int64
	expired    atomic.Int64
	evicted    atomic.Int64
	freedBytes atomic.Int64
	switches   atomic.Int64
}

func (c *evictorCounters) snapshot() Metrics {
	return Metrics{
		Scans:      c.scans.Load(),
		Passes:     c.passes.Load(),
		Expired:    c.expired.Load(),
		Evicted:    c.evicted.Load(),
		FreedBytes: c.freedBytes.Load(),
		Switches:   c.switches.Load(),
	}
}

func newEvictorCounters() *evictorCounters {
	return &evictorCounters{}
}
