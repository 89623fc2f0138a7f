package evictor

import "time"

// NoOpEvictor is used when eviction is not configured. It never optimizes and reports zero metrics.
type NoOpEvictor struct{}

func (NoOpEvictor) ForceCall(time.Duration) error { return nil }

func (NoOpEvictor) Metrics() Metrics { return Metrics{} }

func (NoOpEvictor) Close() error { return nil }
