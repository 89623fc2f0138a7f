package cache

import "sync/atomic"

type counters struct {
	stores            atomic.Int64
	replaced          atomic.Int64
	rejectedEmpty     atomic.Int64
	rejectedSecurity  atomic.Int64
	rejectedAdmission atomic.Int64
	rejectedMinTokens atomic.Int64
	rejectedSize      atomic.Int64
	expiredOnGet      atomic.Int64
	reclaimedExpired  atomic.Int64
	evictedStrategy   atomic.Int64
	evictedEmergency  atomic.Int64
	invalidated       atomic.Int64
}

func newCounters() *counters { return &counters{} }

// Counters is a point-in-time copy of the manager's lifetime counters.
type Counters struct {
	Stores            int64 `json:"stores"`
	Replaced          int64 `json:"replaced"`
	RejectedEmpty     int64 `json:"rejected_empty"`
	RejectedSecurity  int64 `json:"rejected_security"`
	RejectedAdmission int64 `json:"rejected_admission"`
	RejectedMinTokens int64 `json:"rejected_min_tokens"`
	RejectedSize      int64 `json:"rejected_size"`
	ExpiredOnGet      int64 `json:"expired_on_get"`
	ReclaimedExpired  int64 `json:"reclaimed_expired"`
	EvictedStrategy   int64 `json:"evicted_strategy"`
	EvictedEmergency  int64 `json:"evicted_emergency"`
	Invalidated       int64 `json:"invalidated"`
}

func (c Counters) Rejected() int64 {
	return c.RejectedEmpty + c.RejectedSecurity + c.RejectedAdmission + c.RejectedMinTokens + c.RejectedSize
}

func (c Counters) Evicted() int64 { return c.ReclaimedExpired + c.EvictedStrategy + c.EvictedEmergency }

func (c *counters) snapshot() Counters {
	return Counters{
		Stores:            c.stores.Load(),
		Replaced:          c.replaced.Load(),
		RejectedEmpty:     c.rejectedEmpty.Load(),
		RejectedSecurity:  c.rejectedSecurity.Load(),
		RejectedAdmission: c.rejectedAdmission.Load(),
		RejectedMinTokens: c.rejectedMinTokens.Load(),
		RejectedSize:      c.rejectedSize.Load(),
		ExpiredOnGet:      c.expiredOnGet.Load(),
		ReclaimedExpired:  c.reclaimedExpired.Load(),
		EvictedStrategy:   c.evictedStrategy.Load(),
		EvictedEmergency:  c.evictedEmergency.Load(),
		Invalidated:       c.invalidated.Load(),
	}
}
