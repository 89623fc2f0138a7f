package cache

import "github.com/perezable/hyper8-FACT-sub000/internal/strategy"

// OptimizeResult describes one optimizer pass.
type OptimizeResult struct {
	Expired    int    `json:"expired"`
	Evicted    int    `json:"evicted"`
	FreedBytes int64  `json:"freed_bytes"`
	Strategy   string `json:"strategy"`
	Switched   bool   `json:"switched"`
}

// Optimize drops expired and soft-deleted entries, gives an adaptive strategy the
// chance to re-evaluate and evicts down to the soft memory limit when it is exceeded.
func (m *Manager) Optimize() OptimizeResult {
	now := m.clock.Now()

	m.mu.Lock()
	var res OptimizeResult
	before := m.table.Mem()
	evicted := m.removeKeys(m.staleKeys(now), &m.counters.reclaimedExpired)
	res.Expired = len(evicted)

	st := m.state(now)
	if ev, ok := m.strategy.(strategy.Evaluator); ok {
		res.Switched = ev.MaybeEvaluate(st)
	}
	if soft := m.softLimit(); soft > 0 && m.table.Mem() > soft {
		st.BytesNeeded = m.table.Mem() - soft
		victims := m.removeKeys(m.strategy.ShouldEvict(st), &m.counters.evictedStrategy)
		res.Evicted = len(victims)
		evicted = append(evicted, victims...)
	}
	res.FreedBytes = before - m.table.Mem()
	res.Strategy = m.strategyName()
	switches := m.drainSwitches()
	m.mu.Unlock()

	m.reportEvictions(evicted, now)
	m.logSwitches(switches)
	return res
}

func (m *Manager) softLimit() int64 {
	if m.cfg.Eviction.Enabled() {
		return m.cfg.Eviction.SoftMemoryLimitBytes
	}
	return 0
}
