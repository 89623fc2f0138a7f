// Package bloom implements the TinyLFU frequency sketch used by the frequency
// eviction strategy to tell recurring queries from one-off ones.
//
// Nothing here is synchronized: the cache manager consults the sketch only
// while holding its table lock.
package bloom

import "github.com/perezable/hyper8-FACT-sub000/config"

type AdmissionControl interface {
	// Record observes one lookup of the key hash h.
	Record(h uint64)
	// Allow reports whether candidate is strictly more popular than victim.
	Allow(candidate, victim uint64) bool
	// Estimate returns the approximate lookup frequency of h (0..15).
	Estimate(h uint64) uint8
	// Seen reports whether h was probably observed at least once.
	Seen(h uint64) bool
	Reset()
}

func NewAdmissionControl(cfg *config.AdmissionControlCfg) AdmissionControl {
	if cfg.Enabled() {
		return newTinyLFU(cfg)
	}
	return newNoOp()
}
