package strategy

import (
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/bloom"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"time"
)

// pressureUtilization is the utilization above which Frequency only admits recurring queries.
const pressureUtilization = 0.9

// Frequency evicts the least accessed entries. Under pressure it admits only
// keys a previous lookup has already asked for.
type Frequency struct {
	sketch bloom.AdmissionControl
}

func NewFrequency(cfg *config.AdmissionControlCfg) *Frequency {
	if !cfg.Enabled() {
		cfg = &config.AdmissionControlCfg{Capacity: 4096, SampleMultiplier: 10, DoorBitsPerCounter: 4}
	}
	return &Frequency{sketch: bloom.NewAdmissionControl(cfg)}
}

func (f *Frequency) Name() string { return string(config.StrategyFrequency) }

func (f *Frequency) Observe(keyHash uint64) { f.sketch.Record(keyHash) }

func (f *Frequency) ShouldEvict(st State) []string { return evictLowest(f, st, st.BytesNeeded) }

func (f *Frequency) ShouldAdmit(_ string, ac AdmitContext) bool {
	if ac.Utilization < pressureUtilization {
		return true
	}
	return f.sketch.Seen(ac.KeyHash)
}

// PriorityScore is the access count plus a recency fraction in (0, 0.5] that
// breaks ties between equally popular entries.
func (f *Frequency) PriorityScore(e model.Snapshot, now time.Time) float64 {
	return float64(e.AccessCount) + 1/(2+hoursSince(e.LastUse(), now))
}
