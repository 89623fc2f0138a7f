package strategy

import (
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"time"
)

// efficiencyWatermark is the share of the byte budget TokenEfficiency frees down to.
const efficiencyWatermark = 0.8

// TokenEfficiency evicts entries that carry the fewest tokens per KiB, discounted
// by how long ago they were last used.
type TokenEfficiency struct {
	minEfficiency float64
}

func NewTokenEfficiency(minEfficiency float64) *TokenEfficiency {
	return &TokenEfficiency{minEfficiency: minEfficiency}
}

func (t *TokenEfficiency) Name() string { return string(config.StrategyTokenEfficiency) }

// ShouldEvict frees at least BytesNeeded and, once usage is above 80% of the
// budget, enough to bring it back down to 80%.
func (t *TokenEfficiency) ShouldEvict(st State) []string {
	toFree := st.BytesNeeded
	if over := st.UsedBytes - int64(float64(st.MaxBytes)*efficiencyWatermark); over > toFree {
		toFree = over
	}
	return evictLowest(t, st, toFree)
}

func (t *TokenEfficiency) ShouldAdmit(_ string, ac AdmitContext) bool {
	return model.TokenEfficiency(ac.Tokens, ac.Size) >= t.minEfficiency
}

func (t *TokenEfficiency) PriorityScore(e model.Snapshot, now time.Time) float64 {
	return e.TokenEfficiency() / (1 + hoursSince(e.LastUse(), now))
}
