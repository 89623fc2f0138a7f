package strategy

import (
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"time"
)

// Recency evicts the least recently used entries and admits everything.
type Recency struct{}

func NewRecency() *Recency { return &Recency{} }

func (r Recency) Name() string { return string(config.StrategyRecency) }

func (r Recency) ShouldEvict(st State) []string { return evictLowest(r, st, st.BytesNeeded) }

func (r Recency) ShouldAdmit(string, AdmitContext) bool { return true }

func (r Recency) PriorityScore(e model.Snapshot, _ time.Time) float64 {
	return float64(e.LastUse().UnixNano())
}
