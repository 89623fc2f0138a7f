package strategy

import (
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"math"
	"time"
)

const (
	hitWeight        = 0.5
	efficiencyWeight = 0.3
	footprintWeight  = 0.2

	// keepShare is the share of the byte budget a variant keeps when scored.
	keepShare = 0.8
	// efficiencyCeiling normalizes tokens per KiB into [0, 1].
	efficiencyCeiling = 100.0

	defaultEvaluationInterval = 5 * time.Minute
)

// Adaptive delegates to one of the fixed strategies and periodically switches
// to whichever would have kept the most valuable working set.
type Adaptive struct {
	variants []Strategy
	active   Strategy
	interval time.Duration
	lastEval time.Time
	switches []Switch
}

func NewAdaptive(opts Options) *Adaptive {
	interval := opts.EvaluationInterval
	if interval <= 0 {
		interval = defaultEvaluationInterval
	}
	recency := NewRecency()
	return &Adaptive{
		variants: []Strategy{
			recency,
			NewFrequency(opts.Admission),
			NewTokenEfficiency(opts.MinTokenEfficiency),
		},
		active:   recency,
		interval: interval,
	}
}

func (a *Adaptive) Name() string { return string(config.StrategyAdaptive) }

// Active returns the name of the strategy currently making decisions.
func (a *Adaptive) Active() string { return a.active.Name() }

// Observe feeds every variant that learns from lookups, not only the active one,
// so a switch does not start from a cold sketch.
func (a *Adaptive) Observe(keyHash uint64) {
	for _, v := range a.variants {
		if o, ok := v.(Observer); ok {
			o.Observe(keyHash)
		}
	}
}

func (a *Adaptive) ShouldEvict(st State) []string {
	a.MaybeEvaluate(st)
	return a.active.ShouldEvict(st)
}

func (a *Adaptive) ShouldAdmit(content string, ac AdmitContext) bool {
	return a.active.ShouldAdmit(content, ac)
}

func (a *Adaptive) PriorityScore(e model.Snapshot, now time.Time) float64 {
	return a.active.PriorityScore(e, now)
}

// MaybeEvaluate re-scores the variants once per evaluation interval. Returns
// true when the active strategy changed.
func (a *Adaptive) MaybeEvaluate(st State) bool {
	if a.lastEval.IsZero() {
		a.lastEval = st.Now
		return false
	}
	if st.Now.Sub(a.lastEval) < a.interval {
		return false
	}
	return a.Evaluate(st)
}

// Evaluate scores every variant on the current entries and switches to the best
// one when it strictly beats the active strategy.
func (a *Adaptive) Evaluate(st State) bool {
	a.lastEval = st.Now

	best, bestScore := a.active, Score(a.active, st)
	scores := make(map[string]float64, len(a.variants))
	scores[best.Name()] = bestScore
	for _, v := range a.variants {
		if v == a.active {
			continue
		}
		s := Score(v, st)
		scores[v.Name()] = s
		if s > bestScore {
			best, bestScore = v, s
		}
	}
	if best == a.active {
		return false
	}

	a.switches = append(a.switches, Switch{
		From:    a.active.Name(),
		To:      best.Name(),
		Scores:  scores,
		Entries: len(st.Entries),
	})
	a.active = best
	return true
}

// Switches hands the recorded policy changes to the caller, which logs them
// once it no longer holds the table lock.
func (a *Adaptive) Switches() []Switch {
	out := a.switches
	a.switches = nil
	return out
}

// Score estimates how well s would have served the current entries: it keeps the
// entries s values most until 80% of the budget is used and blends the share of
// accesses that kept set serves, its token efficiency and the memory it leaves free.
func Score(s Strategy, st State) float64 {
	if len(st.Entries) == 0 || st.MaxBytes <= 0 {
		return 0
	}
	ranked := rank(s, st.Entries, st.Now)
	budget := int64(float64(st.MaxBytes) * keepShare)

	var keptBytes, keptTokens, keptAccesses, allAccesses int64
	for _, r := range ranked {
		allAccesses += r.entry.AccessCount
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		e := ranked[i].entry
		if keptBytes+e.Size > budget {
			break
		}
		keptBytes += e.Size
		keptTokens += int64(e.Tokens)
		keptAccesses += e.AccessCount
	}

	var hit float64
	if allAccesses > 0 {
		hit = float64(keptAccesses) / float64(allAccesses)
	}
	eff := math.Min(1, model.TokenEfficiency(int(keptTokens), keptBytes)/efficiencyCeiling)
	footprint := 1 - float64(keptBytes)/float64(st.MaxBytes)

	return hitWeight*hit + efficiencyWeight*eff + footprintWeight*footprint
}
