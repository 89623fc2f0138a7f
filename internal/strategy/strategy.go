// Package strategy holds the eviction and admission policies consulted by the
// cache manager. Policies are called while the manager holds its table lock and
// must not call back into the cache or log.
package strategy

import (
	"errors"
	"fmt"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"slices"
	"time"
)

var ErrUnknownStrategy = errors.New("unknown eviction strategy")

// Strategy decides which entries to evict and whether new content may enter.
type Strategy interface {
	Name() string
	// ShouldEvict returns the keys to remove, lowest priority first.
	ShouldEvict(st State) []string
	// ShouldAdmit gates every store before the token floor is checked.
	ShouldAdmit(content string, ac AdmitContext) bool
	// PriorityScore orders entries for eviction; higher means keep longer.
	PriorityScore(e model.Snapshot, now time.Time) float64
}

// Observer is implemented by strategies that learn from lookups.
type Observer interface {
	Observe(keyHash uint64)
}

// Evaluator is implemented by strategies that periodically re-decide their policy.
type Evaluator interface {
	MaybeEvaluate(st State) bool
	// Switches returns the policy changes made since the previous call and forgets them.
	Switches() []Switch
}

// Switch records one change of the active policy.
type Switch struct {
	From    string
	To      string
	Scores  map[string]float64
	Entries int
}

// State is the view of the table passed to ShouldEvict.
type State struct {
	Entries   []model.Snapshot
	UsedBytes int64
	MaxBytes  int64
	// MaxEntries caps how many entries may remain after eviction. Zero means unlimited.
	MaxEntries int
	// BytesNeeded is the minimum number of bytes the caller needs freed.
	BytesNeeded int64
	Now         time.Time
}

func (st State) Utilization() float64 {
	if st.MaxBytes <= 0 {
		return 0
	}
	return float64(st.UsedBytes) / float64(st.MaxBytes)
}

type AdmitContext struct {
	KeyHash     uint64
	Tokens      int
	Size        int64
	Utilization float64
}

type Options struct {
	MinTokenEfficiency float64
	EvaluationInterval time.Duration
	Admission          *config.AdmissionControlCfg
}

// New builds the strategy registered under name.
func New(name config.StrategyName, opts Options) (Strategy, error) {
	switch name {
	case config.StrategyRecency:
		return NewRecency(), nil
	case config.StrategyFrequency:
		return NewFrequency(opts.Admission), nil
	case config.StrategyTokenEfficiency:
		return NewTokenEfficiency(opts.MinTokenEfficiency), nil
	case config.StrategyAdaptive:
		return NewAdaptive(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// evictLowest takes entries in ascending priority until bytesToFree is released
// and no more than st.MaxEntries remain.
func evictLowest(s Strategy, st State, bytesToFree int64) []string {
	if len(st.Entries) == 0 {
		return nil
	}
	excess := 0
	if st.MaxEntries > 0 && len(st.Entries) > st.MaxEntries {
		excess = len(st.Entries) - st.MaxEntries
	}
	if bytesToFree <= 0 && excess == 0 {
		return nil
	}

	ranked := rank(s, st.Entries, st.Now)
	var (
		freed   int64
		victims []string
	)
	for _, r := range ranked {
		if freed >= bytesToFree && len(victims) >= excess {
			break
		}
		victims = append(victims, r.entry.Key)
		freed += r.entry.Size
	}
	return victims
}

type ranked struct {
	entry model.Snapshot
	score float64
}

// rank orders entries ascending by score; ties go to the less recently used, then the key.
func rank(s Strategy, entries []model.Snapshot, now time.Time) []ranked {
	out := make([]ranked, len(entries))
	for i, e := range entries {
		out[i] = ranked{entry: e, score: s.PriorityScore(e, now)}
	}
	slices.SortFunc(out, func(a, b ranked) int {
		switch {
		case a.score < b.score:
			return -1
		case a.score > b.score:
			return 1
		case a.entry.Older(b.entry):
			return -1
		case b.entry.Older(a.entry):
			return 1
		default:
			return 0
		}
	})
	return out
}

func hoursSince(t, now time.Time) float64 {
	h := now.Sub(t).Hours()
	if h < 0 {
		return 0
	}
	return h
}
