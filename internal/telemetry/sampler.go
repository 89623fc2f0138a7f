package telemetry

import (
	"github.com/perezable/hyper8-FACT-sub000/internal/evictor"
	"github.com/perezable/hyper8-FACT-sub000/internal/lifetimer"
	"github.com/perezable/hyper8-FACT-sub000/internal/warmer"
)

type sampler struct {
	cache     CacheSource
	metrics   MetricsSource
	evictor   evictor.Evictor
	lifetimer lifetimer.Lifetimer
	warming   warmer.Scheduler
}

func newSampler(c CacheSource, m MetricsSource, e evictor.Evictor, lt lifetimer.Lifetimer, ws warmer.Scheduler) sampler {
	return sampler{cache: c, metrics: m, evictor: e, lifetimer: lt, warming: ws}
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	gets   uint64
	hits   uint64
	misses uint64
	stores uint64

	rejected      uint64
	rejectedAdmit uint64

	reclaimed uint64
	evicted   uint64
	emergency uint64

	optimizerPasses uint64
	optimizerFreed  uint64
	switches        uint64

	sweeps   uint64
	issues   uint64
	repaired uint64

	warmRuns   uint64
	warmed     uint64
	warmFailed uint64
}

func u(v int64) uint64 { return uint64(max(v, 0)) }

func (s sampler) snapshot() snapshot {
	c := s.cache.Counters()
	t := s.metrics.Totals()
	ev := s.evictor.Metrics()
	lt := s.lifetimer.Metrics()
	runs, warmed, failed := s.warming.Metrics()

	return snapshot{
		gets:   u(t.Gets),
		hits:   u(t.Hits),
		misses: u(t.Misses),
		stores: u(c.Stores),

		rejected:      u(c.Rejected()),
		rejectedAdmit: u(c.RejectedAdmission),

		reclaimed: u(c.ReclaimedExpired),
		evicted:   u(c.EvictedStrategy),
		emergency: u(c.EvictedEmergency),

		optimizerPasses: u(ev.Passes),
		optimizerFreed:  u(ev.FreedBytes),
		switches:        u(ev.Switches),

		sweeps:   u(lt.Sweeps),
		issues:   u(lt.Issues),
		repaired: u(lt.Repaired),

		warmRuns:   u(runs),
		warmed:     u(warmed),
		warmFailed: u(failed),
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		gets:   delta(prev.gets, cur.gets),
		hits:   delta(prev.hits, cur.hits),
		misses: delta(prev.misses, cur.misses),
		stores: delta(prev.stores, cur.stores),

		rejected:      delta(prev.rejected, cur.rejected),
		rejectedAdmit: delta(prev.rejectedAdmit, cur.rejectedAdmit),

		reclaimed: delta(prev.reclaimed, cur.reclaimed),
		evicted:   delta(prev.evicted, cur.evicted),
		emergency: delta(prev.emergency, cur.emergency),

		optimizerPasses: delta(prev.optimizerPasses, cur.optimizerPasses),
		optimizerFreed:  delta(prev.optimizerFreed, cur.optimizerFreed),
		switches:        delta(prev.switches, cur.switches),

		sweeps:   delta(prev.sweeps, cur.sweeps),
		issues:   delta(prev.issues, cur.issues),
		repaired: delta(prev.repaired, cur.repaired),

		warmRuns:   delta(prev.warmRuns, cur.warmRuns),
		warmed:     delta(prev.warmed, cur.warmed),
		warmFailed: delta(prev.warmFailed, cur.warmFailed),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}

// hitRate of an interval; zero when nothing was read.
func (s snapshot) hitRate() float64 {
	if s.gets == 0 {
		return 0
	}
	return float64(s.hits) / float64(s.gets)
}
