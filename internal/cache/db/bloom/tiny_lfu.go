package bloom

import "github.com/perezable/hyper8-FACT-sub000/config"

type TinyLFU struct {
	sketch sketch
	door   doorkeeper
}

func newTinyLFU(cfg *config.AdmissionControlCfg) *TinyLFU {
	counters := nextPow2(max(cfg.Capacity, 16))
	t := &TinyLFU{}
	t.sketch.init(uint32(counters), uint32(max(cfg.SampleMultiplier, 0)))
	t.door.init(uint32(counters * max(cfg.DoorBitsPerCounter, 1)))
	return t
}

func (t *TinyLFU) Record(h uint64) {
	if t.door.seenOrAdd(h) {
		t.sketch.increment(h)
	}
}

// Allow rejects candidates the doorkeeper has never seen and otherwise requires
// a strictly higher estimate than the victim, so ties keep the incumbent.
func (t *TinyLFU) Allow(candidate, victim uint64) bool {
	if candidate == victim {
		return true
	}
	if !t.door.has(candidate) {
		return false
	}
	return t.sketch.estimate(candidate) > t.sketch.estimate(victim)
}

func (t *TinyLFU) Estimate(h uint64) uint8 { return t.sketch.estimate(h) }

func (t *TinyLFU) Seen(h uint64) bool { return t.door.has(h) }

func (t *TinyLFU) Reset() {
	t.sketch.clear()
	t.door.reset()
}
