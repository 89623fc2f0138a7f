package bloom

// sketch is a count-min sketch of 4-bit counters, 16 packed per word. Each key
// touches four cells derived from one hash; the estimate is their minimum.
// Once resetAt increments have happened every counter is halved.
type sketch struct {
	words   []uint64
	mask    uint32
	adds    uint64
	resetAt uint64
}

const (
	nibble        = 0xF
	halveMask     = 0x7777777777777777
	defaultSample = 10
)

func (s *sketch) init(counters uint32, sampleMultiplier uint32) {
	if counters == 0 || counters&(counters-1) != 0 {
		panic("bloom: counters must be a non-zero power of two")
	}
	s.words = make([]uint64, (uint64(counters)+15)/16)
	s.mask = counters - 1
	if sampleMultiplier == 0 {
		sampleMultiplier = defaultSample
	}
	s.resetAt = uint64(sampleMultiplier) * uint64(counters)
	s.adds = 0
}

func (s *sketch) cells(h uint64) [4]uint32 {
	var out [4]uint32
	for i := range out {
		out[i] = uint32(h) & s.mask
		h = mix64(h)
	}
	return out
}

func (s *sketch) increment(h uint64) {
	for _, idx := range s.cells(h) {
		w, sh := idx>>4, uint(idx&0xF)<<2
		if (s.words[w]>>sh)&nibble != nibble {
			s.words[w] += 1 << sh
		}
	}
	if s.adds++; s.adds >= s.resetAt {
		s.halve()
	}
}

func (s *sketch) estimate(h uint64) uint8 {
	lowest := uint8(nibble)
	for _, idx := range s.cells(h) {
		w, sh := idx>>4, uint(idx&0xF)<<2
		if c := uint8((s.words[w] >> sh) & nibble); c < lowest {
			lowest = c
		}
	}
	return lowest
}

func (s *sketch) halve() {
	for i := range s.words {
		s.words[i] = (s.words[i] >> 1) & halveMask
	}
	s.adds = 0
}

func (s *sketch) clear() {
	clear(s.words)
	s.adds = 0
}
