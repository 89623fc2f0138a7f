package bloom

// doorkeeper is a three-probe bloom filter in front of the sketch: the first
// sighting of a key only sets its bits, later ones reach the counters.
type doorkeeper struct {
	bits []uint64
	mask uint32
}

func (d *doorkeeper) init(totalBits uint32) {
	n := nextPow2(int(max(totalBits, 64)))
	d.bits = make([]uint64, n/64)
	d.mask = uint32(n - 1)
}

func (d *doorkeeper) probes(h uint64) [3]uint32 {
	var out [3]uint32
	for i := range out {
		out[i] = uint32(h) & d.mask
		h = mix64(h)
	}
	return out
}

func (d *doorkeeper) has(h uint64) bool {
	for _, i := range d.probes(h) {
		if d.bits[i>>6]&(1<<(i&63)) == 0 {
			return false
		}
	}
	return true
}

// seenOrAdd reports whether h was already present, adding it otherwise.
func (d *doorkeeper) seenOrAdd(h uint64) bool {
	if d.has(h) {
		return true
	}
	for _, i := range d.probes(h) {
		d.bits[i>>6] |= 1 << (i & 63)
	}
	return false
}

func (d *doorkeeper) reset() { clear(d.bits) }
