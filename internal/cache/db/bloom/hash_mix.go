package bloom

func nextPow2(x int) int {
	n := 1
	for n < x {
		n <<= 1
	}
	return n
}

// mix64 is the SplitMix64 finalizer; it derives independent probe positions from one hash.
func mix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
