package bloom

import (
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
	"testing"
)

var cfgTest = &config.AdmissionControlCfg{
	Capacity:           1024,
	SampleMultiplier:   10,
	DoorBitsPerCounter: 8,
}

func record(a AdmissionControl, h uint64, times int) {
	for range times {
		a.Record(h)
	}
}

// TestTinyLFU_FirstSightingOnlyOpensTheDoor verifies a single lookup does not reach the sketch.
func TestTinyLFU_FirstSightingOnlyOpensTheDoor(t *testing.T) {
	a := NewAdmissionControl(cfgTest)

	require.False(t, a.Seen(42))
	a.Record(42)
	require.True(t, a.Seen(42))
	require.Equal(t, uint8(0), a.Estimate(42))

	a.Record(42)
	require.Equal(t, uint8(1), a.Estimate(42))
}

// TestTinyLFU_Allow prefers the strictly more frequent key.
func TestTinyLFU_Allow(t *testing.T) {
	a := NewAdmissionControl(cfgTest)
	hot, cold, unseen := uint64(1001), uint64(2002), uint64(3003)

	record(a, hot, 6)
	record(a, cold, 2)

	require.True(t, a.Allow(hot, cold))
	require.False(t, a.Allow(cold, hot))
	require.False(t, a.Allow(unseen, cold), "unseen candidates are rejected")
	require.True(t, a.Allow(cold, cold))
}

// TestTinyLFU_Saturates caps counters at 15.
func TestTinyLFU_Saturates(t *testing.T) {
	a := NewAdmissionControl(cfgTest)
	record(a, 7, 100)
	require.Equal(t, uint8(15), a.Estimate(7))
}

// TestSketch_Aging halves every counter once the sample window is reached.
func TestSketch_Aging(t *testing.T) {
	var s sketch
	s.init(16, 1) // window of 16 increments

	for range 15 {
		s.increment(9)
	}
	require.Equal(t, uint8(15), s.estimate(9))

	s.increment(9)
	require.Equal(t, uint8(7), s.estimate(9))
	require.Zero(t, s.adds)
}

// TestTinyLFU_Reset forgets everything.
func TestTinyLFU_Reset(t *testing.T) {
	a := NewAdmissionControl(cfgTest)
	record(a, 5, 4)
	a.Reset()
	require.False(t, a.Seen(5))
	require.Zero(t, a.Estimate(5))
}

// TestTinyLFU_NeverUnderestimates checks the count-min guarantee before aging kicks in.
func TestTinyLFU_NeverUnderestimates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := NewAdmissionControl(cfgTest)
		keys := rapid.SliceOfN(rapid.Uint64(), 1, 50).Draw(t, "keys")
		counts := make(map[uint64]int)
		for _, k := range keys {
			a.Record(k)
			counts[k]++
		}
		for k, n := range counts {
			want := min(n-1, 15)
			if got := int(a.Estimate(k)); got < want {
				t.Fatalf("estimate %d for key %d below true count %d", got, k, want)
			}
		}
	})
}

// TestNoOp_AdmitsEverything covers the disabled configuration.
func TestNoOp_AdmitsEverything(t *testing.T) {
	a := NewAdmissionControl(nil)
	a.Record(1)
	require.True(t, a.Allow(1, 2))
	require.True(t, a.Seen(99))
	require.Zero(t, a.Estimate(1))
	a.Reset()
}
