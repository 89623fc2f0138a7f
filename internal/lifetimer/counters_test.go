package lifetimer

import (
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

// TestLifetimerCounters_Concurrent verifies that all concurrent increments are reflected in the snapshot.
func TestLifetimerCounters_Concurrent(t *testing.T) {
	c := newLifetimerCounters()

	const goroutines = 8
	const ops = 100

	var wg sync.WaitGroup
	for range goroutines {
		wg.Go(func() {
			for range ops {
				c.sweeps.Add(1)
				c.issues.Add(3)
			}
		})
	}
	wg.Wait()

	m := c.snapshot()
	require.Equal(t, int64(goroutines*ops), m.Sweeps)
	require.Equal(t, int64(3*goroutines*ops), m.Issues)
	require.Zero(t, m.Errors)
}
