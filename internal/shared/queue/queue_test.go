package queue

import (
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

// TestRing_Init_MinSize verifies that Init enforces a minimum size.
func TestRing_Init_MinSize(t *testing.T) {
	r := NewRing[int](0)
	require.Equal(t, 1, r.Cap())
	require.Equal(t, 0, r.Len())
}

// TestRing_PushValues verifies FIFO order before the ring fills up.
func TestRing_PushValues(t *testing.T) {
	r := NewRing[int](4)
	for i := 1; i <= 3; i++ {
		require.False(t, r.Push(i))
	}
	require.Equal(t, []int{1, 2, 3}, r.Values())
	require.Equal(t, 3, r.Len())
}

// TestRing_DropsOldest verifies that a full ring drops its oldest elements.
func TestRing_DropsOldest(t *testing.T) {
	r := NewRing[int](3)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	require.True(t, r.Push(4))
	require.True(t, r.Push(5))
	require.Equal(t, []int{3, 4, 5}, r.Values())
	require.Equal(t, 3, r.Len())
}

// TestRing_Last verifies newest-first retrieval.
func TestRing_Last(t *testing.T) {
	r := NewRing[string](3)
	for _, s := range []string{"a", "b", "c", "d"} {
		r.Push(s)
	}
	require.Equal(t, []string{"d", "c"}, r.Last(2))
	require.Equal(t, []string{"d", "c", "b"}, r.Last(10))
	require.Nil(t, r.Last(0))
}

// TestRing_Reset verifies that Reset empties the ring.
func TestRing_Reset(t *testing.T) {
	r := NewRing[int](2)
	r.Push(1)
	r.Reset()
	require.Equal(t, 0, r.Len())
	require.Empty(t, r.Values())
}

// TestRing_ConcurrentPush verifies the ring stays bounded under concurrent writers.
func TestRing_ConcurrentPush(t *testing.T) {
	r := NewRing[int](64)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				r.Push(i)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 64, r.Len())
	require.Len(t, r.Values(), 64)
}
