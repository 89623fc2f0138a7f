package lifetimer

import (
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

// TestNoOpLifetimer verifies that the no-op lifetimer reports nothing and never fails.
func TestNoOpLifetimer(t *testing.T) {
	var lt NoOpLifetimer

	require.NoError(t, lt.ForceCall(time.Second))
	require.Equal(t, Metrics{}, lt.Metrics())
	_, ok := lt.Last()
	require.False(t, ok)
	require.NoError(t, lt.Close())
}
