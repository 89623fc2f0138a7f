package history

import (
	"context"
	"fmt"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func stores(t *testing.T, capacity int) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"), capacity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemory(capacity),
		"sqlite": sq,
	}
}

// TestStore_RecentNewestFirst verifies ordering and blank-query skipping for both stores.
func TestStore_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t, 10) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Record(ctx, "first", t0))
			require.NoError(t, s.Record(ctx, "   ", t0))
			require.NoError(t, s.Record(ctx, " second ", t0.Add(time.Second)))
			require.NoError(t, s.Record(ctx, "third", t0.Add(2*time.Second)))

			got, err := s.Recent(ctx, 2)
			require.NoError(t, err)
			require.Equal(t, []string{"third", "second"}, got)

			recs, err := s.Records(ctx, 0)
			require.NoError(t, err)
			require.Len(t, recs, 3)
			require.True(t, recs[0].At.Equal(t0.Add(2*time.Second)))

			n, err := s.Len(ctx)
			require.NoError(t, err)
			require.Equal(t, 3, n)
		})
	}
}

// TestStore_Capacity verifies that the oldest queries are dropped beyond capacity.
func TestStore_Capacity(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t, 3) {
		t.Run(name, func(t *testing.T) {
			for i := range 5 {
				require.NoError(t, s.Record(ctx, fmt.Sprintf("q%d", i), t0.Add(time.Duration(i)*time.Second)))
			}
			n, err := s.Len(ctx)
			require.NoError(t, err)
			require.Equal(t, 3, n)

			got, err := s.Recent(ctx, 10)
			require.NoError(t, err)
			require.Equal(t, []string{"q4", "q3", "q2"}, got)
		})
	}
}

// TestSQLite_Persists verifies that history survives reopening the database.
func TestSQLite_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := OpenSQLite(path, 10)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, "What was Apple's revenue?", t0))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path, 10)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"What was Apple's revenue?"}, got)
}

// TestMemory_Closed verifies that a closed memory store refuses work.
func TestMemory_Closed(t *testing.T) {
	m := NewMemory(2)
	require.NoError(t, m.Close())
	require.ErrorIs(t, m.Record(context.Background(), "q", t0), ErrClosed)
	_, err := m.Recent(context.Background(), 1)
	require.ErrorIs(t, err, ErrClosed)
}

// TestNew verifies store selection from config.
func TestNew(t *testing.T) {
	s, err := New(nil)
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)
	require.Equal(t, config.DefaultHistoryCapacity, s.(*Memory).ring.Cap())

	s, err = New(&config.HistoryCfg{Capacity: 5})
	require.NoError(t, err)
	require.Equal(t, 5, s.(*Memory).ring.Cap())

	s, err = New(&config.HistoryCfg{DBPath: filepath.Join(t.TempDir(), "h.db")})
	require.NoError(t, err)
	defer s.Close()
	require.IsType(t, &SQLite{}, s)
}
