package cache

import (
	"context"
	"fmt"
	"github.com/perezable/hyper8-FACT-sub000/internal/strategy"
	"github.com/stretchr/testify/require"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// stallingHandler blocks the goroutine that logs msg until release is closed.
type stallingHandler struct {
	msg     string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newStallingHandler(msg string) *stallingHandler {
	return &stallingHandler{msg: msg, entered: make(chan struct{}), release: make(chan struct{})}
}

func (h *stallingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *stallingHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Message == h.msg {
		h.once.Do(func() { close(h.entered) })
		<-h.release
	}
	return nil
}

func (h *stallingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *stallingHandler) WithGroup(string) slog.Handler      { return h }

// requireUnlocked fails when the manager lock cannot be taken while a log record is stalled.
func requireUnlocked(t *testing.T, m *Manager, h *stallingHandler) {
	t.Helper()
	select {
	case <-h.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("record %q was never logged", h.msg)
	}

	done := make(chan struct{})
	go func() {
		m.Contains("b")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		close(h.release)
		t.Fatalf("lock held while logging %q", h.msg)
	}
	close(h.release)
}

// TestManager_EmergencyEvictionLoggedAfterUnlock keeps the table usable while the emergency record is written.
func TestManager_EmergencyEvictionLoggedAfterUnlock(t *testing.T) {
	h := newStallingHandler("emergency eviction")
	m, clk := newTestManager(t, testConfig(t, "1KB", 5), evictNothing{}, nil)
	m.logger = slog.New(h)
	content := words(50, 8)

	_, _ = m.Store("a", content)
	clk.Add(time.Second)
	_, _ = m.Store("b", content)
	clk.Add(time.Second)

	stored := make(chan error, 1)
	go func() {
		_, err := m.Store("c", content)
		stored <- err
	}()

	requireUnlocked(t, m, h)
	require.NoError(t, <-stored)
	require.Equal(t, int64(1), m.Counters().EvictedEmergency)
}

// alwaysSwitching reports one policy change on every evaluation.
type alwaysSwitching struct {
	strategy.Recency
	pending []strategy.Switch
}

func (s *alwaysSwitching) MaybeEvaluate(st strategy.State) bool {
	s.pending = append(s.pending, strategy.Switch{From: "lru", To: "lfu", Entries: len(st.Entries)})
	return true
}

func (s *alwaysSwitching) Switches() []strategy.Switch {
	out := s.pending
	s.pending = nil
	return out
}

// TestManager_StrategySwitchLoggedAfterUnlock keeps the table usable while a switch record is written.
func TestManager_StrategySwitchLoggedAfterUnlock(t *testing.T) {
	h := newStallingHandler("eviction strategy switched")
	m, _ := newTestManager(t, testConfig(t, "1KB", 5), &alwaysSwitching{}, nil)
	m.logger = slog.New(h)
	_, err := m.Store("b", words(50, 8))
	require.NoError(t, err)

	results := make(chan OptimizeResult, 1)
	go func() { results <- m.Optimize() }()

	requireUnlocked(t, m, h)
	res := <-results
	require.True(t, res.Switched)
}

// TestManager_ConcurrentAccess mixes every operation across goroutines and checks the budget afterwards.
func TestManager_ConcurrentAccess(t *testing.T) {
	m, _ := newTestManager(t, testConfig(t, "4KB", 5), strategy.NewRecency(), nil)
	content := words(10, 10) // 100 bytes

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Go(func() {
			for i := 0; i < 300; i++ {
				key := fmt.Sprintf("fact:%d:%d", w%4, i%64)
				switch i % 10 {
				case 0:
					m.InvalidateByPrefix(fmt.Sprintf("fact:%d:", w%4))
				case 1, 2, 3:
					_, _ = m.Store(key, content)
				case 4:
					m.Contains(key)
				case 5:
					m.Optimize()
				default:
					m.Get(key)
				}
			}
		})
	}
	wg.Wait()

	u := m.Usage()
	require.LessOrEqual(t, u.Bytes, u.MaxBytes)

	var sum int64
	snaps := m.Snapshot()
	for _, s := range snaps {
		sum += s.Size
	}
	require.Equal(t, u.Bytes, sum)
	require.Equal(t, u.Entries, len(snaps))
}
