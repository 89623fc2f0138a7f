// Package cache owns the entry table. Every read and write goes through a single
// lock held for the whole critical section; metrics are reported after it is released.
package cache

import (
	"fmt"
	"github.com/benbjohnson/clock"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"github.com/perezable/hyper8-FACT-sub000/internal/metrics"
	"github.com/perezable/hyper8-FACT-sub000/internal/shared/guard"
	"github.com/perezable/hyper8-FACT-sub000/internal/strategy"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Manager struct {
	mu       sync.Mutex
	cfg      *config.Cache
	table    *db.Table
	strategy strategy.Strategy
	recorder metrics.Recorder
	clock    clock.Clock
	logger   *slog.Logger
	counters *counters
}

// New builds a manager. A nil strategy falls back to recency, a nil recorder
// discards samples and a nil clock uses wall time.
func New(cfg *config.Cache, st strategy.Strategy, rec metrics.Recorder, clk clock.Clock, logger *slog.Logger) *Manager {
	if st == nil {
		st = strategy.NewRecency()
	}
	if rec == nil {
		rec = noopRecorder{}
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:      cfg,
		table:    db.NewTable(),
		strategy: st,
		recorder: rec,
		clock:    clk,
		logger:   logger,
		counters: newCounters(),
	}
}

// GenerateKey derives the cache key of query within this cache's namespace.
func (m *Manager) GenerateKey(query string) string {
	return model.GenerateKey(m.cfg.DB.NamespacePrefix, query)
}

// Store admits content under key, reclaiming space when the byte budget would be exceeded.
func (m *Manager) Store(key, content string) (model.Snapshot, error) {
	start := m.clock.Now()
	out, err := m.store(key, content, start)

	m.recorder.Record(metrics.Sample{
		Kind:    metrics.KindStore,
		At:      start,
		Latency: m.clock.Since(start),
		Success: err == nil,
		Tokens:  out.snap.Tokens,
		Size:    out.snap.Size,
	})
	m.reportEvictions(out.evicted, start)
	if out.emergency > 0 {
		m.logger.Debug("emergency eviction", "evicted", out.emergency, "mem", out.mem)
	}
	m.logSwitches(out.switches)

	if err != nil {
		m.logger.Debug("store rejected", "key", key, "err", err)
		return model.Snapshot{}, err
	}
	return out.snap, nil
}

// storeOutcome carries what happened under the lock so that it can be reported after release.
type storeOutcome struct {
	snap      model.Snapshot
	evicted   []model.Snapshot
	emergency int
	mem       int64
	switches  []strategy.Switch
}

func (m *Manager) store(key, content string, now time.Time) (out storeOutcome, err error) {
	if strings.TrimSpace(content) == "" {
		m.counters.rejectedEmpty.Add(1)
		return out, fmt.Errorf("%w: key %s", ErrEmptyContent, key)
	}
	if reason := guard.Check(content); reason != "" {
		m.counters.rejectedSecurity.Add(1)
		return out, fmt.Errorf("%w: %s", ErrSecurityRejected, reason)
	}

	entry := model.NewEntry(key, m.cfg.DB.NamespacePrefix, content, now)
	out.snap = entry.Snapshot()

	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() {
		out.switches = m.drainSwitches()
		out.mem = m.table.Mem()
	}()

	admit := strategy.AdmitContext{
		KeyHash:     entry.Hash(),
		Tokens:      entry.Tokens(),
		Size:        entry.Weight(),
		Utilization: m.utilization(),
	}
	if !m.strategy.ShouldAdmit(content, admit) {
		m.counters.rejectedAdmission.Add(1)
		return out, fmt.Errorf("%w: %s", ErrNotAdmitted, m.strategyName())
	}
	if entry.Tokens() < m.cfg.DB.MinTokens {
		m.counters.rejectedMinTokens.Add(1)
		return out, fmt.Errorf("%w: %d < %d", ErrMinTokens, entry.Tokens(), m.cfg.DB.MinTokens)
	}
	if entry.Weight() > m.cfg.DB.MaxSizeBytes {
		m.counters.rejectedSize.Add(1)
		return out, fmt.Errorf("%w: entry of %d bytes exceeds budget of %d bytes",
			ErrSizeLimitExceeded, entry.Weight(), m.cfg.DB.MaxSizeBytes)
	}

	if _, replaced := m.table.Remove(key); replaced {
		m.counters.replaced.Add(1)
	}
	var ok bool
	out.evicted, out.emergency, ok = m.reclaim(entry.Weight(), now)
	if !ok {
		m.counters.rejectedSize.Add(1)
		return out, fmt.Errorf("%w: could not free %d bytes", ErrSizeLimitExceeded, entry.Weight())
	}

	m.table.Set(entry)
	m.counters.stores.Add(1)
	return out, nil
}

// reclaim makes room for size bytes: first expired and soft-deleted entries go,
// then the strategy's victims, then least recently used entries until it fits.
// emergency counts the entries removed by the last stage. Must be called with m.mu held.
func (m *Manager) reclaim(size int64, now time.Time) (evicted []model.Snapshot, emergency int, ok bool) {
	if m.fits(size) {
		return nil, 0, true
	}

	evicted = m.removeKeys(m.staleKeys(now), &m.counters.reclaimedExpired)
	if m.fits(size) {
		return evicted, 0, true
	}

	st := m.state(now)
	st.BytesNeeded = max(0, m.table.Mem()+size-m.cfg.DB.MaxSizeBytes)
	if limit := m.cfg.DB.MaxEntries; limit > 1 {
		st.MaxEntries = limit - 1
	}
	evicted = append(evicted, m.removeKeys(m.strategy.ShouldEvict(st), &m.counters.evictedStrategy)...)
	if m.fits(size) {
		return evicted, 0, true
	}

	for !m.fits(size) {
		e, found := m.table.PopOldest()
		if !found {
			break
		}
		emergency++
		evicted = append(evicted, e.Snapshot())
	}
	m.counters.evictedEmergency.Add(int64(emergency))
	return evicted, emergency, m.fits(size)
}

// drainSwitches collects policy changes of an adaptive strategy. Must be called with m.mu held.
func (m *Manager) drainSwitches() []strategy.Switch {
	if ev, ok := m.strategy.(strategy.Evaluator); ok {
		return ev.Switches()
	}
	return nil
}

func (m *Manager) logSwitches(switches []strategy.Switch) {
	for _, sw := range switches {
		m.logger.Info("eviction strategy switched",
			"from", sw.From,
			"to", sw.To,
			"scores", sw.Scores,
			"entries", sw.Entries,
		)
	}
}

func (m *Manager) fits(size int64) bool {
	if m.table.Mem()+size > m.cfg.DB.MaxSizeBytes {
		return false
	}
	limit := m.cfg.DB.MaxEntries
	return limit <= 0 || m.table.Len()+1 <= limit
}

func (m *Manager) staleKeys(now time.Time) []string {
	var keys []string
	m.table.Walk(func(e *model.Entry) bool {
		if !e.IsValid() || e.IsExpired(now, m.cfg.DB.TTL) {
			keys = append(keys, e.Key())
		}
		return true
	})
	return keys
}

func (m *Manager) removeKeys(keys []string, counter *atomic.Int64) []model.Snapshot {
	out := make([]model.Snapshot, 0, len(keys))
	for _, k := range keys {
		e, ok := m.table.Get(k)
		if !ok {
			continue
		}
		out = append(out, e.Snapshot())
		m.table.Remove(k)
	}
	counter.Add(int64(len(out)))
	return out
}

func (m *Manager) state(now time.Time) strategy.State {
	return strategy.State{
		Entries:   m.table.Snapshot(),
		UsedBytes: m.table.Mem(),
		MaxBytes:  m.cfg.DB.MaxSizeBytes,
		Now:       now,
	}
}

// Get returns the entry under key. Expired or soft-deleted entries are removed and reported as a miss.
func (m *Manager) Get(key string) (model.Snapshot, bool) {
	start := m.clock.Now()
	snap, hit := m.get(key, start)
	m.recorder.Record(metrics.Sample{
		Kind:    metrics.KindGet,
		At:      start,
		Latency: m.clock.Since(start),
		Success: true,
		Hit:     hit,
		Tokens:  snap.Tokens,
		Size:    snap.Size,
	})
	return snap, hit
}

func (m *Manager) get(key string, now time.Time) (model.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o, ok := m.strategy.(strategy.Observer); ok {
		o.Observe(model.HashKey(key))
	}

	e, ok := m.table.Get(key)
	if !ok {
		return model.Snapshot{}, false
	}
	if !e.IsValid() || e.IsExpired(now, m.cfg.DB.TTL) {
		m.table.Remove(key)
		m.counters.expiredOnGet.Add(1)
		return model.Snapshot{}, false
	}
	m.table.Touch(key, now)
	return e.Snapshot(), true
}

// Contains reports whether key holds a live entry without recording an access.
func (m *Manager) Contains(key string) bool {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.table.Get(key)
	return ok && e.IsValid() && !e.IsExpired(now, m.cfg.DB.TTL)
}

// InvalidateByPrefix removes every entry whose key starts with prefix.
func (m *Manager) InvalidateByPrefix(prefix string) int {
	start := m.clock.Now()

	m.mu.Lock()
	var freed int64
	keys := m.table.KeysWithPrefix(prefix)
	for _, k := range keys {
		n, _ := m.table.Remove(k)
		freed += n
	}
	m.mu.Unlock()

	m.counters.invalidated.Add(int64(len(keys)))
	m.recorder.Record(metrics.Sample{
		Kind:    metrics.KindInvalidate,
		At:      start,
		Latency: m.clock.Since(start),
		Success: true,
		Size:    freed,
	})
	return len(keys)
}

// Remove deletes the given keys and returns how many existed.
func (m *Manager) Remove(keys ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, k := range keys {
		if _, ok := m.table.Remove(k); ok {
			n++
		}
	}
	return n
}

// MarkInvalid soft-deletes the given keys; the next lookup or reclamation removes them.
func (m *Manager) MarkInvalid(keys ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, k := range keys {
		if e, ok := m.table.Get(k); ok && e.Invalidate() {
			n++
		}
	}
	return n
}

// Snapshot copies every entry, valid or not.
func (m *Manager) Snapshot() []model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.Snapshot()
}

func (m *Manager) Usage() metrics.Usage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return metrics.NewUsage(m.table.Len(), m.table.Mem(), m.cfg.DB.MaxSizeBytes, m.table.Tokens())
}

func (m *Manager) utilization() float64 {
	if m.cfg.DB.MaxSizeBytes <= 0 {
		return 0
	}
	return float64(m.table.Mem()) / float64(m.cfg.DB.MaxSizeBytes)
}

// Clear drops every entry.
func (m *Manager) Clear() {
	m.mu.Lock()
	freed, items := m.table.Clear()
	m.mu.Unlock()
	m.logger.Info("cache cleared", "items", items, "freed_bytes", freed)
}

// Strategy names the eviction strategy in charge, e.g. "lfu" or "adaptive(lru)".
func (m *Manager) Strategy() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.strategyName()
}

func (m *Manager) strategyName() string {
	if a, ok := m.strategy.(interface{ Active() string }); ok {
		return m.strategy.Name() + "(" + a.Active() + ")"
	}
	return m.strategy.Name()
}

func (m *Manager) Counters() Counters { return m.counters.snapshot() }

func (m *Manager) Now() time.Time { return m.clock.Now() }

func (m *Manager) Config() *config.Cache { return m.cfg }

func (m *Manager) reportEvictions(evicted []model.Snapshot, at time.Time) {
	for _, e := range evicted {
		m.recorder.Record(metrics.Sample{
			Kind:    metrics.KindEvict,
			At:      at,
			Success: true,
			Tokens:  e.Tokens,
			Size:    e.Size,
		})
	}
}

type noopRecorder struct{}

func (noopRecorder) Record(metrics.Sample) {}
