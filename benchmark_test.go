package factcache

import (
	"context"
	"fmt"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
)

var (
	benchCache     *Cache
	benchCacheOnce sync.Once
	benchQueries   []string
)

func initBenchCache() {
	cfg := &config.Cache{
		DB:               config.DBCfg{MaxSize: "100MB", MinTokens: 10},
		Eviction:         &config.EvictionCfg{Strategy: config.StrategyAdaptive},
		AdmissionControl: &config.AdmissionControlCfg{Capacity: 10_000},
		History:          &config.HistoryCfg{Capacity: 1024},
	}

	var err error
	benchCache, err = New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		panic(err)
	}

	benchQueries = make([]string, 1000)
	for i := range benchQueries {
		benchQueries[i] = fmt.Sprintf("What was the revenue of company %d last year?", i)
		if err = benchCache.Store(benchQueries[i], answer); err != nil {
			panic(err)
		}
	}
}

func getBenchCache() *Cache {
	benchCacheOnce.Do(initBenchCache)
	return benchCache
}

// BenchmarkLookupHit measures Lookup on cache hits.
func BenchmarkLookupHit(b *testing.B) {
	c := getBenchCache()
	q := benchQueries[0]

	b.ReportAllocs()
	for b.Loop() {
		if _, ok := c.Lookup(q); !ok {
			b.Fatal("expected hit")
		}
	}
}

// BenchmarkLookupMiss measures Lookup on cache misses.
func BenchmarkLookupMiss(b *testing.B) {
	c := getBenchCache()

	b.ReportAllocs()
	for b.Loop() {
		c.Lookup("a question nobody asked")
	}
}

// BenchmarkStore measures replacing existing entries.
func BenchmarkStore(b *testing.B) {
	c := getBenchCache()

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		_ = c.Store(benchQueries[i%len(benchQueries)], answer)
		i++
	}
}

// BenchmarkLookupMixedParallel measures concurrent lookups, about 90% hits.
func BenchmarkLookupMixedParallel(b *testing.B) {
	c := getBenchCache()
	var n atomic.Uint64

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := n.Add(1)
			if i%10 == 0 {
				c.Lookup("missing query")
				continue
			}
			c.Lookup(benchQueries[i%uint64(len(benchQueries))])
		}
	})
}
