package warmer

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/perezable/hyper8-FACT-sub000/internal/shared/rate"
	"golang.org/x/sync/errgroup"
	"sync"
	"time"
)

var errEmptyResponse = errors.New("generator returned empty content")

// outcome of warming one query.
type outcome struct {
	tokens int
	err    error
}

func (w *Warmer) warmOne(ctx context.Context, q Query) outcome {
	key := w.cache.GenerateKey(q.Text)
	if w.cache.Contains(key) {
		return outcome{}
	}
	content, err := w.gen(ctx, q.Text)
	if err != nil {
		return outcome{err: fmt.Errorf("generate %q: %w", q.Text, err)}
	}
	if content == "" {
		return outcome{err: fmt.Errorf("generate %q: %w", q.Text, errEmptyResponse)}
	}
	snap, err := w.cache.Store(key, content)
	if err != nil {
		return outcome{err: fmt.Errorf("store %q: %w", q.Text, err)}
	}
	return outcome{tokens: snap.Tokens}
}

func (r *Result) add(o outcome) {
	r.Attempted++
	if o.err != nil {
		r.Failed++
		r.Errors = append(r.Errors, o.err.Error())
		return
	}
	r.Successful++
	if o.tokens > 0 {
		r.EntriesCreated++
		r.TokensCached += int64(o.tokens)
	}
}

func (w *Warmer) newResult(mode Mode) Result {
	return Result{RunID: uuid.NewString(), Mode: mode}
}

// WarmSequential populates queries one by one, paced at the configured rate.
// Cancellation stops the run; everything warmed so far stays cached.
func (w *Warmer) WarmSequential(ctx context.Context, queries []Query) Result {
	start := w.clock.Now()
	res := w.newResult(ModeSequential)
	if len(queries) == 0 {
		return res
	}

	pctx, cancel := context.WithCancel(ctx)
	defer cancel()
	pacer := rate.NewPacer(pctx, w.cfg.Rate)

	for _, q := range queries {
		err := ctx.Err()
		if err == nil {
			err = pacer.Wait(ctx)
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("warming interrupted: %v", err))
			break
		}
		res.add(w.warmOne(ctx, q))
	}
	res.TotalTime = w.clock.Since(start)
	return res
}

// WarmConcurrent populates queries in batches of WarmingBatchSize, all queries
// of a batch in parallel, pausing BatchPause between batches. A failed query
// never aborts its batch.
func (w *Warmer) WarmConcurrent(ctx context.Context, queries []Query) Result {
	start := w.clock.Now()
	res := w.newResult(ModeConcurrent)
	size := max(1, w.cfg.WarmingBatchSize)

	var mu sync.Mutex
	for from := 0; from < len(queries); from += size {
		if from > 0 && !w.pause(ctx, w.cfg.BatchPause) {
			res.Errors = append(res.Errors, fmt.Sprintf("warming interrupted: %v", ctx.Err()))
			break
		}
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("warming interrupted: %v", ctx.Err()))
			break
		}

		var g errgroup.Group
		for _, q := range queries[from:min(from+size, len(queries))] {
			g.Go(func() error {
				o := w.warmOne(ctx, q)
				mu.Lock()
				res.add(o)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}
	res.TotalTime = w.clock.Since(start)
	return res
}

func (w *Warmer) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-w.clock.After(d):
		return true
	}
}
