package rate

import (
	"context"
	"go.uber.org/ratelimit"
)

// Pacer emits at most limit signals per second on a channel so that consumers can
// select on it together with their context.
type Pacer struct {
	ch    chan struct{}
	l     ratelimit.Limiter
	limit int
}

func NewPacer(ctx context.Context, limit int) *Pacer {
	if limit < 1 {
		limit = 1
	}
	brst := int(float64(limit) * 0.1)
	if brst < 1 {
		brst = 1
	}
	p := &Pacer{
		limit: limit,
		ch:    make(chan struct{}, brst),
		l:     ratelimit.New(limit, ratelimit.WithoutSlack),
	}
	go p.provider(ctx)
	return p
}

func (p *Pacer) provider(ctx context.Context) {
	defer close(p.ch)
	for {
		p.l.Take()
		select {
		case <-ctx.Done():
			return
		case p.ch <- struct{}{}:
		}
	}
}

// Wait blocks until the next signal or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-p.ch:
		if !ok {
			return context.Canceled
		}
		return nil
	}
}

func (p *Pacer) Chan() <-chan struct{} {
	return p.ch
}

func (p *Pacer) Limit() int {
	return p.limit
}
