package history

import (
	"context"
	"github.com/perezable/hyper8-FACT-sub000/internal/shared/queue"
	"strings"
	"sync/atomic"
	"time"
)

type Memory struct {
	ring   *queue.Ring[Record]
	closed atomic.Bool
}

func NewMemory(capacity int) *Memory {
	return &Memory{ring: queue.NewRing[Record](capacity)}
}

func (m *Memory) Record(_ context.Context, query string, at time.Time) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if query = strings.TrimSpace(query); query != "" {
		m.ring.Push(Record{Query: query, At: at})
	}
	return nil
}

func (m *Memory) Recent(ctx context.Context, limit int) ([]string, error) {
	recs, err := m.Records(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Query
	}
	return out, nil
}

func (m *Memory) Records(_ context.Context, limit int) ([]Record, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = m.ring.Cap()
	}
	return m.ring.Last(limit), nil
}

func (m *Memory) Len(context.Context) (int, error) { return m.ring.Len(), nil }

func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}
