// Package history records looked-up queries so the warmer can find recurring patterns.
package history

import (
	"context"
	"errors"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"time"
)

var ErrClosed = errors.New("history store is closed")

type Record struct {
	Query string    `json:"query"`
	At    time.Time `json:"at"`
}

// Store keeps the most recent queries up to a fixed capacity.
type Store interface {
	Record(ctx context.Context, query string, at time.Time) error
	// Recent returns up to limit queries, newest first.
	Recent(ctx context.Context, limit int) ([]string, error)
	// Records returns up to limit records, newest first. A limit <= 0 returns everything.
	Records(ctx context.Context, limit int) ([]Record, error)
	Len(ctx context.Context) (int, error)
	Close() error
}

// New opens the store described by cfg: SQLite when a path is configured,
// otherwise an in-memory ring.
func New(cfg *config.HistoryCfg) (Store, error) {
	capacity := config.DefaultHistoryCapacity
	if cfg.Enabled() && cfg.Capacity > 0 {
		capacity = cfg.Capacity
	}
	if cfg.IsPersistent() {
		return OpenSQLite(cfg.DBPath, capacity)
	}
	return NewMemory(capacity), nil
}
