// Package db holds the cache index: a key->entry map with precise byte and token
// totals and an intrusive recency list. Table is not synchronized; the owning
// manager serializes every call with its single lock.
package db

import (
	"container/list"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"strings"
	"time"
)

type Table struct {
	items map[string]*model.Entry

	mem    int64 // sum of entry weights in bytes
	tokens int64 // sum of entry token counts

	// recency list: front = most recently used, back = least recently used
	lru  *list.List
	lidx map[string]*list.Element
}

func NewTable() *Table {
	return &Table{
		items: make(map[string]*model.Entry),
		lru:   list.New(),
		lidx:  make(map[string]*list.Element),
	}
}

func (t *Table) Len() int      { return len(t.items) }
func (t *Table) Mem() int64    { return t.mem }
func (t *Table) Tokens() int64 { return t.tokens }

func (t *Table) Get(key string) (*model.Entry, bool) {
	e, ok := t.items[key]
	return e, ok
}

// Set inserts e, replacing any entry under the same key. Returns the replaced entry, if any.
func (t *Table) Set(e *model.Entry) (replaced *model.Entry) {
	if old, ok := t.items[e.Key()]; ok {
		t.mem -= old.Weight()
		t.tokens -= int64(old.Tokens())
		replaced = old
	}
	t.items[e.Key()] = e
	t.mem += e.Weight()
	t.tokens += int64(e.Tokens())
	t.lruOnInsert(e.Key())
	return replaced
}

// Remove deletes key and returns the freed bytes.
func (t *Table) Remove(key string) (freed int64, ok bool) {
	e, ok := t.items[key]
	if !ok {
		return 0, false
	}
	delete(t.items, key)
	t.lruOnDelete(key)
	t.mem -= e.Weight()
	t.tokens -= int64(e.Tokens())
	return e.Weight(), true
}

// Touch records an access on key and moves it to the front of the recency list.
func (t *Table) Touch(key string, now time.Time) bool {
	e, ok := t.items[key]
	if !ok {
		return false
	}
	e.Touch(now)
	t.lruOnAccess(key)
	return true
}

// Walk visits entries in unspecified order until fn returns false.
func (t *Table) Walk(fn func(*model.Entry) bool) {
	for _, e := range t.items {
		if !fn(e) {
			return
		}
	}
}

// KeysWithPrefix returns the keys starting with prefix.
func (t *Table) KeysWithPrefix(prefix string) []string {
	var keys []string
	for k := range t.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (t *Table) Snapshot() []model.Snapshot {
	out := make([]model.Snapshot, 0, len(t.items))
	for _, e := range t.items {
		out = append(out, e.Snapshot())
	}
	return out
}

// Clear drops all entries and returns (freedBytes, itemsRemoved).
func (t *Table) Clear() (freed int64, items int64) {
	freed, items = t.mem, int64(len(t.items))
	t.items = make(map[string]*model.Entry)
	t.lru.Init()
	clear(t.lidx)
	t.mem, t.tokens = 0, 0
	return freed, items
}
