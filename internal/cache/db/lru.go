package db

import "github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"

func (t *Table) lruOnInsert(key string) {
	if el := t.lidx[key]; el != nil {
		t.lru.MoveToFront(el)
		return
	}
	t.lidx[key] = t.lru.PushFront(key)
}

func (t *Table) lruOnAccess(key string) {
	if el := t.lidx[key]; el != nil {
		t.lru.MoveToFront(el)
	}
}

func (t *Table) lruOnDelete(key string) {
	if el := t.lidx[key]; el != nil {
		t.lru.Remove(el)
		delete(t.lidx, key)
	}
}

// PeekOldest returns the least recently used entry.
func (t *Table) PeekOldest() (*model.Entry, bool) {
	el := t.lru.Back()
	if el == nil {
		return nil, false
	}
	e, ok := t.items[el.Value.(string)]
	return e, ok
}

// PopOldest removes and returns the least recently used entry.
func (t *Table) PopOldest() (*model.Entry, bool) {
	e, ok := t.PeekOldest()
	if !ok {
		return nil, false
	}
	t.Remove(e.Key())
	return e, true
}

// OldestFirst visits entries from least to most recently used until fn returns false.
func (t *Table) OldestFirst(fn func(*model.Entry) bool) {
	for el := t.lru.Back(); el != nil; el = el.Prev() {
		if e, ok := t.items[el.Value.(string)]; ok && !fn(e) {
			return
		}
	}
}
