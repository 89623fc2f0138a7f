// Package queue provides a fixed-capacity ring that overwrites its oldest element when full.
package queue

import "sync"

// Ring is a bounded FIFO backed by a preallocated arena. Push never fails:
// when the ring is full the oldest element is dropped.
type Ring[T any] struct {
	mu   sync.Mutex
	buf  []T
	head int // next write position
	len  int
}

func NewRing[T any](size int) *Ring[T] {
	r := &Ring[T]{}
	r.Init(size)
	return r
}

func (r *Ring[T]) Init(size int) {
	if size < 1 {
		size = 1
	}
	r.mu.Lock()
	r.buf = make([]T, size)
	r.head, r.len = 0, 0
	r.mu.Unlock()
}

// Push appends v and reports whether an old element was dropped to make room.
func (r *Ring[T]) Push(v T) (dropped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.len == len(r.buf) {
		return true
	}
	r.len++
	return false
}

// Values returns a copy of the elements, oldest first.
func (r *Ring[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, r.len)
	start := (r.head - r.len + len(r.buf)) % len(r.buf)
	for i := 0; i < r.len; i++ {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Last returns up to n most recent elements, newest first.
func (r *Ring[T]) Last(n int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.len {
		n = r.len
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head-1-i+2*len(r.buf))%len(r.buf)]
	}
	return out
}

func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.len
}

func (r *Ring[T]) Cap() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

func (r *Ring[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.buf)
	r.head, r.len = 0, 0
}
