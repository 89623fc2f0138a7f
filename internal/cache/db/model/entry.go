package model

import "time"

// Entry is one cached query->content pairing. Entries are owned by the cache table and
// mutated only while the manager lock is held; everything handed out is a Snapshot.
type Entry struct {
	key          string
	hash         uint64 // xxh3 of key, used by frequency sketches
	prefix       string
	content      string
	tokens       int
	size         int64
	createdAt    time.Time
	lastAccessed time.Time // zero: never accessed
	accessCount  int64
	invalid      bool // soft-deleted by the validator
}

func NewEntry(key, prefix, content string, now time.Time) *Entry {
	return &Entry{
		key:       key,
		hash:      HashKey(key),
		prefix:    prefix,
		content:   content,
		tokens:    CountTokens(content),
		size:      int64(len(content)),
		createdAt: now,
	}
}

func (e *Entry) Key() string { return e.key }

func (e *Entry) Hash() uint64 { return e.hash }

func (e *Entry) Prefix() string { return e.prefix }

// IsValid reports whether the validator has not soft-deleted the entry.
func (e *Entry) IsValid() bool { return !e.invalid }

// Invalidate sets the soft-delete flag. Returns false if it was already set.
func (e *Entry) Invalidate() bool {
	if e.invalid {
		return false
	}
	e.invalid = true
	return true
}

func (e *Entry) Snapshot() Snapshot {
	return Snapshot{
		Key:          e.key,
		Prefix:       e.prefix,
		Content:      e.content,
		Tokens:       e.tokens,
		Size:         e.size,
		CreatedAt:    e.createdAt,
		LastAccessed: e.lastAccessed,
		AccessCount:  e.accessCount,
		Valid:        !e.invalid,
	}
}
