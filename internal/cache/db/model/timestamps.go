package model

import "time"

func (e *Entry) CreatedAt() time.Time { return e.createdAt }

func (e *Entry) LastAccessed() time.Time { return e.lastAccessed }

func (e *Entry) AccessCount() int64 { return e.accessCount }

// Touch records a successful retrieval.
func (e *Entry) Touch(now time.Time) {
	e.lastAccessed = now
	e.accessCount++
}

// LastUse is the last access time, or the creation time for entries never read.
func (e *Entry) LastUse() time.Time {
	if e.lastAccessed.IsZero() {
		return e.createdAt
	}
	return e.lastAccessed
}
