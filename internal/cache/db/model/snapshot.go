package model

import "time"

// Snapshot is an immutable copy of an entry handed out by the cache.
type Snapshot struct {
	Key          string    `json:"key"`
	Prefix       string    `json:"prefix"`
	Content      string    `json:"content"`
	Tokens       int       `json:"tokens"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed,omitzero"`
	AccessCount  int64     `json:"access_count"`
	Valid        bool      `json:"valid"`
}

func (s Snapshot) Age(now time.Time) time.Duration { return now.Sub(s.CreatedAt) }

func (s Snapshot) LastUse() time.Time {
	if s.LastAccessed.IsZero() {
		return s.CreatedAt
	}
	return s.LastAccessed
}

func (s Snapshot) TokenEfficiency() float64 { return TokenEfficiency(s.Tokens, s.Size) }

func (s Snapshot) IsExpired(now time.Time, ttl time.Duration) bool {
	return isExpired(s.CreatedAt, now, ttl)
}

// Older reports whether s was used less recently than other, breaking ties by
// creation time and then by key so that orderings are total and stable.
func (s Snapshot) Older(other Snapshot) bool {
	a, b := s.LastUse(), other.LastUse()
	if !a.Equal(b) {
		return a.Before(b)
	}
	if !s.CreatedAt.Equal(other.CreatedAt) {
		return s.CreatedAt.Before(other.CreatedAt)
	}
	return s.Key < other.Key
}
