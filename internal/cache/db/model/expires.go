package model

import "time"

// IsExpired reports whether more than ttl has elapsed since creation. A zero ttl never expires.
func (e *Entry) IsExpired(now time.Time, ttl time.Duration) bool {
	return isExpired(e.createdAt, now, ttl)
}

func isExpired(createdAt, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(createdAt) > ttl
}
