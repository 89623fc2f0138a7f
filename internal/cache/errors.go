package cache

import "errors"

var (
	ErrEmptyContent      = errors.New("empty content")
	ErrSecurityRejected  = errors.New("content rejected by security scan")
	ErrNotAdmitted       = errors.New("content not admitted by eviction strategy")
	ErrMinTokens         = errors.New("content below minimum token count")
	ErrSizeLimitExceeded = errors.New("cache size limit exceeded")
)
