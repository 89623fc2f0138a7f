package bytes

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"strings"
)

// ParseSize converts a human size ("10MB", "512KiB", "1024") to bytes.
// Decimal units are powers of 1000 and binary units powers of 1024, as in go-humanize.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("size %q must be positive", s)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int64(n), nil
}

func FmtMem(bytes uint64) string {
	return humanize.IBytes(bytes)
}

// FmtSignedMem formats a possibly negative byte count.
func FmtSignedMem(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}
