// Package guard detects content that must never be served from the cache:
// leaked credentials and SQL-injection shaped fragments.
package guard

import "regexp"

var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(api[_-]?key|secret[_-]?key|client[_-]?secret|password|passwd|access[_-]?token|auth[_-]?token)\s*[:=]\s*["']?[^\s"']{6,}`),
	regexp.MustCompile(`(?i)\bbearer\s+[a-z0-9._\-]{20,}`),
	regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{20,}`),
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	regexp.MustCompile(`-----BEGIN (RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`),
}

var sqlInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i);\s*(drop|truncate|alter)\s+(table|database|schema)\b`),
	regexp.MustCompile(`(?i);\s*delete\s+from\b`),
	regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`),
	regexp.MustCompile(`(?i)'\s*or\s+'?1'?\s*=\s*'?1`),
	regexp.MustCompile(`(?i)\bexec(ute)?\s+xp_\w+`),
}

// Credential reports whether s contains something shaped like a secret.
func Credential(s string) bool { return matchAny(credentialPatterns, s) }

// SQLInjection reports whether s contains an SQL-injection shaped fragment.
func SQLInjection(s string) bool { return matchAny(sqlInjectionPatterns, s) }

// Check returns a short reason when s is unsafe to cache, or "" otherwise.
func Check(s string) string {
	switch {
	case Credential(s):
		return "credential-like content"
	case SQLInjection(s):
		return "sql-injection fragment"
	default:
		return ""
	}
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
