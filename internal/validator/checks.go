package validator

import (
	"fmt"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"github.com/perezable/hyper8-FACT-sub000/internal/shared/guard"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	clockSkew          = time.Minute
	maxPlausibleAge    = 365 * 24 * time.Hour
	unusedAfter        = time.Hour
	tokenMismatchRatio = 0.10
	maxCharsPerToken   = 30
	oversizedMinAccess = 2
)

var (
	errorMessagePattern = regexp.MustCompile(`(?i)^\s*(error|exception|fatal|internal server error|rate limit exceeded|request timed out)\b|traceback \(most recent call last\)|i'm sorry, but i (can't|cannot)|as an ai language model`)
	placeholderPattern  = regexp.MustCompile(`(?i)lorem ipsum|\[(placeholder|insert[^\]]*)\]|<insert[^>]*>|\{\{[^}]*\}\}|\bTBD\b|\bTODO\b`)
)

type checkContext struct {
	now                time.Time
	prefix             string
	minTokens          int
	ttl                time.Duration
	minTokenEfficiency float64
	maxAge             time.Duration
	maxEntrySize       int64
}

func issue(s model.Snapshot, kind Kind, sev Severity, action, format string, args ...any) Issue {
	return Issue{
		Key:         s.Key,
		Kind:        kind,
		Severity:    sev,
		Description: fmt.Sprintf(format, args...),
		Action:      action,
	}
}

func basicChecks(s model.Snapshot, c checkContext) []Issue {
	var out []Issue
	if strings.TrimSpace(s.Content) == "" {
		out = append(out, issue(s, KindEmptyContent, SeverityCritical, "remove", "entry has no content"))
	}
	if c.prefix != "" && s.Prefix != c.prefix {
		out = append(out, issue(s, KindPrefixMismatch, SeverityHigh, "remove",
			"prefix %q does not match namespace %q", s.Prefix, c.prefix))
	}
	if s.Tokens < c.minTokens {
		out = append(out, issue(s, KindBelowMinTokens, SeverityHigh, "remove",
			"%d tokens below minimum %d", s.Tokens, c.minTokens))
	}
	if recomputed := model.CountTokens(s.Content); mismatch(s.Tokens, recomputed) > tokenMismatchRatio {
		out = append(out, issue(s, KindTokenMismatch, SeverityCritical, "remove",
			"stored token count %d differs from recomputed %d", s.Tokens, recomputed))
	}
	if s.CreatedAt.After(c.now.Add(clockSkew)) {
		out = append(out, issue(s, KindFutureTimestamp, SeverityCritical, "remove",
			"created %s in the future", s.CreatedAt.Sub(c.now).Round(time.Second)))
	} else if s.Age(c.now) > maxPlausibleAge {
		out = append(out, issue(s, KindAncientTimestamp, SeverityHigh, "remove",
			"created %s ago", s.Age(c.now).Round(time.Hour)))
	}
	if !s.Valid {
		out = append(out, issue(s, KindSoftDeleted, SeverityHigh, "remove", "entry is marked invalid"))
	}
	return out
}

func standardChecks(s model.Snapshot, c checkContext) []Issue {
	var out []Issue
	if s.IsExpired(c.now, c.ttl) {
		out = append(out, issue(s, KindExpired, SeverityHigh, "remove",
			"age %s exceeds ttl %s", s.Age(c.now).Round(time.Second), c.ttl))
	}
	if eff := s.TokenEfficiency(); s.Size > 0 && eff < c.minTokenEfficiency {
		out = append(out, issue(s, KindLowEfficiency, SeverityMedium, "review",
			"%.1f tokens/KiB below %.1f", eff, c.minTokenEfficiency))
	}
	if c.maxAge > 0 && s.Age(c.now) > c.maxAge {
		out = append(out, issue(s, KindStale, SeverityLow, "refresh",
			"age %s beyond %s", s.Age(c.now).Round(time.Minute), c.maxAge))
	}
	if s.AccessCount == 0 && s.Age(c.now) > unusedAfter {
		out = append(out, issue(s, KindUnused, SeverityLow, "monitor",
			"never read in %s", s.Age(c.now).Round(time.Minute)))
	}
	return out
}

func comprehensiveChecks(s model.Snapshot, c checkContext) []Issue {
	var out []Issue
	if errorMessagePattern.MatchString(s.Content) {
		out = append(out, issue(s, KindErrorMessage, SeverityHigh, "remove", "content looks like a cached error message"))
	}
	if placeholderPattern.MatchString(s.Content) {
		out = append(out, issue(s, KindPlaceholder, SeverityMedium, "review", "content contains placeholder text"))
	}
	if s.Tokens > 0 {
		if ratio := float64(len(s.Content)) / float64(s.Tokens); ratio > maxCharsPerToken {
			out = append(out, issue(s, KindCharTokenRatio, SeverityMedium, "review",
				"%.1f characters per token", ratio))
		}
	}
	if c.maxEntrySize > 0 && s.Size > c.maxEntrySize && s.AccessCount < oversizedMinAccess {
		out = append(out, issue(s, KindOversized, SeverityMedium, "evict",
			"%d bytes read %d times", s.Size, s.AccessCount))
	}
	if guard.Credential(s.Content) {
		out = append(out, issue(s, KindCredential, SeverityCritical, "remove", "content contains a credential-like string"))
	}
	if guard.SQLInjection(s.Content) {
		out = append(out, issue(s, KindSQLInjection, SeverityCritical, "remove", "content contains an sql-injection fragment"))
	}
	return out
}

// mismatch is the relative difference between stored and recomputed token counts.
func mismatch(stored, recomputed int) float64 {
	if stored == recomputed {
		return 0
	}
	return math.Abs(float64(stored-recomputed)) / float64(max(recomputed, 1))
}
