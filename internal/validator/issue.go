package validator

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool { return s.rank() >= other.rank() }

type Kind string

const (
	KindEmptyContent     Kind = "empty_content"
	KindPrefixMismatch   Kind = "prefix_mismatch"
	KindBelowMinTokens   Kind = "below_min_tokens"
	KindTokenMismatch    Kind = "token_mismatch"
	KindFutureTimestamp  Kind = "future_timestamp"
	KindAncientTimestamp Kind = "ancient_timestamp"
	KindSoftDeleted      Kind = "soft_deleted"
	KindExpired          Kind = "expired"
	KindLowEfficiency    Kind = "low_token_efficiency"
	KindStale            Kind = "stale"
	KindUnused           Kind = "unused"
	KindErrorMessage     Kind = "cached_error"
	KindPlaceholder      Kind = "placeholder_text"
	KindCharTokenRatio   Kind = "char_token_ratio"
	KindOversized        Kind = "oversized_entry"
	KindCredential       Kind = "credential_leak"
	KindSQLInjection     Kind = "sql_injection"
	KindCrossCheck       Kind = "cross_check"
)

// IsCorruption reports whether the issue means the stored entry no longer matches what was written.
func (k Kind) IsCorruption() bool {
	switch k {
	case KindTokenMismatch, KindFutureTimestamp, KindAncientTimestamp:
		return true
	default:
		return false
	}
}

// Issue is one problem found on one entry.
type Issue struct {
	Key         string   `json:"key"`
	Kind        Kind     `json:"kind"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
}

// Status is the single classification an entry receives in a validation run.
type Status string

const (
	StatusValid     Status = "valid"
	StatusInvalid   Status = "invalid"
	StatusCorrupted Status = "corrupted"
	StatusExpired   Status = "expired"
)

// classify picks corrupted over expired over invalid (medium or worse) over valid.
func classify(issues []Issue) Status {
	var expired, invalid bool
	for _, is := range issues {
		if is.Kind.IsCorruption() {
			return StatusCorrupted
		}
		if is.Kind == KindExpired {
			expired = true
		}
		if is.Severity.AtLeast(SeverityMedium) {
			invalid = true
		}
	}
	switch {
	case expired:
		return StatusExpired
	case invalid:
		return StatusInvalid
	default:
		return StatusValid
	}
}
