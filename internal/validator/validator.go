// Package validator sweeps the cache for corrupted, expired, low-quality and
// unsafe entries, and removes the dangerous ones on request.
package validator

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/perezable/hyper8-FACT-sub000/config"
	"github.com/perezable/hyper8-FACT-sub000/internal/cache/db/model"
	"log/slog"
	"time"
)

var ErrUnknownLevel = errors.New("unknown validation level")

// Source is the cache as the validator sees it.
type Source interface {
	Snapshot() []model.Snapshot
	Remove(keys ...string) int
	MarkInvalid(keys ...string) int
	Now() time.Time
}

// CrossChecker verifies entries against an external source of truth at the comprehensive level.
type CrossChecker interface {
	CrossCheck(ctx context.Context, entry model.Snapshot) ([]Issue, error)
}

type Result struct {
	ID              string                 `json:"id"`
	Level           config.ValidationLevel `json:"level"`
	StartedAt       time.Time              `json:"started_at"`
	Total           int                    `json:"total"`
	Valid           int                    `json:"valid"`
	Invalid         int                    `json:"invalid"`
	Corrupted       int                    `json:"corrupted"`
	Expired         int                    `json:"expired"`
	Marked          int                    `json:"marked"`
	Issues          []Issue                `json:"issues,omitempty"`
	Recommendations []string               `json:"recommendations,omitempty"`
	Health          Health                 `json:"health"`
	Duration        time.Duration          `json:"duration"`
}

type Repair struct {
	EntriesRemoved int `json:"entries_removed"`
	IssuesFixed    int `json:"issues_fixed"`
}

type Validator struct {
	src       Source
	cfg       *config.ValidationCfg
	prefix    string
	minTokens int
	ttl       time.Duration
	checker   CrossChecker
	logger    *slog.Logger
}

// New builds a validator over src. checker may be nil.
func New(src Source, cfg *config.Cache, checker CrossChecker, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		src:       src,
		cfg:       cfg.ValidationOrDefault(),
		prefix:    cfg.DB.NamespacePrefix,
		minTokens: cfg.DB.MinTokens,
		ttl:       cfg.DB.TTL,
		checker:   checker,
		logger:    logger,
	}
}

// Level is the configured default level.
func (v *Validator) Level() config.ValidationLevel { return v.cfg.Level }

// Validate checks every entry at the given level (the configured one when empty).
// Entries with a critical issue are marked invalid so they are never served again.
func (v *Validator) Validate(ctx context.Context, level config.ValidationLevel) (Result, error) {
	if level == "" {
		level = v.cfg.Level
	}
	depth, ok := levelDepth(level)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}

	start := v.src.Now()
	res := Result{ID: uuid.NewString(), Level: level, StartedAt: start}
	cc := checkContext{
		now:                start,
		prefix:             v.prefix,
		minTokens:          v.minTokens,
		ttl:                v.ttl,
		minTokenEfficiency: v.cfg.MinTokenEfficiency,
		maxAge:             time.Duration(v.cfg.MaxEntryAgeHours * float64(time.Hour)),
		maxEntrySize:       v.cfg.MaxEntrySizeBytes,
	}

	var critical []string
	for _, s := range v.src.Snapshot() {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		issues := basicChecks(s, cc)
		if depth >= 2 {
			issues = append(issues, standardChecks(s, cc)...)
		}
		if depth >= 3 {
			issues = append(issues, comprehensiveChecks(s, cc)...)
			issues = append(issues, v.crossCheck(ctx, s)...)
		}

		res.Total++
		switch classify(issues) {
		case StatusCorrupted:
			res.Corrupted++
		case StatusExpired:
			res.Expired++
		case StatusInvalid:
			res.Invalid++
		default:
			res.Valid++
		}
		if s.Valid && hasCritical(issues) {
			critical = append(critical, s.Key)
		}
		res.Issues = append(res.Issues, issues...)
	}

	if len(critical) > 0 {
		res.Marked = v.src.MarkInvalid(critical...)
	}
	res.Health = assessHealth(res, v.cfg)
	res.Recommendations = recommend(res)
	res.Duration = v.src.Now().Sub(start)

	v.logger.Info("cache validation finished",
		"id", res.ID,
		"level", res.Level,
		"total", res.Total,
		"valid", res.Valid,
		"invalid", res.Invalid,
		"corrupted", res.Corrupted,
		"expired", res.Expired,
		"health", res.Health,
	)
	return res, nil
}

func (v *Validator) crossCheck(ctx context.Context, s model.Snapshot) []Issue {
	if v.checker == nil {
		return nil
	}
	issues, err := v.checker.CrossCheck(ctx, s)
	if err != nil {
		v.logger.Warn("cross check failed", "key", s.Key, "err", err)
		return nil
	}
	for i := range issues {
		issues[i].Key = s.Key
		if issues[i].Kind == "" {
			issues[i].Kind = KindCrossCheck
		}
	}
	return issues
}

// AutoRepair removes every entry with a critical issue and every expired entry.
// Entries whose issues are all low severity are left alone.
func (v *Validator) AutoRepair(res Result) Repair {
	doomed := make(map[string]int)
	for _, is := range res.Issues {
		if is.Severity == SeverityCritical || is.Kind == KindExpired {
			doomed[is.Key] = 0
		}
	}
	if len(doomed) == 0 {
		return Repair{}
	}
	for _, is := range res.Issues {
		if _, ok := doomed[is.Key]; ok {
			doomed[is.Key]++
		}
	}

	keys := make([]string, 0, len(doomed))
	var fixed int
	for k, n := range doomed {
		keys = append(keys, k)
		fixed += n
	}
	rep := Repair{EntriesRemoved: v.src.Remove(keys...), IssuesFixed: fixed}

	v.logger.Info("cache auto-repair finished",
		"validation_id", res.ID,
		"removed", rep.EntriesRemoved,
		"issues_fixed", rep.IssuesFixed,
	)
	return rep
}

func hasCritical(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

func levelDepth(l config.ValidationLevel) (int, bool) {
	switch l {
	case config.ValidationBasic:
		return 1, true
	case config.ValidationStandard:
		return 2, true
	case config.ValidationComprehensive:
		return 3, true
	default:
		return 0, false
	}
}
