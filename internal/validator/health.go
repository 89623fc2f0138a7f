package validator

import (
	"fmt"
	"github.com/perezable/hyper8-FACT-sub000/config"
)

type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
)

const (
	criticalExpiryFactor = 1.5
	minValidRatio        = 0.7
)

func assessHealth(res Result, cfg *config.ValidationCfg) Health {
	if res.Total == 0 {
		return HealthHealthy
	}
	total := float64(res.Total)
	corruption := float64(res.Corrupted) / total
	bad := float64(res.Invalid+res.Expired) / total
	valid := float64(res.Valid) / total

	switch {
	case corruption > cfg.MaxCorruptionRate || bad > criticalExpiryFactor*cfg.MaxExpiryRate:
		return HealthCritical
	case bad > cfg.MaxExpiryRate || valid < minValidRatio:
		return HealthWarning
	default:
		return HealthHealthy
	}
}

func recommend(res Result) []string {
	counts := make(map[Kind]int)
	for _, is := range res.Issues {
		counts[is.Kind]++
	}

	var out []string
	if res.Corrupted > 0 {
		out = append(out, fmt.Sprintf("run auto-repair to remove %d corrupted entries", res.Corrupted))
	}
	if res.Expired > 0 {
		out = append(out, fmt.Sprintf("%d entries outlived the ttl; run the optimizer more often", res.Expired))
	}
	if n := counts[KindCredential] + counts[KindSQLInjection]; n > 0 {
		out = append(out, fmt.Sprintf("investigate %d entries flagged by security checks", n))
	}
	if n := counts[KindErrorMessage]; n > 0 {
		out = append(out, fmt.Sprintf("stop caching error responses (%d found)", n))
	}
	if n := counts[KindLowEfficiency]; n > 0 {
		out = append(out, fmt.Sprintf("raise min_tokens; %d entries carry few tokens per KiB", n))
	}
	if n := counts[KindStale] + counts[KindUnused]; n > 0 {
		out = append(out, fmt.Sprintf("%d entries are stale or unused; consider a shorter ttl", n))
	}
	if n := counts[KindOversized]; n > 0 {
		out = append(out, fmt.Sprintf("%d oversized entries are rarely read", n))
	}
	return out
}
