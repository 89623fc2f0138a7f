package warmer

var categoryBoost = map[Category]int{
	CategoryFinancial:  2,
	CategoryCompany:    1,
	CategoryComparison: 1,
}

// Prioritize drops cached and duplicate candidates, applies category and hit-rate
// boosts and selects up to limit queries: first the best of every category,
// then the rest by priority.
func (w *Warmer) Prioritize(candidates []Query, limit int) []Query {
	if limit <= 0 {
		return nil
	}
	lowHitRate := w.hitRate() < w.cfg.TargetHitRate

	seen := make(map[string]struct{}, len(candidates))
	pool := make([]Query, 0, len(candidates))
	for _, q := range candidates {
		if _, dup := seen[q.Text]; dup {
			continue
		}
		seen[q.Text] = struct{}{}
		if w.cache.Contains(w.cache.GenerateKey(q.Text)) {
			continue
		}
		q.Priority += categoryBoost[q.Category]
		if lowHitRate {
			q.Priority++
		}
		q.Priority = min(10, max(1, q.Priority))
		pool = append(pool, q)
	}
	sortByPriority(pool)

	picked := make([]bool, len(pool))
	out := make([]Query, 0, min(limit, len(pool)))
	covered := make(map[Category]bool)
	for i, q := range pool {
		if len(out) == limit {
			return out
		}
		if !covered[q.Category] {
			covered[q.Category] = true
			picked[i] = true
			out = append(out, q)
		}
	}
	for i, q := range pool {
		if len(out) == limit {
			break
		}
		if !picked[i] {
			out = append(out, q)
		}
	}
	return out
}

// Scope is how many queries one warming run may populate: the configured base,
// halved above the high-water mark, raised by half when the hit rate is below
// target and never above the hard cap.
func (w *Warmer) Scope() int {
	scope := w.cfg.MaxQueries
	if w.cache.Usage().Utilization > w.cfg.HighWaterMark {
		scope /= 2
	}
	if w.hitRate() < w.cfg.TargetHitRate {
		scope = scope * 3 / 2
	}
	return max(1, min(scope, w.cfg.HardCap))
}
