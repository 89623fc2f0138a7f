package lifetimer

import "sync/atomic"

type Metrics struct {
	Sweeps   int64 `json:"sweeps"`
	Errors   int64 `json:"errors"`
	Issues   int64 `json:"issues"`
	Marked   int64 `json:"marked"`
	Repaired int64 `json:"repaired"`
}

type lifetimerCounters struct {
	sweeps   atomic.Int64 // finished or failed validation sweeps
	errors   atomic.Int64 // sweeps aborted by an error
	issues   atomic.Int64 // issues found across sweeps
	marked   atomic.Int64 // entries soft-deleted for a critical issue
	repaired atomic.Int64 // entries removed by auto-repair
}

func newLifetimerCounters() *lifetimerCounters {
	return &lifetimerCounters{}
}

func (c *lifetimerCounters) snapshot() Metrics {
	return Metrics{
		Sweeps:   c.sweeps.Load(),
		Errors:   c.errors.Load(),
		Issues:   c.issues.Load(),
		Marked:   c.marked.Load(),
		Repaired: c.repaired.Load(),
	}
}
