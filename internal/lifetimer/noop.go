package lifetimer

import (
	"github.com/perezable/hyper8-FACT-sub000/internal/validator"
	"time"
)

// NoOpLifetimer is used when no validation interval is configured.
type NoOpLifetimer struct{}

func (NoOpLifetimer) ForceCall(time.Duration) error { return nil }

func (NoOpLifetimer) Metrics() Metrics { return Metrics{} }

func (NoOpLifetimer) Last() (validator.Result, bool) { return validator.Result{}, false }

func (NoOpLifetimer) Close() error { return nil }
