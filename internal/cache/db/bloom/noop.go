package bloom

type noop struct{}

func newNoOp() noop { return noop{} }

func (noop) Record(uint64)          {}
func (noop) Allow(_, _ uint64) bool { return true }
func (noop) Estimate(uint64) uint8  { return 0 }
func (noop) Seen(uint64) bool       { return true }
func (noop) Reset()                 {}
