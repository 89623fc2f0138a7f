package config

// AdmissionControlCfg sizes the TinyLFU-style frequency sketch consulted by the
// frequency strategy when the cache is under pressure.
type AdmissionControlCfg struct {
	// Capacity is the logical size used to dimension the sketch.
	// Typically aligned with the expected number of distinct queries.
	Capacity int `yaml:"capacity"`

	// SampleMultiplier controls the aging window: counters are halved after
	// Capacity*SampleMultiplier increments.
	SampleMultiplier int `yaml:"sample_multiplier"`

	// DoorBitsPerCounter configures the size of the doorkeeper filter.
	// More bits reduce false positives but increase memory usage.
	DoorBitsPerCounter int `yaml:"door_bits_per_counter"`
}

func (cfg *AdmissionControlCfg) Enabled() bool {
	return cfg != nil
}
