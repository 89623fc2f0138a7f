package config

const DefaultHistoryCapacity = 10_000

type HistoryCfg struct {
	// Capacity bounds the in-memory query ring.
	Capacity int `yaml:"capacity"`

	// DBPath enables the SQLite history store when non-empty.
	DBPath string `yaml:"db_path"`
}

func (cfg *HistoryCfg) Enabled() bool {
	return cfg != nil
}

func (cfg *HistoryCfg) IsPersistent() bool {
	return cfg != nil && cfg.DBPath != ""
}
