// Package config defines engine configuration and loading.
package config

// Config contains process configuration for the contest engine.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the operator HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// DataDir is the directory holding the aggregate snapshot documents.
	DataDir string `koanf:"data_dir"`

	// HistoryLimit caps each user's conversation-context log.
	HistoryLimit int `koanf:"history_limit"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// AdvisorLatencyMinMS and AdvisorLatencyMaxMS bound the simulated
	// advisor call latency.
	AdvisorLatencyMinMS int `koanf:"advisor_latency_min_ms"`
	AdvisorLatencyMaxMS int `koanf:"advisor_latency_max_ms"`

	// AdvisorSeed seeds the stub advisor for reproducible reviews.
	AdvisorSeed int64 `koanf:"advisor_seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		DataDir:             "data",
		HistoryLimit:        20,
		MaxLeaderboardLimit: 100,
		AdvisorLatencyMinMS: 40,
		AdvisorLatencyMaxMS: 120,
		AdvisorSeed:         42,
	}
}
