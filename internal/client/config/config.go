package config

import "time"

// Config holds runtime settings for the bucket-list CLI.
//
// Fields:
//   - APIBaseURL: root of the REST backend, e.g. http://localhost:8000/api/.
//   - SessionDBPath: SQLite file that keeps the session between runs;
//     ":memory:" keeps it for the lifetime of the process only.
//   - LogFile: rotated JSON log; empty disables logging.
//   - LogLevel: debug, info, warn or error.
//   - RequestTimeout: per-request limit; zero means none.
type Config struct {
	APIBaseURL     string
	SessionDBPath  string
	LogFile        string
	LogLevel       string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api/"
	c.SessionDBPath = "bucketlist.db"
	c.LogFile = ""
	c.LogLevel = "info"
	c.RequestTimeout = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
