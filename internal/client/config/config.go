package config

import "time"

// Config holds runtime settings for the inscription CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API (scheme://host[:port]).
//   - RequestTimeout: per-request deadline applied to every network call.
//   - DatabasePath: path of the local SQLite cache database.
//   - DownloadsDir: subdirectory (of the working directory) receiving
//     downloaded documents.
//   - LogLevel: minimum level for structured logs ("debug", "info", ...).
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
	DownloadsDir   string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:3000"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "inscription.db"
	c.DownloadsDir = "downloads"
	c.LogLevel = "info"
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
