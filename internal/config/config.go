// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"time"
)

// RatingSchema describes the versions of one category's rating schema.
type RatingSchema struct {
	// Default is the version used by records without a schema tag.
	Default string `koanf:"default"`
	// Versions maps a version name to its sub-score fields.
	Versions map[string][]string `koanf:"versions"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SpeedrunSource, HardSource and ProfilesSource locate the feeds: a file
	// path or an http(s) URL. ProfilesSource may be empty.
	SpeedrunSource string `koanf:"speedrun_source"`
	HardSource     string `koanf:"hard_source"`
	ProfilesSource string `koanf:"profiles_source"`

	// FetchTimeoutMS bounds a single HTTP feed download.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// Watch enables reloading when local feed files change.
	Watch bool `koanf:"watch"`

	// ReloadDebounceMS is how long files must stay quiet before a reload.
	ReloadDebounceMS int `koanf:"reload_debounce_ms"`

	// ReloadQueueSize bounds pending reload requests.
	ReloadQueueSize int `koanf:"reload_queue_size"`

	// MaxLeaderboardLimit caps GET /leaderboard/{criterion}?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// DefaultAvatar and DefaultBanner fill in missing profile images.
	DefaultAvatar string `koanf:"default_avatar"`
	DefaultBanner string `koanf:"default_banner"`

	// RatingSchemas overrides the built-in schemas per category.
	RatingSchemas map[string]RatingSchema `koanf:"rating_schemas"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		SpeedrunSource:      "data/speedrun.json",
		HardSource:          "data/hard.json",
		ProfilesSource:      "data/profiles.json",
		FetchTimeoutMS:      10_000,
		Watch:               true,
		ReloadDebounceMS:    500,
		ReloadQueueSize:     4,
		MaxLeaderboardLimit: 100,
		DefaultAvatar:       "/static/default-avatar.png",
		DefaultBanner:       "/static/default-banner.png",
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// ReloadDebounce returns ReloadDebounceMS as a duration.
func (c *Config) ReloadDebounce() time.Duration {
	return time.Duration(c.ReloadDebounceMS) * time.Millisecond
}
