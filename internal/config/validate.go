package config

import (
	"fmt"
	"strings"

	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/rating"
)

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.SpeedrunSource) == "":
		return fmt.Errorf("%w: speedrun_source must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.HardSource) == "":
		return fmt.Errorf("%w: hard_source must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.ReloadDebounceMS < 0:
		return fmt.Errorf("%w: reload_debounce_ms must not be negative", ErrInvalidConfig)
	case c.ReloadQueueSize <= 0:
		return fmt.Errorf("%w: reload_queue_size must be positive", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

// Registry builds the rating schema registry: built-in schemas overridden by
// RatingSchemas.
func (c *Config) Registry() (*rating.Registry, error) {
	opts := make([]rating.Option, 0, len(c.RatingSchemas))
	seen := make(map[model.Category]string, len(c.RatingSchemas))
	for name, s := range c.RatingSchemas {
		category, err := model.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("%w: rating_schemas: %w", ErrInvalidConfig, err)
		}
		if prev, dup := seen[category]; dup {
			return nil, fmt.Errorf("%w: rating_schemas: category %q given twice (%q and %q)", ErrInvalidConfig, category, prev, name)
		}
		seen[category] = name
		opts = append(opts, rating.WithCategory(category, rating.CategorySchemas{
			Default:  s.Default,
			Versions: s.Versions,
		}))
	}
	reg, err := rating.NewRegistry(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return reg, nil
}
