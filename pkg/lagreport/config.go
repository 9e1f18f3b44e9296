// Package lagreport exposes per-partition consumer lag as a cached,
// JWT-protected HTTP surface, with an on-demand xlsx export for operators
// who want a spreadsheet rather than a dashboard.
package lagreport

import (
	"fmt"
	"time"
)

// Config holds the settings for the lag cache, its HTTP surface, and the
// bearer token it requires.
type Config struct {
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	SnapshotTTL time.Duration

	ListenAddr string
	JWTSecret  string
}

// DefaultConfig returns sensible defaults, following the teacher's
// DefaultConfig convention.
func DefaultConfig() Config {
	return Config{
		RedisHost:   "localhost",
		RedisPort:   6379,
		SnapshotTTL: 30 * time.Second,
		ListenAddr:  ":8081",
	}
}

// Validate checks the settings a Cache needs, in the same hand-rolled
// style as the teacher's pkg/redis.Config.Validate.
func (c *Config) Validate() error {
	if c.RedisHost == "" {
		return fmt.Errorf("lagreport: redis host is required")
	}
	if c.RedisPort == 0 {
		return fmt.Errorf("lagreport: redis port is required")
	}
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("lagreport: snapshot_ttl must be greater than 0")
	}
	return nil
}

// ValidateServer checks the settings NewServer needs; unlike Validate it
// has no opinion on Redis fields, since a Server is handed an
// already-connected Cache rather than building one itself.
func (c *Config) ValidateServer() error {
	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("lagreport: snapshot_ttl must be greater than 0")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("lagreport: jwt secret is required")
	}
	return nil
}
