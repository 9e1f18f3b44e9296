package auditstore

import (
	"fmt"
	"time"
)

// Config holds the connection settings for the commit-failure audit store.
// Mirrors the teacher's pkg/postgres Config shape, trimmed to what a
// single append-only table needs: no master/slave split, no pool sizing
// knobs beyond the two that matter for a low-volume audit sink.
type Config struct {
	DSN string

	MaxConns       int32
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
	MaxRetries     int
	RetryInterval  time.Duration
}

// DefaultConfig returns sensible defaults, following the teacher's
// DefaultConfig convention.
func DefaultConfig() Config {
	return Config{
		MaxConns:       4,
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   5 * time.Second,
		MaxRetries:     3,
		RetryInterval:  time.Second,
	}
}

// Validate checks the configuration, hand-rolled in the same style as the
// teacher's pkg/postgres.Config.Validate.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("auditstore: dsn is required")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("auditstore: max_conns must be greater than 0")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("auditstore: connect_timeout must be greater than 0")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("auditstore: query_timeout must be greater than 0")
	}
	return nil
}
