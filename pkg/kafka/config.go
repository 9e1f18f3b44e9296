// Package kafka adapts a real *kgo.Client to the kactor.Client interface,
// and provides a small startup preflight (kadm) the actor loop never
// touches.
package kafka

import (
	"fmt"
	"time"
)

// Config mirrors the teacher's pkg/kafka Config shape, extended with the
// timeouts kactor's own Config needs a downstream client for.
type Config struct {
	Brokers []string
	Group   string

	// Topics is the fixed topic list for SubscribeTopics-style usage.
	// Leave empty when the caller drives subscription via a pattern or a
	// manual assignment instead.
	Topics []string

	// ConnectTimeout bounds the initial client construction and ping.
	ConnectTimeout time.Duration
}

// DefaultConfig mirrors the teacher's DefaultConfig convention.
func DefaultConfig() Config {
	return Config{
		Brokers:        []string{"localhost:9092"},
		Group:          "kactor-consumer",
		ConnectTimeout: 10 * time.Second,
	}
}

// Validate checks the configuration, hand-rolled in the same style as the
// teacher's pkg/kafka.Config.Validate.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka: at least one broker is required")
	}
	if c.Group == "" {
		return fmt.Errorf("kafka: group is required")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("kafka: connect_timeout must be greater than 0")
	}
	return nil
}
