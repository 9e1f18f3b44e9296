package lagreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	kredis "kactor/pkg/redis"

	"kactor/pkg/kactor"
)

// Snapshot is a point-in-time lag reading for every partition a group has
// assigned. Lags is keyed by "topic:partition" rather than kactor.TP
// because encoding/json cannot use a struct as a map key.
type Snapshot struct {
	GroupID    string           `json:"group_id"`
	Lags       map[string]int64 `json:"lags"`
	CapturedAt time.Time        `json:"captured_at"`
}

func tpKey(tp kactor.TP) string { return fmt.Sprintf("%s:%d", tp.Topic, tp.Partition) }

// Cache stores lag snapshots in Redis, adapting the teacher's
// pkg/redis.SingleNodeClient (a generic ping/connect wrapper) into a
// domain-specific read/write pair scoped to one key per consumer group.
type Cache struct {
	conn kredis.SingleNodeClient
	ttl  time.Duration
}

// NewCache connects to Redis using the teacher's Connection wrapper and
// returns a Cache ready to store snapshots.
func NewCache(ctx context.Context, cfg Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	conn := kredis.NewConnection(kredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("lagreport: connect redis: %w", err)
	}
	return &Cache{conn: conn, ttl: cfg.SnapshotTTL}, nil
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error { return c.conn.Close() }

func snapshotKey(groupID string) string { return "lagreport:snapshot:" + groupID }

// Put stores lags for groupID, keyed by topic:partition, expiring after the
// configured snapshot TTL.
func (c *Cache) Put(ctx context.Context, groupID string, lags map[kactor.TP]int64) error {
	byKey := make(map[string]int64, len(lags))
	for tp, lag := range lags {
		byKey[tpKey(tp)] = lag
	}

	snap := Snapshot{GroupID: groupID, Lags: byKey, CapturedAt: time.Now()}
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("lagreport: marshal snapshot: %w", err)
	}

	if err := c.conn.GetClient().Set(ctx, snapshotKey(groupID), body, c.ttl).Err(); err != nil {
		return fmt.Errorf("lagreport: write snapshot: %w", err)
	}
	return nil
}

// Get returns the last stored snapshot for groupID, or ok=false if none is
// cached or it has expired.
func (c *Cache) Get(ctx context.Context, groupID string) (snap Snapshot, ok bool, err error) {
	body, err := c.conn.GetClient().Get(ctx, snapshotKey(groupID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("lagreport: read snapshot: %w", err)
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("lagreport: unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}
