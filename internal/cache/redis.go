// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/unoarena/unoarena/internal/uno"
)

// Rdb is the global Redis client. Connect it once at application startup;
// publishing is a no-op while it is nil so the engine never depends on
// Redis being up.
var Rdb *redis.Client

// DefaultQueueName is the Redis list (queue) the historian consumes.
var DefaultQueueName = "uno_turns"

// queueName is set by ConnectRedis; defaults to DefaultQueueName.
var queueName = DefaultQueueName

// TurnRecord is the wire form of one resolved turn, queued for the
// historian. Timestamp is epoch millis at publish time; the engine-side
// ordinal inside Record preserves the authoritative order.
type TurnRecord struct {
	GameID    uuid.UUID  `json:"game_id"`
	MatchID   uuid.UUID  `json:"match_id,omitempty"`
	Record    uno.Record `json:"record"`
	Timestamp int64      `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client and pings it.
func ConnectRedis(addr string, db int, queue string) error {
	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if queue != "" {
		queueName = queue
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishTurnRecord serializes the record to JSON and pushes it onto the
// queue. Cheap enough to call inline from a history sink.
func PublishTurnRecord(ctx context.Context, rec TurnRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal TurnRecord: %w", err)
	}
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list %q: %w", queueName, err)
	}
	return nil
}

// SinkFor returns a dealer history sink that asynchronously publishes each
// record for the given game.
func SinkFor(gameID uuid.UUID, logf func(format string, v ...interface{})) func(uno.Record) {
	return func(r uno.Record) {
		rec := TurnRecord{
			GameID:    gameID,
			Record:    r,
			Timestamp: time.Now().UnixMilli(),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := PublishTurnRecord(ctx, rec); err != nil && logf != nil {
				logf("publish turn record %d for game %s: %v", r.Ordinal, gameID, err)
			}
		}()
	}
}
