// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup;
// journaling is skipped while it is nil.
var Rdb *redis.Client

// DefaultQueueName is the Redis list the engine journals resolved turns to.
var DefaultQueueName = "wordarena_turns"

// TurnRecord is the journal entry for one resolved turn, consumed by the
// out-of-process archiver.
type TurnRecord struct {
	SessionID uuid.UUID `json:"session_id"`
	ChatID    string    `json:"chat_id"`
	Seq       uint64    `json:"seq"`
	Round     int       `json:"round"`
	PlayerID  string    `json:"player_id"`
	Outcome   string    `json:"outcome"`
	Word      string    `json:"word,omitempty"`
	Points    int       `json:"points,omitempty"`
	GameOver  bool      `json:"game_over,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client from REDIS_ADDR (default
// "localhost:6379") and REDIS_DB (default 0).
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishTurnRecord serializes the record to JSON and pushes it onto the
// journal queue. A quick network send; never blocks game logic.
func PublishTurnRecord(ctx context.Context, record TurnRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal TurnRecord: %w", err)
	}

	queueName := getEnv("OUTCOME_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
