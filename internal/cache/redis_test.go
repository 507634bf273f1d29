// internal/cache/redis_test.go
package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TestPublishAndPopTurnRecord pushes one record through the journal queue and
// pops it back. Requires a local Redis; skipped otherwise.
func TestPublishAndPopTurnRecord(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("no local redis available: %v", err)
	}

	prev := Rdb
	Rdb = rdb
	defer func() { Rdb = prev }()

	record := TurnRecord{
		SessionID: uuid.New(),
		ChatID:    "chat-test",
		Seq:       3,
		Round:     2,
		PlayerID:  "A",
		Outcome:   "accepted",
		Word:      "cat",
		Points:    3,
		Timestamp: time.Now().Unix(),
	}
	if err := PublishTurnRecord(ctx, record); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	res, err := rdb.BLPop(ctx, time.Second, DefaultQueueName).Result()
	if err != nil {
		t.Fatalf("failed to blpop: %v", err)
	}
	if len(res) < 2 {
		t.Fatalf("expected queue name and payload, got %v", res)
	}

	var got TurnRecord
	if err := json.Unmarshal([]byte(res[1]), &got); err != nil {
		t.Fatalf("invalid record payload: %v", err)
	}
	if got.SessionID != record.SessionID || got.Word != "cat" || got.Seq != 3 {
		t.Fatalf("record mismatch: %+v", got)
	}
}
