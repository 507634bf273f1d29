// cmd/journal/main.go is an asynchronous archiver service that pops resolved
// turn records from the Redis journal queue and persists them to PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/wordarena/wordarena/internal/cache"
	"github.com/wordarena/wordarena/internal/database"
)

// JournalService encapsulates the Redis + DB logic for archiving resolved
// turns and marking sessions abandoned after a period of silence.
type JournalService struct {
	redisClient  *redis.Client
	batchSize    int
	flushDelay   time.Duration
	inactivity   time.Duration // duration until a session is marked "abandoned"
	lastActivity sync.Map      // map[uuid.UUID]time.Time per session

	batchMu  sync.Mutex
	batch    []cache.TurnRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewJournalService constructs a JournalService from environment variables or
// defaults.
func NewJournalService() *JournalService {
	batchSize := getEnvInt("JOURNAL_BATCH_SIZE", 20)
	flushMs := getEnvInt("JOURNAL_FLUSH_MS", 500)
	inactivitySec := getEnvInt("SESSION_INACTIVITY_TIMEOUT_SEC", 600) // default 10 min

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &JournalService{
		redisClient: rdb,
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		inactivity:  time.Duration(inactivitySec) * time.Second,
		batch:       make([]cache.TurnRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects the database and starts the two main loops: the queue reader
// with its batch flusher, and the periodic inactivity sweep.
func (js *JournalService) Run() {
	database.ConnectDB()

	go js.readRedisLoop()
	go js.inactivityLoop()

	log.Println("wordarena-journal service started.")
	<-js.ctx.Done()
	log.Println("wordarena-journal shutting down.")
}

// readRedisLoop continuously uses BLPop to retrieve turn records from the
// journal queue.
func (js *JournalService) readRedisLoop() {
	ticker := time.NewTicker(js.flushDelay)
	defer ticker.Stop()

	queueName := getEnv("OUTCOME_QUEUE_NAME", cache.DefaultQueueName)

	for {
		select {
		case <-js.ctx.Done():
			return

		case <-ticker.C:
			js.flushBatchToDB()

		default:
			// BLPop with a 3-second timeout so context cancellation is handled.
			res, err := js.redisClient.BLPop(js.ctx, 3*time.Second, queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				// No record popped.
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			payload := res[1]
			var record cache.TurnRecord
			if err := json.Unmarshal([]byte(payload), &record); err != nil {
				log.Printf("invalid turn record: %v\n", err)
				continue
			}

			js.lastActivity.Store(record.SessionID, time.Now())
			js.appendToBatch(record)
		}
	}
}

// appendToBatch adds a record to the in-memory batch and flushes if the
// threshold is reached.
func (js *JournalService) appendToBatch(record cache.TurnRecord) {
	js.batchMu.Lock()
	defer js.batchMu.Unlock()

	js.batch = append(js.batch, record)
	if len(js.batch) >= js.batchSize {
		js.flushBatchToDB()
	}
}

// flushBatchToDB writes the current batch to the database in one transaction.
func (js *JournalService) flushBatchToDB() {
	js.batchMu.Lock()
	defer js.batchMu.Unlock()

	if len(js.batch) == 0 {
		return
	}
	batchCopy := make([]cache.TurnRecord, len(js.batch))
	copy(batchCopy, js.batch)
	js.batch = js.batch[:0]

	ctx := context.Background()
	err := beginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batchCopy {
			if err := insertTurnTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertTurnTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] flushBatchToDB: %v\n", err)
	} else {
		log.Printf("Flushed %d turns to DB.\n", len(batchCopy))
	}
}

// inactivityLoop periodically marks sessions that stopped producing turns as
// abandoned. Sessions the engine ends cleanly are finalized by their last
// record instead.
func (js *JournalService) inactivityLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-js.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()
			js.lastActivity.Range(func(key, val interface{}) bool {
				sessionID, ok1 := key.(uuid.UUID)
				last, ok2 := val.(time.Time)
				if ok1 && ok2 && now.Sub(last) > js.inactivity {
					js.markSessionAbandoned(sessionID)
					js.lastActivity.Delete(sessionID)
				}
				return true
			})
		}
	}
}

// markSessionAbandoned marks a session 'abandoned' if it is still 'in_progress'.
func (js *JournalService) markSessionAbandoned(sessionID uuid.UUID) {
	ctx := context.Background()
	err := beginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE sessions
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, q, sessionID)
		return e
	})
	if err != nil {
		log.Printf("failed to mark session %v abandoned: %v", sessionID, err)
	} else {
		log.Printf("Marked session %v as 'abandoned' due to inactivity.", sessionID)
	}
}

// insertTurnTx upserts the session row, appends the turn, and finalizes the
// session when the record carries the game-over flag.
func insertTurnTx(ctx context.Context, tx pgx.Tx, rec cache.TurnRecord) error {
	upsertSessionQ := `
		INSERT INTO sessions (id, chat_id, status, start_time)
		VALUES ($1, $2, 'in_progress', NOW())
		ON CONFLICT (id)
		DO UPDATE SET status = 'in_progress'
	`
	_, err := tx.Exec(ctx, upsertSessionQ, rec.SessionID, rec.ChatID)
	if err != nil {
		return err
	}

	turnInsertQ := `
		INSERT INTO session_turns (
			session_id, seq, round, player_id, outcome, word, points, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, to_timestamp($8))
		ON CONFLICT (session_id, seq) DO NOTHING
	`
	_, err = tx.Exec(ctx, turnInsertQ,
		rec.SessionID, rec.Seq, rec.Round, rec.PlayerID, rec.Outcome, rec.Word, rec.Points, rec.Timestamp,
	)
	if err != nil {
		return err
	}

	if rec.GameOver {
		finalizeQ := `
			UPDATE sessions
			SET status = 'completed', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, err = tx.Exec(ctx, finalizeQ, rec.SessionID)
		if err != nil {
			return err
		}
	}
	return nil
}

// beginTxFunc starts a transaction on the pool, calls f, and commits or rolls
// back as needed.
func beginTxFunc(ctx context.Context, pool *pgxpool.Pool, txOptions pgx.TxOptions, f func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx rollback error: %v; original error: %w", rbErr, err)
		}
		return err
	}
	return tx.Commit(ctx)
}

// Stop gracefully stops the journal service.
func (js *JournalService) Stop() {
	js.cancelFn()
}

func main() {
	js := NewJournalService()
	go js.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	js.Stop()
	log.Println("Journal shutdown complete.")
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer from an environment variable or returns a
// default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}
