// internal/historian/historian.go is an asynchronous historian that pops
// resolved turn records from a Redis queue and persists them to PostgreSQL.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/unoarena/unoarena/internal/cache"
	"github.com/unoarena/unoarena/internal/config"
	"github.com/unoarena/unoarena/internal/database"
	"github.com/unoarena/unoarena/internal/uno"
)

// Service encapsulates the Redis + DB logic for capturing turn records and
// marking games abandoned when the inactivity threshold is reached.
type Service struct {
	redisClient  *redis.Client
	queueName    string
	batchSize    int
	flushDelay   time.Duration
	inactivity   time.Duration
	lastActivity sync.Map // map[uuid.UUID]time.Time, last turn seen per game

	batchMu  sync.Mutex
	batch    []cache.TurnRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewService constructs a historian from the process config.
func NewService(cfg config.Config) *Service {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		redisClient: rdb,
		queueName:   cfg.HistorianQueue,
		batchSize:   cfg.HistorianBatch,
		flushDelay:  time.Duration(cfg.HistorianFlushMS) * time.Millisecond,
		inactivity:  time.Duration(cfg.GameInactivitySec) * time.Second,
		batch:       make([]cache.TurnRecord, 0, cfg.HistorianBatch),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run starts the two main loops:
//  1. A loop that reads from the Redis queue, accumulates records in a batch,
//     and flushes them to the DB.
//  2. A periodic check that marks long-idle games as abandoned.
//
// The caller is expected to have connected the database already. Run blocks
// until Stop is called.
func (s *Service) Run() {
	go s.readRedisLoop()
	go s.inactivityLoop()

	log.Println("uno-historian service started.")
	<-s.ctx.Done()
	s.flushBatchToDB()
	log.Println("uno-historian shutting down.")
}

// Stop gracefully stops the historian.
func (s *Service) Stop() {
	s.cancelFn()
}

// readRedisLoop continuously uses BLPop to retrieve records from the queue.
func (s *Service) readRedisLoop() {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			s.flushBatchToDB()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := s.redisClient.BLPop(s.ctx, 3*time.Second, s.queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if s.ctx.Err() != nil {
					return
				}
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				// No message popped.
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			var rec cache.TurnRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Printf("invalid turn record: %v\n", err)
				continue
			}

			s.lastActivity.Store(rec.GameID, time.Now())
			s.appendToBatch(rec)
		}
	}
}

// appendToBatch adds a record to the in-memory batch and flushes if the
// threshold is reached.
func (s *Service) appendToBatch(rec cache.TurnRecord) {
	s.batchMu.Lock()
	flush := false
	s.batch = append(s.batch, rec)
	if len(s.batch) >= s.batchSize {
		flush = true
	}
	s.batchMu.Unlock()

	if flush {
		s.flushBatchToDB()
	}
}

// flushBatchToDB writes the current batch to the database in one transaction.
func (s *Service) flushBatchToDB() {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	batchCopy := make([]cache.TurnRecord, len(s.batch))
	copy(batchCopy, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batchCopy {
			if err := insertTurnRecordTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertTurnRecordTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] flushBatchToDB: %v\n", err)
	} else {
		log.Printf("Flushed %d turn records to DB.\n", len(batchCopy))
	}
}

// inactivityLoop periodically checks whether any game has been idle beyond
// the configured threshold and marks such games abandoned.
func (s *Service) inactivityLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()
			s.lastActivity.Range(func(key, val interface{}) bool {
				gameID, ok1 := key.(uuid.UUID)
				last, ok2 := val.(time.Time)
				if ok1 && ok2 && now.Sub(last) > s.inactivity {
					s.markGameAbandoned(gameID)
					s.lastActivity.Delete(gameID)
				}
				return true
			})
		}
	}
}

// markGameAbandoned marks a game as 'abandoned' if it is still 'in_progress'.
func (s *Service) markGameAbandoned(gameID uuid.UUID) {
	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			UPDATE games
			SET status = 'abandoned', end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		_, e := tx.Exec(ctx, q, gameID)
		return e
	})
	if err != nil {
		log.Printf("failed to mark game %v abandoned: %v", gameID, err)
	} else {
		log.Printf("Marked game %v as 'abandoned' due to inactivity.", gameID)
	}
}

// insertTurnRecordTx upserts the game row and inserts one game_turns row.
// A record whose resulting hand size is zero finalizes the game.
func insertTurnRecordTx(ctx context.Context, tx pgx.Tx, rec cache.TurnRecord) error {
	upsertGameQ := `
		INSERT INTO games (id, status, start_time)
		VALUES ($1, 'in_progress', NOW())
		ON CONFLICT (id)
		DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID); err != nil {
		return err
	}

	r := rec.Record
	movePayload, err := json.Marshal(r.Move)
	if err != nil {
		return err
	}
	var forfeitPayload []byte
	if r.Forfeit != nil {
		if forfeitPayload, err = json.Marshal(r.Forfeit); err != nil {
			return err
		}
	}

	turnInsertQ := `
		INSERT INTO game_turns (
			game_id, ordinal, turn_index, player_id, move, forfeit,
			active_color, cards_remaining, cards_drawn, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, to_timestamp($10 / 1000.0))
		ON CONFLICT (game_id, ordinal) DO NOTHING
	`
	_, err = tx.Exec(ctx, turnInsertQ,
		rec.GameID, r.Ordinal, r.TurnIndex, r.PlayerID, movePayload, forfeitPayload,
		r.ActiveColor.String(), r.CardsRemaining, r.CardsDrawn, rec.Timestamp,
	)
	if err != nil {
		return err
	}

	if r.CardsRemaining == 0 && r.Move.Type == uno.MovePlayCard {
		finalizeQ := `
			UPDATE games
			SET status = 'completed', winner_id = $2, end_time = NOW()
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID, r.PlayerID); err != nil {
			return err
		}
	}
	return nil
}
