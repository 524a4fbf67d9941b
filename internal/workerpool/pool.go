package workerpool

import (
	"codequest/internal/logger"
	"codequest/internal/ranking"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StreamNotifier queues rank-recompute events on a redis stream. It is the
// ranking.Notifier used by the engine on scoring events.
type StreamNotifier struct {
	rdb    *redis.Client
	stream string
}

func NewStreamNotifier(rdb *redis.Client, stream string) *StreamNotifier {
	return &StreamNotifier{rdb: rdb, stream: stream}
}

func (n *StreamNotifier) NotifyRecompute(ctx context.Context) error {
	err := n.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		ID:     "*", // Auto-generate ID
		Values: map[string]interface{}{
			"requested_at": time.Now().UnixMilli(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to queue recompute event: %w", err)
	}
	return nil
}

// RecomputeWorker is the single consumer of the recompute stream. Global
// rank recompute is a full read-sort-write pass, so exactly one of these
// runs; the stream serializes scoring events into it.
type RecomputeWorker struct {
	id     string
	quit   chan bool
	rdb    *redis.Client
	stream string
	group  string
	engine *ranking.Engine
}

func NewRecomputeWorker(rdb *redis.Client, stream, group string, engine *ranking.Engine) *RecomputeWorker {
	return &RecomputeWorker{
		id:     "RankWorker-1",
		quit:   make(chan bool),
		rdb:    rdb,
		stream: stream,
		group:  group,
		engine: engine,
	}
}

func (w *RecomputeWorker) Start(ctx context.Context) error {
	// Create consumer group if it doesn't exist
	_, err := w.rdb.XGroupCreateMkStream(ctx, w.stream, w.group, "$").Result()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	go func() {
		for {
			select {
			case <-w.quit:
				return
			default:
				entries, err := w.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
					Group:    w.group,
					Consumer: w.id,
					Streams:  []string{w.stream, ">"},
					Count:    10,
					Block:    5 * time.Second,
				}).Result()

				if err != nil {
					if err != redis.Nil {
						logger.Log.Error("Redis operation failed",
							zap.String("worker_id", w.id),
							zap.Error(err))
					}
					continue
				}

				w.processBatch(ctx, entries)
			}
		}
	}()

	logger.Log.Info("Rank recompute worker started",
		zap.String("worker_id", w.id),
		zap.String("stream", w.stream))

	return nil
}

// processBatch acknowledges every pending event and runs a single recompute
// for the batch; back-to-back scoring events collapse into one pass.
func (w *RecomputeWorker) processBatch(ctx context.Context, entries []redis.XStream) {
	pending := 0
	for _, stream := range entries {
		for _, msg := range stream.Messages {
			if err := w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err(); err != nil {
				logger.Log.Error("Failed to acknowledge recompute event",
					zap.String("worker_id", w.id),
					zap.Error(err))
			}
			pending++
		}
	}
	if pending == 0 {
		return
	}

	start := time.Now()
	if err := w.engine.RecomputeRanks(ctx); err != nil {
		logger.Log.Error("Rank recompute failed",
			zap.String("worker_id", w.id),
			zap.Error(err))
		return
	}

	logger.Log.Info("Ranks recomputed",
		zap.String("worker_id", w.id),
		zap.Int("coalesced_events", pending),
		zap.Duration("elapsed", time.Since(start)))
}

func (w *RecomputeWorker) Stop() {
	logger.Log.Info("Closing worker",
		zap.String("worker_id", w.id))
	w.quit <- true
	close(w.quit)
}
