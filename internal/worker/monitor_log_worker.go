package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/parikshahq/pariksha-backend/internal/config"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/parikshahq/pariksha-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	MonitorBatchSize    = 100
	MonitorBatchTimeout = 2 * time.Second
	MonitorPollTimeout  = 1 * time.Second
)

// MonitorLogWorker drains the monitoring event queue and persists events
// in batches. Ingestion stays fast no matter how chatty the proctoring
// clients get.
type MonitorLogWorker struct {
	monitorRepo *repository.MonitorRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

func NewMonitorLogWorker(monitorRepo *repository.MonitorRepository, rdb *redis.Client, log zerolog.Logger) *MonitorLogWorker {
	return &MonitorLogWorker{
		monitorRepo: monitorRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "monitor_log_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *MonitorLogWorker) Start(ctx context.Context) {
	w.log.Info().Msg("MonitorLogWorker started")

	batch := make([]*model.MonitoringEvent, 0, MonitorBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= MonitorBatchSize || time.Since(lastFlush) >= MonitorBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, MonitorPollTimeout, config.WorkerKey.MonitorLogQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev model.MonitoringEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &ev)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert wrapper
// ----------------------------------------------------------------

func (w *MonitorLogWorker) flushSafe(ctx context.Context, batch []*model.MonitoringEvent) {
	if len(batch) == 0 {
		return
	}

	if err := w.monitorRepo.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("batch insert failed, using fallback")

		for _, ev := range batch {
			if err := w.monitorRepo.Insert(ctx, ev); err != nil {
				w.log.Error().Err(err).Msg("single insert failed, requeueing")
				raw, _ := json.Marshal(ev)
				w.rdb.RPush(ctx, config.WorkerKey.MonitorLogQueue, raw)
			}
		}
	}
}
