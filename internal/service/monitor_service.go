package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parikshahq/pariksha-backend/internal/config"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventQueue is the transport between the log endpoint and the background
// writer. Satisfied by redisEventQueue.
type EventQueue interface {
	Enqueue(ctx context.Context, payload []byte) error
}

// EventSink persists events directly. Satisfied by repository.MonitorRepository.
// Used only as a fallback when the queue is unavailable.
type EventSink interface {
	Insert(ctx context.Context, ev *model.MonitoringEvent) error
}

type redisEventQueue struct {
	rdb *redis.Client
}

// NewRedisEventQueue returns an EventQueue backed by a Redis list.
func NewRedisEventQueue(rdb *redis.Client) EventQueue {
	return &redisEventQueue{rdb: rdb}
}

func (q *redisEventQueue) Enqueue(ctx context.Context, payload []byte) error {
	return q.rdb.RPush(ctx, config.WorkerKey.MonitorLogQueue, payload).Err()
}

// MonitorService records proctoring events. Writes are fire-and-forget
// relative to the attempt lifecycle: they never block or fail a submission,
// and a failure here is reported only through the endpoint's success flag.
type MonitorService struct {
	queue EventQueue
	sink  EventSink
	log   zerolog.Logger
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(queue EventQueue, sink EventSink, log zerolog.Logger) *MonitorService {
	return &MonitorService{
		queue: queue,
		sink:  sink,
		log:   log.With().Str("component", "monitor_service").Logger(),
	}
}

// LogEvent accepts an event verbatim, regardless of any session or result
// state. Events arriving after an attempt expired are still recorded.
func (s *MonitorService) LogEvent(ctx context.Context, userID int, req *model.LogEventRequest) error {
	ev := &model.MonitoringEvent{
		UserID:    userID,
		ExamID:    req.ExamID,
		EventType: req.EventType,
		Details:   req.Details,
		LoggedAt:  time.Now(),
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := s.queue.Enqueue(ctx, payload); err != nil {
		s.log.Warn().Err(err).Msg("Event queue unavailable, inserting directly")
		if err := s.sink.Insert(ctx, ev); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return nil
}
