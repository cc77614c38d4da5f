package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parikshahq/pariksha-backend/internal/model"
)

// MonitorRepository handles the append-only proctoring event store.
type MonitorRepository struct {
	pool *pgxpool.Pool
}

// NewMonitorRepository creates a new MonitorRepository.
func NewMonitorRepository(pool *pgxpool.Pool) *MonitorRepository {
	return &MonitorRepository{pool: pool}
}

// Insert appends a single event.
func (r *MonitorRepository) Insert(ctx context.Context, ev *model.MonitoringEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO monitoring_logs (user_id, exam_id, event_type, details, logged_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		ev.UserID, ev.ExamID, ev.EventType, ev.Details, ev.LoggedAt)
	return err
}

// InsertBatch appends a batch of events with a single UNNEST insert.
func (r *MonitorRepository) InsertBatch(ctx context.Context, events []*model.MonitoringEvent) error {
	n := len(events)
	if n == 0 {
		return nil
	}

	userIDs := make([]int, n)
	examIDs := make([]uuid.UUID, n)
	types := make([]string, n)
	details := make([]string, n)
	loggedAts := make([]time.Time, n)

	for i, ev := range events {
		userIDs[i] = ev.UserID
		examIDs[i] = ev.ExamID
		types[i] = ev.EventType
		details[i] = ev.Details
		loggedAts[i] = ev.LoggedAt
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO monitoring_logs (user_id, exam_id, event_type, details, logged_at)
		 SELECT * FROM UNNEST($1::int[], $2::uuid[], $3::text[], $4::text[], $5::timestamptz[])`,
		userIDs, examIDs, types, details, loggedAts)
	return err
}

// ListByExam retrieves all events for an exam, oldest first.
func (r *MonitorRepository) ListByExam(ctx context.Context, examID uuid.UUID) ([]model.MonitoringEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, exam_id, event_type, details, logged_at
		 FROM monitoring_logs WHERE exam_id = $1
		 ORDER BY logged_at ASC`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.MonitoringEvent
	for rows.Next() {
		var ev model.MonitoringEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.ExamID, &ev.EventType, &ev.Details, &ev.LoggedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
