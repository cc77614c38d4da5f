package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/parikshahq/pariksha-backend/internal/model"
	"github.com/rs/zerolog"
)

type fakeEventQueue struct {
	payloads [][]byte
	failing  bool
}

func (q *fakeEventQueue) Enqueue(_ context.Context, payload []byte) error {
	if q.failing {
		return errors.New("queue down")
	}
	q.payloads = append(q.payloads, payload)
	return nil
}

type fakeEventSink struct {
	events  []*model.MonitoringEvent
	failing bool
}

func (s *fakeEventSink) Insert(_ context.Context, ev *model.MonitoringEvent) error {
	if s.failing {
		return errors.New("sink down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestLogEventEnqueuesVerbatim(t *testing.T) {
	queue := &fakeEventQueue{}
	sink := &fakeEventSink{}
	svc := NewMonitorService(queue, sink, zerolog.Nop())

	req := &model.LogEventRequest{
		ExamID:    uuid.New(),
		EventType: "tab_switch",
		Details:   "blur at 00:14:09",
	}
	if err := svc.LogEvent(context.Background(), 42, req); err != nil {
		t.Fatalf("log event: %v", err)
	}

	if len(queue.payloads) != 1 {
		t.Fatalf("expected 1 queued payload, got %d", len(queue.payloads))
	}
	if len(sink.events) != 0 {
		t.Fatal("sink written despite healthy queue")
	}

	var ev model.MonitoringEvent
	if err := json.Unmarshal(queue.payloads[0], &ev); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if ev.UserID != 42 || ev.ExamID != req.ExamID || ev.EventType != "tab_switch" || ev.Details != req.Details {
		t.Fatalf("event not stored verbatim: %+v", ev)
	}
}

func TestLogEventFallsBackToDirectInsert(t *testing.T) {
	queue := &fakeEventQueue{failing: true}
	sink := &fakeEventSink{}
	svc := NewMonitorService(queue, sink, zerolog.Nop())

	req := &model.LogEventRequest{ExamID: uuid.New(), EventType: "fullscreen_exit"}
	if err := svc.LogEvent(context.Background(), 7, req); err != nil {
		t.Fatalf("log event with fallback: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected direct insert fallback, got %d events", len(sink.events))
	}
}

func TestLogEventReportsFailureWhenBothPathsDown(t *testing.T) {
	queue := &fakeEventQueue{failing: true}
	sink := &fakeEventSink{failing: true}
	svc := NewMonitorService(queue, sink, zerolog.Nop())

	req := &model.LogEventRequest{ExamID: uuid.New(), EventType: "tab_switch"}
	if err := svc.LogEvent(context.Background(), 7, req); err == nil {
		t.Fatal("expected error when queue and sink are both down")
	}
}

// Monitoring failures never touch the attempt lifecycle: a submission
// still succeeds while the event pipeline is completely down.
func TestMonitoringFailureDoesNotAffectScoring(t *testing.T) {
	ctx := context.Background()
	f := newScoringFixture(t)

	monitor := NewMonitorService(&fakeEventQueue{failing: true}, &fakeEventSink{failing: true}, zerolog.Nop())
	_ = monitor.LogEvent(ctx, 1, &model.LogEventRequest{ExamID: f.examID, EventType: "tab_switch"})

	result, err := f.scoring.Submit(ctx, 1, f.examID, map[string]string{
		f.q1.String(): "A",
		f.q2.String(): "B",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Status != model.ResultStatusPassed {
		t.Fatalf("expected PASSED, got %s", result.Status)
	}
}
