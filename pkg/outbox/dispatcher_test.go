package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeEventStore struct {
	pending   []*Event
	processed []int64
	failed    []int64
}

func (s *fakeEventStore) GetPendingEvents(_ context.Context, limit int) ([]*Event, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *fakeEventStore) MarkAsProcessed(_ context.Context, eventID int64) error {
	s.processed = append(s.processed, eventID)
	return nil
}

func (s *fakeEventStore) MarkAsFailed(_ context.Context, eventID int64, _ int) error {
	s.failed = append(s.failed, eventID)
	return nil
}

type fakePublisher struct {
	published map[string][]map[string]any
	err       error
}

func (p *fakePublisher) PublishWithContext(_ context.Context, routingKey string, payload any) error {
	if p.err != nil {
		return p.err
	}
	if p.published == nil {
		p.published = make(map[string][]map[string]any)
	}
	p.published[routingKey] = append(p.published[routingKey], payload.(map[string]any))
	return nil
}

func pendingEvent(id int64, eventType string) *Event {
	return &Event{
		ID:        id,
		EventType: eventType,
		Payload:   json.RawMessage(`{"project_id": 1, "progress": 50}`),
		Status:    StatusPending,
	}
}

func TestDispatcherTick(t *testing.T) {
	ctx := context.Background()

	t.Run("pending event is published and marked processed", func(t *testing.T) {
		store := &fakeEventStore{pending: []*Event{pendingEvent(1, EventProgressUpdate)}}
		publisher := &fakePublisher{}
		d := NewDispatcher(store, publisher, zap.NewNop())

		d.Tick(ctx)

		msgs := publisher.published[RoutingKeyProgressUpdated]
		if len(msgs) != 1 {
			t.Fatalf("expected 1 published message, got %d", len(msgs))
		}
		if got := msgs[0]["event_id"]; got != int64(1) {
			t.Fatalf("expected event_id 1 injected into payload, got %v", got)
		}
		if len(store.processed) != 1 || store.processed[0] != 1 {
			t.Fatalf("expected event 1 marked processed, got %v", store.processed)
		}
		if len(store.failed) != 0 {
			t.Fatalf("expected no failures, got %v", store.failed)
		}
	})

	t.Run("publish failure marks the event failed", func(t *testing.T) {
		store := &fakeEventStore{pending: []*Event{pendingEvent(2, EventProgressUpdate)}}
		publisher := &fakePublisher{err: errors.New("mq down")}
		d := NewDispatcher(store, publisher, zap.NewNop())

		d.Tick(ctx)

		if len(store.failed) != 1 || store.failed[0] != 2 {
			t.Fatalf("expected event 2 marked failed, got %v", store.failed)
		}
		if len(store.processed) != 0 {
			t.Fatalf("expected no processed events, got %v", store.processed)
		}
	})

	t.Run("unknown event type is skipped and marked processed", func(t *testing.T) {
		store := &fakeEventStore{pending: []*Event{pendingEvent(3, "SOMETHING_ELSE")}}
		publisher := &fakePublisher{}
		d := NewDispatcher(store, publisher, zap.NewNop())

		d.Tick(ctx)

		if len(publisher.published) != 0 {
			t.Fatal("unknown event type must not be published")
		}
		if len(store.processed) != 1 || store.processed[0] != 3 {
			t.Fatalf("expected event 3 marked processed, got %v", store.processed)
		}
	})

	t.Run("batch preserves order and processes every event", func(t *testing.T) {
		store := &fakeEventStore{pending: []*Event{
			pendingEvent(10, EventProgressUpdate),
			pendingEvent(11, EventProgressUpdate),
			pendingEvent(12, EventProgressUpdate),
		}}
		publisher := &fakePublisher{}
		d := NewDispatcher(store, publisher, zap.NewNop())

		d.Tick(ctx)

		msgs := publisher.published[RoutingKeyProgressUpdated]
		if len(msgs) != 3 {
			t.Fatalf("expected 3 published messages, got %d", len(msgs))
		}
		for i, want := range []int64{10, 11, 12} {
			if got := msgs[i]["event_id"]; got != want {
				t.Fatalf("message %d: expected event_id %d, got %v", i, want, got)
			}
		}
	})
}
