package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type fakeProcessor struct {
	calls []int
	err   error
}

func (p *fakeProcessor) ProcessMilestone(_ context.Context, projectID int, _ float64) error {
	p.calls = append(p.calls, projectID)
	return p.err
}

type fakeDeduper struct {
	seen map[string]bool
}

func (d *fakeDeduper) AcquireOnce(_ context.Context, handler, key string) bool {
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	k := handler + ":" + key
	if d.seen[k] {
		return false
	}
	d.seen[k] = true
	return true
}

func (d *fakeDeduper) Release(_ context.Context, handler, key string) {
	delete(d.seen, handler+":"+key)
}

func TestProgressUpdatedHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("processes a valid event", func(t *testing.T) {
		processor := &fakeProcessor{}
		h := NewProgressUpdatedHandler(processor, &fakeDeduper{}, zap.NewNop())

		body := json.RawMessage(`{"event_id": 7, "project_id": 3, "progress": 50}`)
		if err := h.Handle(ctx, body); err != nil {
			t.Fatal(err)
		}
		if len(processor.calls) != 1 || processor.calls[0] != 3 {
			t.Fatalf("expected 1 call for project 3, got %v", processor.calls)
		}
	})

	t.Run("duplicate event is skipped", func(t *testing.T) {
		processor := &fakeProcessor{}
		h := NewProgressUpdatedHandler(processor, &fakeDeduper{}, zap.NewNop())

		body := json.RawMessage(`{"event_id": 7, "project_id": 3, "progress": 50}`)
		if err := h.Handle(ctx, body); err != nil {
			t.Fatal(err)
		}
		if err := h.Handle(ctx, body); err != nil {
			t.Fatal(err)
		}
		if len(processor.calls) != 1 {
			t.Fatalf("duplicate must not be reprocessed, got %d calls", len(processor.calls))
		}
	})

	t.Run("malformed payload is acked and skipped", func(t *testing.T) {
		processor := &fakeProcessor{}
		h := NewProgressUpdatedHandler(processor, &fakeDeduper{}, zap.NewNop())

		if err := h.Handle(ctx, json.RawMessage(`not json`)); err != nil {
			t.Fatalf("malformed payload must not error, got %v", err)
		}
		if len(processor.calls) != 0 {
			t.Fatal("malformed payload must not reach the processor")
		}
	})

	t.Run("missing project id is skipped", func(t *testing.T) {
		processor := &fakeProcessor{}
		h := NewProgressUpdatedHandler(processor, &fakeDeduper{}, zap.NewNop())

		if err := h.Handle(ctx, json.RawMessage(`{"event_id": 9, "progress": 10}`)); err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
		if len(processor.calls) != 0 {
			t.Fatal("event without project_id must be skipped")
		}
	})

	t.Run("processor error propagates for nack", func(t *testing.T) {
		processor := &fakeProcessor{err: errors.New("payment service down")}
		h := NewProgressUpdatedHandler(processor, &fakeDeduper{}, zap.NewNop())

		body := json.RawMessage(`{"event_id": 11, "project_id": 5, "progress": 80}`)
		if err := h.Handle(ctx, body); err == nil {
			t.Fatal("expected error to propagate")
		}
	})

	t.Run("redelivery after a failure is processed again", func(t *testing.T) {
		processor := &fakeProcessor{err: errors.New("payment service down")}
		h := NewProgressUpdatedHandler(processor, &fakeDeduper{}, zap.NewNop())

		body := json.RawMessage(`{"event_id": 13, "project_id": 6, "progress": 90}`)
		if err := h.Handle(ctx, body); err == nil {
			t.Fatal("first delivery should fail")
		}

		// 付款服务恢复后，重回队列的同一条消息必须重新处理，而不是当成重复
		processor.err = nil
		if err := h.Handle(ctx, body); err != nil {
			t.Fatalf("redelivery should succeed, got %v", err)
		}
		if len(processor.calls) != 2 {
			t.Fatalf("expected 2 processor calls, got %d", len(processor.calls))
		}

		// 成功之后去重才生效
		if err := h.Handle(ctx, body); err != nil {
			t.Fatal(err)
		}
		if len(processor.calls) != 2 {
			t.Fatalf("duplicate after success must be skipped, got %d calls", len(processor.calls))
		}
	})
}
