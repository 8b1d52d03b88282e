package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type fakeQueue struct {
	pending []*EventDocument
	sent    []string
	failed  map[string]time.Time
	dead    []string
}

func (q *fakeQueue) Claim(ctx context.Context, workerID string) (*EventDocument, error) {
	if len(q.pending) == 0 {
		return nil, nil
	}
	doc := q.pending[0]
	q.pending = q.pending[1:]
	return doc, nil
}

func (q *fakeQueue) MarkSent(ctx context.Context, id string) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *fakeQueue) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	if q.failed == nil {
		q.failed = map[string]time.Time{}
	}
	q.failed[id] = next
	return nil
}

func (q *fakeQueue) MarkDead(ctx context.Context, id string, errMsg string) error {
	q.dead = append(q.dead, id)
	return nil
}

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	err  error
	sent []published
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func TestWorkerDrainPublishesCloudEvents(t *testing.T) {
	t.Parallel()

	occurred := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	queue := &fakeQueue{pending: []*EventDocument{
		{ID: "evt-1", Name: "booking.confirmed", Aggregate: "b-1", Payload: []byte(`{"BookingID":"b-1"}`), OccurredAt: occurred},
		{ID: "evt-2", Name: "property.created", Aggregate: "p-1", Payload: []byte(`{"PropertyID":"p-1"}`), OccurredAt: occurred},
	}}
	producer := &fakeProducer{}
	w := &Worker{Store: queue, Producer: producer, TopicPrefix: "dev.", ID: "w-1"}

	n, err := w.Drain(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(queue.sent) != 2 {
		t.Fatalf("expected 2 records sent, got %d / %v", n, queue.sent)
	}
	if producer.sent[0].topic != "dev.booking.events.v1" || producer.sent[1].topic != "dev.property.events.v1" {
		t.Fatalf("unexpected topics: %s, %s", producer.sent[0].topic, producer.sent[1].topic)
	}
	if producer.sent[0].key != "b-1" {
		t.Fatalf("expected aggregate id as key, got %q", producer.sent[0].key)
	}
	if producer.sent[0].headers["content-type"] != "application/cloudevents+json" {
		t.Fatalf("unexpected headers: %v", producer.sent[0].headers)
	}

	var evt map[string]any
	if err := json.Unmarshal(producer.sent[0].payload, &evt); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if evt["type"] != "booking.confirmed.v1" || evt["id"] != "evt-1" || evt["subject"] != "b-1" || evt["source"] != "app://staybook" {
		t.Fatalf("unexpected cloud event envelope: %v", evt)
	}
	data, ok := evt["data"].(map[string]any)
	if !ok || data["BookingID"] != "b-1" {
		t.Fatalf("unexpected data: %v", evt["data"])
	}
}

func TestWorkerSchedulesRetryWithBackoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	queue := &fakeQueue{pending: []*EventDocument{
		{ID: "evt-1", Name: "booking.cancelled", Payload: []byte(`{}`), Attempts: 1},
	}}
	w := &Worker{
		Store:    queue,
		Producer: &fakeProducer{err: errors.New("broker down")},
		Backoff:  []time.Duration{time.Second, 5 * time.Second, 30 * time.Second},
		Now:      func() time.Time { return now },
	}
	if _, err := w.Drain(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := queue.failed["evt-1"]; !got.Equal(now.Add(5 * time.Second)) {
		t.Fatalf("expected retry at +5s, got %v", got)
	}
	if len(queue.sent) != 0 {
		t.Fatalf("expected nothing marked sent")
	}
}

func TestWorkerDeadLettersAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	queue := &fakeQueue{pending: []*EventDocument{
		{ID: "evt-1", Name: "booking.cancelled", Payload: []byte(`not json`), Attempts: 2},
	}}
	w := &Worker{Store: queue, Producer: &fakeProducer{}, MaxAttempts: 3}
	if _, err := w.Drain(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue.dead) != 1 || queue.dead[0] != "evt-1" {
		t.Fatalf("expected evt-1 dead-lettered, got %v", queue.dead)
	}
}

func TestWorkerRequiresDependencies(t *testing.T) {
	t.Parallel()

	w := &Worker{}
	if err := w.Run(context.Background()); !errors.Is(err, ErrWorkerNotConfigured) {
		t.Fatalf("expected ErrWorkerNotConfigured, got %v", err)
	}
}

func TestWorkerBatchSizeLimitsDrain(t *testing.T) {
	t.Parallel()

	queue := &fakeQueue{}
	for i := 0; i < 5; i++ {
		queue.pending = append(queue.pending, &EventDocument{ID: "evt", Name: "user.registered", Payload: []byte(`{}`)})
	}
	w := &Worker{Store: queue, Producer: &fakeProducer{}, BatchSize: 3}
	n, err := w.Drain(context.Background())
	if err != nil || n != 3 || len(queue.pending) != 2 {
		t.Fatalf("expected 3 processed and 2 pending, got %d/%d (%v)", n, len(queue.pending), err)
	}
}
