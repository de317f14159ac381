package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Queue ---

type mockQueue struct {
	pending []*EventDocument
	sent    []string
	failed  map[string]time.Time
}

func (q *mockQueue) Claim(_ context.Context, _ string, _ time.Duration) (*EventDocument, error) {
	if len(q.pending) == 0 {
		return nil, nil
	}
	doc := q.pending[0]
	q.pending = q.pending[1:]
	return doc, nil
}

func (q *mockQueue) MarkSent(_ context.Context, id string) error {
	q.sent = append(q.sent, id)
	return nil
}

func (q *mockQueue) MarkFailed(_ context.Context, id string, next time.Time, _ string) error {
	if q.failed == nil {
		q.failed = make(map[string]time.Time)
	}
	q.failed[id] = next
	return nil
}

// --- Mock Producer ---

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type mockProducer struct {
	messages []published
	err      error
}

func (p *mockProducer) Publish(_ context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func eventDoc(id, name string) *EventDocument {
	return &EventDocument{
		ID:         id,
		Name:       name,
		Payload:    []byte(`{"BookingID":"b-1"}`),
		Aggregate:  "b-1",
		OccurredAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Headers:    map[string]string{"event-name": name},
	}
}

func TestWorker_DrainPublishesCloudEvents(t *testing.T) {
	queue := &mockQueue{pending: []*EventDocument{eventDoc("e-1", "booking.approved"), eventDoc("e-2", "host.superhost_granted")}}
	producer := &mockProducer{}
	w := &Worker{Store: queue, Producer: producer, TopicPrefix: "dev.", Logger: quietLogger()}

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"e-1", "e-2"}, queue.sent)

	require.Len(t, producer.messages, 2)
	first := producer.messages[0]
	assert.Equal(t, "dev.booking.events.v1", first.topic)
	assert.Equal(t, "b-1", first.key)
	assert.Equal(t, "e-1", first.headers["ce-id"])
	assert.Equal(t, "application/cloudevents+json", first.headers["content-type"])
	assert.Equal(t, "dev.host.events.v1", producer.messages[1].topic)

	var evt map[string]any
	require.NoError(t, json.Unmarshal(first.payload, &evt))
	assert.Equal(t, "e-1", evt["id"])
	assert.Equal(t, "booking.approved.v1", evt["type"])
	assert.Equal(t, "app://pethost", evt["source"])
	assert.Equal(t, map[string]any{"BookingID": "b-1"}, evt["data"])
}

func TestWorker_PublishFailureReschedules(t *testing.T) {
	doc := eventDoc("e-1", "booking.cancelled")
	doc.Attempts = 1
	queue := &mockQueue{pending: []*EventDocument{doc}}
	w := &Worker{
		Store:    queue,
		Producer: &mockProducer{err: errors.New("broker down")},
		Backoff:  []time.Duration{time.Second, time.Minute},
		Logger:   quietLogger(),
	}

	before := time.Now()
	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Empty(t, queue.sent)
	require.Contains(t, queue.failed, "e-1")
	assert.WithinDuration(t, before.Add(time.Minute), queue.failed["e-1"], 5*time.Second)
}

func TestWorker_BadPayloadIsRescheduled(t *testing.T) {
	doc := eventDoc("e-1", "booking.started")
	doc.Payload = []byte("not json")
	queue := &mockQueue{pending: []*EventDocument{doc}}
	producer := &mockProducer{}
	w := &Worker{Store: queue, Producer: producer, Logger: quietLogger()}

	_, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Empty(t, producer.messages)
	assert.Contains(t, queue.failed, "e-1")
}

func TestWorker_DrainStopsAtBatchSize(t *testing.T) {
	queue := &mockQueue{pending: []*EventDocument{eventDoc("e-1", "a.b"), eventDoc("e-2", "a.b"), eventDoc("e-3", "a.b")}}
	w := &Worker{Store: queue, Producer: &mockProducer{}, BatchSize: 2, Logger: quietLogger()}

	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Len(t, queue.pending, 1)
}

func TestWorker_RunRequiresDependencies(t *testing.T) {
	assert.ErrorIs(t, (&Worker{}).Run(context.Background()), ErrWorkerNotConfigured)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	queue := &mockQueue{pending: []*EventDocument{eventDoc("e-1", "review.submitted")}}
	producer := &mockProducer{}
	w := &Worker{Store: queue, Producer: producer, Interval: 5 * time.Millisecond, Logger: quietLogger()}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"e-1"}, queue.sent)
	assert.Equal(t, "review.events.v1", producer.messages[0].topic)
}

func TestWorker_TopicFor(t *testing.T) {
	w := &Worker{}
	assert.Equal(t, "booking.events.v1", w.topicFor("booking.approved"))
	assert.Equal(t, "availability.events.v1", w.topicFor("availability.block_created"))
	assert.Equal(t, "plain.events.v1", w.topicFor("plain"))
}
