package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafka_config "hotelier/pkg/kafka/config"
	"hotelier/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type fakeWriter struct {
	mu      sync.Mutex
	written []kafka.Message
	err     error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func runUntilCommitted(t *testing.T, c *Consumer, reader *fakeReader, want int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool { return reader.commits() == want }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Key: []byte("101"), Value: []byte(`{}`), Topic: "hotel.events"},
		{Key: []byte("102"), Value: []byte(`{}`), Topic: "hotel.events"},
	}}

	var mu sync.Mutex
	var keys []string
	handler := func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		keys = append(keys, msg.Key)
		return nil
	}

	c := newConsumer(reader, nil, "hotel.events", "g", "", 3, handler, logger.Discard())
	runUntilCommitted(t, c, reader, 2)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"101", "102"}, keys)
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Key: []byte("101"), Value: []byte(`{}`)}}}

	var calls int
	handler := func(ctx context.Context, msg Message) error {
		calls++
		if calls < 3 {
			return NewTransientError("broker busy", nil)
		}
		return nil
	}

	dlq := &fakeWriter{}
	c := newConsumer(reader, dlq, "hotel.events", "g", "hotel.events.dlq", 3, handler, logger.Discard())
	runUntilCommitted(t, c, reader, 1)

	assert.Equal(t, 3, calls)
	assert.Empty(t, dlq.written)
}

func TestConsumer_WaitsBetweenRetries(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Key: []byte("101"), Value: []byte(`{}`)}}}

	var calls []time.Time
	handler := func(ctx context.Context, msg Message) error {
		calls = append(calls, time.Now())
		if len(calls) < 3 {
			return NewTransientError("broker busy", nil)
		}
		return nil
	}

	c := newConsumer(reader, nil, "hotel.events", "g", "", 3, handler, logger.Discard())
	c.retryDelay = 20 * time.Millisecond
	runUntilCommitted(t, c, reader, 1)

	require.Len(t, calls, 3)
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), c.retryDelay)
	assert.GreaterOrEqual(t, calls[2].Sub(calls[1]), c.retryDelay)
}

func TestConsumer_PermanentFailureGoesToDLQ(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Key: []byte("101"), Value: []byte(`not json`)}}}

	var calls int
	handler := func(ctx context.Context, msg Message) error {
		calls++
		return NewPermanentError("decode event", errors.New("invalid character"))
	}

	dlq := &fakeWriter{}
	c := newConsumer(reader, dlq, "hotel.events", "booking-events", "hotel.events.dlq", 3, handler, logger.Discard())
	runUntilCommitted(t, c, reader, 1)

	assert.Equal(t, 1, calls)
	require.Len(t, dlq.written, 1)
	sent := dlq.written[0]
	assert.Equal(t, "101", string(sent.Key))
	assert.Equal(t, "hotel.events", headerValue(sent, HeaderOriginalTopic))
	assert.Equal(t, "booking-events", headerValue(sent, HeaderDLQConsumerGroup))
	assert.Contains(t, headerValue(sent, HeaderDLQError), "decode event")
}

func TestConsumer_MiddlewareOrder(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{{Key: []byte("1"), Value: []byte(`{}`)}}}

	var order []string
	handler := func(ctx context.Context, msg Message) error {
		order = append(order, "handler")
		return nil
	}

	c := newConsumer(reader, nil, "t", "g", "", 0, handler, logger.Discard())
	for _, name := range []string{"first", "second"} {
		c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
			order = append(order, name)
			return next(ctx, msg)
		})
	}
	runUntilCommitted(t, c, reader, 1)

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestConsumer_CloseStopsStart(t *testing.T) {
	reader := &fakeReader{}
	c := newConsumer(reader, nil, "t", "g", "", 0, func(context.Context, Message) error { return nil }, logger.Discard())

	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
	assert.ErrorIs(t, c.Start(context.Background()), ErrConsumerClosed)
	require.NoError(t, c.Close())
}

func TestNewConsumer_Validation(t *testing.T) {
	cfg := &kafka_config.Config{Brokers: []string{"localhost:9092"}}
	handler := func(context.Context, Message) error { return nil }

	_, err := NewConsumer(nil, "t", "g", "", handler, nil)
	assert.Error(t, err)
	_, err = NewConsumer(&kafka_config.Config{}, "t", "g", "", handler, nil)
	assert.Error(t, err)
	_, err = NewConsumer(cfg, "", "g", "", handler, nil)
	assert.Error(t, err)
	_, err = NewConsumer(cfg, "t", "", "", handler, nil)
	assert.Error(t, err)
	_, err = NewConsumer(cfg, "t", "g", "", nil, nil)
	assert.Error(t, err)
}
