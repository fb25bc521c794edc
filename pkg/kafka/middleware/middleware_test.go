package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"hotelier/pkg/kafka"
	"hotelier/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := NewMetrics()
	produce := m.ProducerMiddleware()
	consume := m.ConsumerMiddleware()
	msg := kafka.NewMessage().WithKey("101").Build()

	ok := func(context.Context, kafka.Message) error { return nil }
	fail := func(context.Context, kafka.Message) error { return errors.New("boom") }

	assert.NoError(t, produce(context.Background(), msg, ok))
	assert.NoError(t, produce(context.Background(), msg, ok))
	assert.Error(t, produce(context.Background(), msg, fail))
	assert.Error(t, consume(context.Background(), msg, fail))

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.Published)
	assert.Equal(t, int64(1), s.PublishFailed)
	assert.Equal(t, int64(0), s.Consumed)
	assert.Equal(t, int64(1), s.ConsumeFailed)
	assert.InDelta(t, 1.0, m.PublishRate(2*time.Second), 0.001)
	assert.Zero(t, m.ConsumeRate(0))

	m.Reset()
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestMetrics_Log(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})

	m := NewMetrics()
	_ = m.ConsumerMiddleware()(context.Background(), kafka.Message{}, func(context.Context, kafka.Message) error { return nil })
	m.Log(log)

	assert.Contains(t, buf.String(), `"msg":"Kafka metrics"`)
	assert.Contains(t, buf.String(), `"consumed":1`)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf, Level: logger.DEBUG})
	msg := kafka.NewMessage().WithKey("101").WithEventType("booking.created").Build()

	err := LoggingProducerMiddleware(log)(context.Background(), msg, func(context.Context, kafka.Message) error {
		return nil
	})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Published message")
	assert.Contains(t, buf.String(), `"event_type":"booking.created"`)

	buf.Reset()
	err = LoggingConsumerMiddleware(log)(context.Background(), msg, func(context.Context, kafka.Message) error {
		return errors.New("decode failed")
	})
	assert.EqualError(t, err, "decode failed")
	assert.Contains(t, buf.String(), "Failed to process message")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
