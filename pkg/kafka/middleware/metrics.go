package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"hotelier/pkg/kafka"
	"hotelier/pkg/logger"
)

// Metrics counts Kafka traffic for one process. Safe for concurrent use.
type Metrics struct {
	published       atomic.Int64
	publishFailed   atomic.Int64
	publishDuration atomic.Int64 // nanoseconds

	consumed        atomic.Int64
	consumeFailed   atomic.Int64
	consumeDuration atomic.Int64 // nanoseconds
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

type Snapshot struct {
	Published          int64
	PublishFailed      int64
	AvgPublishDuration time.Duration
	Consumed           int64
	ConsumeFailed      int64
	AvgConsumeDuration time.Duration
}

func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Published:     m.published.Load(),
		PublishFailed: m.publishFailed.Load(),
		Consumed:      m.consumed.Load(),
		ConsumeFailed: m.consumeFailed.Load(),
	}
	if total := s.Published + s.PublishFailed; total > 0 {
		s.AvgPublishDuration = time.Duration(m.publishDuration.Load() / total)
	}
	if total := s.Consumed + s.ConsumeFailed; total > 0 {
		s.AvgConsumeDuration = time.Duration(m.consumeDuration.Load() / total)
	}
	return s
}

func (m *Metrics) Reset() {
	m.published.Store(0)
	m.publishFailed.Store(0)
	m.publishDuration.Store(0)
	m.consumed.Store(0)
	m.consumeFailed.Store(0)
	m.consumeDuration.Store(0)
}

// PublishRate returns successful publishes per second over the given window.
func (m *Metrics) PublishRate(window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	return float64(m.published.Load()) / window.Seconds()
}

func (m *Metrics) ConsumeRate(window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	return float64(m.consumed.Load()) / window.Seconds()
}

func (m *Metrics) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.publishDuration.Add(int64(time.Since(start)))

		if err != nil {
			m.publishFailed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}

func (m *Metrics) ConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.consumeDuration.Add(int64(time.Since(start)))

		if err != nil {
			m.consumeFailed.Add(1)
		} else {
			m.consumed.Add(1)
		}
		return err
	}
}

// Log writes a one-line summary, typically at shutdown.
func (m *Metrics) Log(log *logger.Logger) {
	s := m.Snapshot()
	log.Info("Kafka metrics",
		"published", s.Published,
		"publish_failed", s.PublishFailed,
		"avg_publish_duration", s.AvgPublishDuration,
		"consumed", s.Consumed,
		"consume_failed", s.ConsumeFailed,
		"avg_consume_duration", s.AvgConsumeDuration,
	)
}
