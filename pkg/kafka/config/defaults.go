package kafka_config

import (
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultKafkaBrokers     = "localhost:9092"
	DefaultEnableMiddleware = true

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = int(kafka.RequireAll)
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	// A new consumer group reads the event log from its first booking.
	DefaultConsumerStartOffset       = kafka.FirstOffset
	DefaultConsumerMinBytes          = 1
	DefaultConsumerMaxBytes          = 1 << 20
	DefaultConsumerMaxWait           = 500 * time.Millisecond
	DefaultConsumerCommitInterval    = time.Second
	DefaultConsumerHeartbeatInterval = 3 * time.Second
	DefaultConsumerSessionTimeout    = 10 * time.Second
	DefaultConsumerRebalanceTimeout  = 60 * time.Second
	DefaultConsumerMaxRetries        = 3
	DefaultConsumerRetryBackoff      = 200 * time.Millisecond
)
