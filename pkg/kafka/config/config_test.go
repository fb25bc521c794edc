package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultProducerCompression, cfg.ProducerCompression)
	assert.Equal(t, DefaultConsumerMaxRetries, cfg.ConsumerMaxRetries)
	assert.Equal(t, int64(-2), cfg.ConsumerStartOffset)
	assert.Equal(t, 200*time.Millisecond, cfg.ConsumerRetryBackoff)
}

func TestLoad_RetryBackoff(t *testing.T) {
	t.Setenv(EnvKafkaConsumerRetryBackoff, "1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.ConsumerRetryBackoff)

	t.Setenv(EnvKafkaConsumerRetryBackoff, "-5ms")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ConsumerRetryBackoff cannot be negative")
}

func TestLoad_BrokerList(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, ,kafka-2:9092 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-without-port")
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaProducerRequireAcks, "2")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "host:port")
	assert.Contains(t, err.Error(), "ProducerCompression")
	assert.Contains(t, err.Error(), "ProducerRequireAcks")
}

func TestValidate_NoBrokers(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, ",")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "At least one Kafka broker is required")
}
