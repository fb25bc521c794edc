package config

const (
	EnvFile = "ENV_FILE"

	EnvStorageDriver = "STORAGE_DRIVER"
	EnvRoomsFile     = "ROOMS_FILE"
	EnvBookingsFile  = "BOOKINGS_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvKafkaEnabled  = "KAFKA_ENABLED"
	EnvKafkaTopic    = "KAFKA_TOPIC"
	EnvKafkaDLQTopic = "KAFKA_DLQ_TOPIC"
	EnvKafkaGroupID  = "KAFKA_GROUP_ID"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	// Set only behind a proxy that overwrites the header.
	EnvRateLimitClientHeader = "RATE_LIMIT_CLIENT_HEADER"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
