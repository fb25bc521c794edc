package config

import "time"

const (
	StorageCSV   = "csv"
	StorageMongo = "mongo"
)

const (
	DefaultStorageDriver = StorageCSV
	DefaultRoomsFile     = "rooms.csv"
	DefaultBookingsFile  = "bookings.csv"
	DefaultEnvFile       = ".env"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotelier"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultKafkaEnabled  = false
	DefaultKafkaTopic    = "hotel.events"
	DefaultKafkaDLQTopic = "hotel.events.dlq"
	DefaultKafkaGroupID  = "booking-events"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
