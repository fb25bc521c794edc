package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hotelier/pkg/client"
	"hotelier/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	StorageDriver string
	RoomsFile     string
	BookingsFile  string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port      string
	LogLevel  string
	LogFormat string

	KafkaEnabled  bool
	KafkaTopic    string
	KafkaDLQTopic string
	KafkaGroupID  string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	// RateLimitClientHeader names a header to key the rate limit on instead
	// of the remote host. Empty by default.
	RateLimitClientHeader string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the optional .env file and the environment, validates the result
// and exits the process when the configuration is unusable.
func Load(serviceName string) *Config {
	envErr := LoadEnvFile(getEnvStr(EnvFile, DefaultEnvFile))

	cfg := FromEnv(serviceName)
	if envErr != nil {
		cfg.Log.Fatal("Failed to read env file", "error", envErr)
	}
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// LoadEnvFile populates unset variables from a dotenv file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config from the environment without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		StorageDriver: strings.ToLower(getEnvStr(EnvStorageDriver, DefaultStorageDriver)),
		RoomsFile:     getEnvStr(EnvRoomsFile, DefaultRoomsFile),
		BookingsFile:  getEnvStr(EnvBookingsFile, DefaultBookingsFile),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  strings.ToLower(getEnvStr(EnvLogLevel, DefaultLogLevel)),
		LogFormat: strings.ToLower(getEnvStr(EnvLogFormat, DefaultLogFormat)),

		KafkaEnabled:  getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		KafkaTopic:    getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),
		KafkaDLQTopic: getEnvStr(EnvKafkaDLQTopic, DefaultKafkaDLQTopic),
		KafkaGroupID:  getEnvStr(EnvKafkaGroupID, DefaultKafkaGroupID),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RateLimitClientHeader: getEnvStr(EnvRateLimitClientHeader, ""),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Client: client.NewClient(),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})
	return cfg
}

func (cfg *Config) SetMongo() error {
	return cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) UsesMongo() bool {
	return cfg.StorageDriver == StorageMongo
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.LogLevel {
	case logger.DEBUG, logger.INFO, logger.WARN, logger.ERROR:
	default:
		errors = append(errors, fmt.Sprintf("LogLevel must be one of debug, info, warn, error, got: %s", cfg.LogLevel))
	}
	if cfg.LogFormat != logger.JSON && cfg.LogFormat != logger.TEXT {
		errors = append(errors, fmt.Sprintf("LogFormat must be json or text, got: %s", cfg.LogFormat))
	}

	switch cfg.StorageDriver {
	case StorageCSV:
		if cfg.RoomsFile == "" {
			errors = append(errors, "RoomsFile cannot be empty")
		}
		if cfg.BookingsFile == "" {
			errors = append(errors, "BookingsFile cannot be empty")
		}
		if cfg.RoomsFile != "" && cfg.RoomsFile == cfg.BookingsFile {
			errors = append(errors, fmt.Sprintf("RoomsFile and BookingsFile must differ, both are: %s", cfg.RoomsFile))
		}
	case StorageMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	default:
		errors = append(errors, fmt.Sprintf("StorageDriver must be csv or mongo, got: %s", cfg.StorageDriver))
	}

	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		errors = append(errors, "KafkaTopic cannot be empty when Kafka is enabled")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == cfg.KafkaDLQTopic {
		errors = append(errors, fmt.Sprintf("KafkaDLQTopic must differ from KafkaTopic, both are: %s", cfg.KafkaTopic))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"storage_driver", cfg.StorageDriver,
		"rooms_file", cfg.RoomsFile,
		"bookings_file", cfg.BookingsFile,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_topic", cfg.KafkaTopic,
		"kafka_dlq_topic", cfg.KafkaDLQTopic,
		"kafka_group_id", cfg.KafkaGroupID,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"rate_limit_client_header", cfg.RateLimitClientHeader,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}
