// Package bootstrap assembles a running hotel from configuration: storage,
// ledger, event publishing and the service on top.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"hotelier/internal/hotel/events"
	"hotelier/internal/hotel/ledger"
	"hotelier/internal/hotel/repository"
	"hotelier/internal/hotel/service"
	"hotelier/internal/hotel/validator"
	"hotelier/pkg/config"
	"hotelier/pkg/kafka"
	kafka_config "hotelier/pkg/kafka/config"
	kafka_middleware "hotelier/pkg/kafka/middleware"
)

type Hotel struct {
	Service    service.HotelService
	Ledger     *ledger.Ledger
	Repository repository.HotelRepository

	cfg      *config.Config
	producer *kafka.Producer
	metrics  *kafka_middleware.Metrics
	loaded   bool
}

// New connects storage, loads the persisted state and, when Kafka is enabled,
// starts publishing ledger events.
func New(ctx context.Context, cfg *config.Config) (*Hotel, error) {
	h := &Hotel{cfg: cfg}

	repo, err := newRepository(cfg)
	if err != nil {
		return nil, err
	}
	h.Repository = repo

	var opts []ledger.Option
	if cfg.KafkaEnabled {
		publisher, err := h.newPublisher()
		if err != nil {
			h.closeStorage()
			return nil, err
		}
		opts = append(opts, ledger.WithPublisher(publisher))
	}

	h.Ledger = ledger.New(repo, cfg.Log, opts...)
	if err := h.Ledger.Load(ctx); err != nil {
		_ = h.Close(ctx)
		return nil, fmt.Errorf("load hotel state: %w", err)
	}
	h.loaded = true

	h.Service = service.NewHotelService(h.Ledger, validator.NewHotelValidator(cfg.Log), cfg.Log)
	cfg.Log.Info("Hotel service initialized", "storage", cfg.StorageDriver, "events", cfg.KafkaEnabled)
	return h, nil
}

func newRepository(cfg *config.Config) (repository.HotelRepository, error) {
	if !cfg.UsesMongo() {
		return repository.NewCSVRepository(cfg.RoomsFile, cfg.BookingsFile, cfg.Log), nil
	}

	if err := cfg.SetMongo(); err != nil {
		return nil, err
	}
	return repository.NewMongoRepository(
		cfg.Client.Mongo,
		cfg.MongoDatabaseName,
		nil,
		repository.MongoConfig{ReadTimeout: cfg.ReadTimeout, WriteTimeout: cfg.WriteTimeout},
		cfg.Log,
	), nil
}

func (h *Hotel) newPublisher() (ledger.EventPublisher, error) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}
	kafkaCfg.LogConfiguration(h.cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, h.cfg.KafkaTopic, h.cfg.KafkaDLQTopic, h.cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	h.metrics = kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(h.cfg.Log))
		producer.Use(h.metrics.ProducerMiddleware())
	}
	h.producer = producer

	return events.NewKafkaPublisher(producer, events.Source, h.cfg.Log), nil
}

// Close rewrites the bookings store from memory, which repairs any earlier
// failed save, then flushes the producer and releases storage connections.
func (h *Hotel) Close(ctx context.Context) error {
	var errs []error
	if h.loaded {
		if err := h.Ledger.ExportBookings(ctx); err != nil {
			errs = append(errs, fmt.Errorf("export bookings: %w", err))
		}
		h.loaded = false
	}
	if h.producer != nil {
		if err := h.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kafka producer: %w", err))
		}
		h.metrics.Log(h.cfg.Log)
		h.producer = nil
	}
	h.closeStorage()
	return errors.Join(errs...)
}

func (h *Hotel) closeStorage() {
	if h.cfg.Client != nil {
		h.cfg.GracefulShutdown()
	}
}
