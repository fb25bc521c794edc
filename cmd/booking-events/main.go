package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"hotelier/internal/hotel/events"
	"hotelier/pkg/config"
	"hotelier/pkg/kafka"
	kafka_config "hotelier/pkg/kafka/config"
	kafka_middleware "hotelier/pkg/kafka/middleware"
)

const ServiceName = "booking-events"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaDLQTopic,
		events.NewHandler(cfg.Log).Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(metrics.ConsumerMiddleware())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Consuming booking events", "topic", cfg.KafkaTopic, "group_id", cfg.KafkaGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	metrics.Log(cfg.Log)
	cfg.Log.Info("Booking events consumer stopped")
}
