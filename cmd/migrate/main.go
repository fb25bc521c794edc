package main

import (
	"context"
	"time"

	mongoMigration "hotelier/internal/migrations/mongo"
	"hotelier/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	cfg := config.Load(JobName)
	if err := migrateMongo(cfg); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}

func migrateMongo(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	if err := cfg.SetMongo(); err != nil {
		return err
	}
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job", "database", cfg.MongoDatabaseName)
	return mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
}
