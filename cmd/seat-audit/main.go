package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"schoolclasses/internal/audit"
	"schoolclasses/pkg/config"
	"schoolclasses/pkg/kafka"
	kafka_config "schoolclasses/pkg/kafka/config"
	kafka_middleware "schoolclasses/pkg/kafka/middleware"
)

const ServiceName = "seat-audit"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	if !cfg.UsesMongo() {
		cfg.Log.Fatal("Seat audit requires the mongo store backend", "store_backend", cfg.StoreBackend)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	repo := audit.NewMongoSeatEventRepository(
		cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
		cfg.RequestTimeout,
	)
	handler := audit.NewHandler(repo, cfg.Log.Component("audit"))

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.SeatEventsTopic,
		kafkaCfg.AuditGroupID,
		kafkaCfg.SeatEventsDLQTopic,
		handler.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create seat event consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware(metrics))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Seat audit consumer started",
		"topic", kafkaCfg.SeatEventsTopic,
		"group_id", kafkaCfg.AuditGroupID,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Seat event consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Shutting down seat audit consumer", "lag", consumer.Lag())
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Seat audit consumer stopped", metrics.Snapshot().LogAttrs()...)
}
