package main

import (
	"context"

	"github.com/joho/godotenv"

	"schoolclasses/internal/classes/events"
	"schoolclasses/internal/classes/handler"
	"schoolclasses/internal/classes/repository"
	"schoolclasses/internal/classes/seed"
	"schoolclasses/internal/classes/service"
	"schoolclasses/internal/classes/validator"
	"schoolclasses/pkg/app"
	"schoolclasses/pkg/config"
	kafka_config "schoolclasses/pkg/kafka/config"
	kafka_middleware "schoolclasses/pkg/kafka/middleware"
)

const ServiceName = "classes"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting classes service")

	repo := initRepository(cfg)
	publisher := initPublisher(cfg)

	classService := service.NewClassService(
		repo,
		validator.NewClassValidator(cfg.Log),
		publisher,
		cfg,
	)
	cfg.Log.Info("Class service initialized")

	if cfg.SeedOnStart {
		seedCatalog(cfg, classService)
	}

	application := app.NewApplication(cfg)
	application.OnShutdown(cfg.GracefulShutdown)
	application.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	application.SetApp(
		handler.NewHealthHandler(repo, cfg.StoreBackend, cfg.Log),
		handler.NewClassHandler(classService, cfg.Log),
	)
	application.Run()
}

func initRepository(cfg *config.Config) repository.ClassRepository {
	if !cfg.UsesMongo() {
		cfg.Log.Warn("Using in-memory class store, data is lost on restart")
		return repository.NewMemoryClassRepository()
	}

	cfg.SetMongo()
	return repository.NewMongoClassRepository(cfg)
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Seat event publishing disabled")
		return events.NewNoopPublisher()
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	publisher, err := events.NewKafkaPublisher(kafkaCfg, cfg.Log, kafka_middleware.NewMetrics())
	if err != nil {
		cfg.Log.Fatal("Failed to create seat event publisher", "error", err)
	}
	return publisher
}

func seedCatalog(cfg *config.Config, classService service.ClassService) {
	catalog, err := seed.Load(cfg.SeedCatalogPath)
	if err != nil {
		cfg.Log.Fatal("Failed to load seed catalog", "error", err, "path", cfg.SeedCatalogPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	inserted, err := classService.SeedIfEmpty(ctx, catalog)
	if err != nil {
		cfg.Log.Fatal("Failed to seed class catalog", "error", err)
	}
	if inserted > 0 {
		cfg.Log.Info("Seeded class catalog", "count", inserted)
	}
}
