package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"schoolclasses/internal/classes/repository"
	"schoolclasses/internal/classes/seed"
	"schoolclasses/internal/classes/service"
	"schoolclasses/internal/classes/validator"
	mongoMigration "schoolclasses/internal/migrations/mongo"
	"schoolclasses/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if !cfg.UsesMongo() {
		cfg.Log.Fatal("Migration requires the mongo store backend", "store_backend", cfg.StoreBackend)
	}
	cfg.SetMongo()

	cfg.Log.Info("Starting Mongo migration job")
	if err := migrate(ctx, cfg); err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.GracefulShutdown()
	cfg.Log.Info("Migration completed successfully")
}

func migrate(ctx context.Context, cfg *config.Config) error {
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		return err
	}

	if !cfg.SeedOnStart {
		return nil
	}

	catalog, err := seed.Load(cfg.SeedCatalogPath)
	if err != nil {
		return err
	}

	classService := service.NewClassService(
		repository.NewMongoClassRepository(cfg),
		validator.NewClassValidator(cfg.Log),
		nil,
		cfg,
	)
	inserted, err := classService.SeedIfEmpty(ctx, catalog)
	if err != nil {
		return fmt.Errorf("failed to seed class catalog: %w", err)
	}
	cfg.Log.Info("Seed step finished", "inserted", inserted)
	return nil
}
