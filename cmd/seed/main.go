// Command seed applies migrations and loads the default status
// definitions and WhatsApp templates. Running it twice is harmless.
package main

import (
	"context"
	"time"

	"leadflow_backend/internal/leads/lifecycle"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/db"
	"leadflow_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.WithRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool)
	if err := lifecycle.SeedDefaultStatuses(ctx, repo); err != nil {
		log.Error("failed to seed status definitions", "error", err)
		panic("failed to seed status definitions: " + err.Error())
	}
	if err := lifecycle.SeedDefaultTemplates(ctx, repo); err != nil {
		log.Error("failed to seed whatsapp templates", "error", err)
		panic("failed to seed whatsapp templates: " + err.Error())
	}

	log.Info("seed complete")
}
