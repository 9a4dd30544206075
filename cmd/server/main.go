package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/api"
	"github.com/vsawhney27/job-intel/internal/config"
	"github.com/vsawhney27/job-intel/internal/db"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required for the server")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	srv := api.NewServer(pool, cfg, log)
	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := srv.Start(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
