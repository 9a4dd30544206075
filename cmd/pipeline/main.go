package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/config"
	"github.com/vsawhney27/job-intel/internal/db"
	"github.com/vsawhney27/job-intel/internal/ingest"
	"github.com/vsawhney27/job-intel/internal/ml/pipeline"
	"github.com/vsawhney27/job-intel/internal/report"
	"github.com/vsawhney27/job-intel/internal/signals"
)

func main() {
	input := flag.String("input", "", "path to a JSON array of job postings (required)")
	jsonOut := flag.String("out", "", "optional path to write the full report as JSON")
	save := flag.Bool("save", false, "persist postings and the report to the database")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	if *input == "" {
		log.Fatal().Msg("-input is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	loaded, err := ingest.NewLoader(log).LoadFile(*input)
	if err != nil {
		log.Fatal().Err(err).Str("path", *input).Msg("failed to load postings")
	}
	if len(loaded.Postings) == 0 {
		log.Fatal().Int("rejected", len(loaded.Rejected)).Msg("no valid postings in input")
	}

	orch, err := pipeline.NewOrchestrator(cfg, signals.NewExtractor(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pipeline")
	}
	rep, diag, err := orch.Run(loaded.Postings)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}
	if diag.TrainingSkipped {
		log.Warn().Str("reason", diag.SkipReason).Msg("ML training skipped; using rule-based analysis")
	}

	report.Render(os.Stdout, rep)

	if *jsonOut != "" {
		payload, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to encode report")
		}
		if err := os.WriteFile(*jsonOut, payload, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", *jsonOut).Msg("failed to write report")
		}
		log.Info().Str("path", *jsonOut).Msg("report written")
	}

	if *save {
		if cfg.DatabaseURL == "" {
			log.Fatal().Msg("DATABASE_URL is required with -save")
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

		store := db.NewStore(pool)
		saved, err := store.SavePostings(ctx, loaded.Postings)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to save postings")
		}
		if err := store.SaveInsightRun(ctx, rep); err != nil {
			log.Fatal().Err(err).Msg("failed to save insight run")
		}
		log.Info().Int("postings", saved).Str("run_id", rep.RunID).Msg("run persisted")
	}
}
