// Package config loads pipeline configuration from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every recognized tunable of the pipeline.
type Config struct {
	// Clusters is the target company cluster count. Reduced automatically
	// when fewer companies than clusters are present.
	Clusters int
	// ForecastDays is the trend-forecast horizon.
	ForecastDays int
	// MinTrainingPostings gates ML training; below it every sub-model stays
	// on the rule-based path.
	MinTrainingPostings int
	// TechThreshold is the category probability above which the technology
	// classifier contributes representative technologies.
	TechThreshold float64
	// Seed drives every randomized step so runs are reproducible.
	Seed int64

	DatabaseURL string
	Port        string
}

// Defaults mirrors the documented configuration surface.
func Defaults() Config {
	return Config{
		Clusters:            5,
		ForecastDays:        14,
		MinTrainingPostings: 10,
		TechThreshold:       0.5,
		Seed:                42,
		Port:                "8081",
	}
}

// Load reads configuration from the environment on top of Defaults.
func Load() (Config, error) {
	// Missing .env is fine; env vars may come from the process environment.
	_ = godotenv.Load()

	cfg := Defaults()
	var err error
	if cfg.Clusters, err = intEnv("PIPELINE_CLUSTERS", cfg.Clusters); err != nil {
		return cfg, err
	}
	if cfg.ForecastDays, err = intEnv("PIPELINE_FORECAST_DAYS", cfg.ForecastDays); err != nil {
		return cfg, err
	}
	if cfg.MinTrainingPostings, err = intEnv("PIPELINE_MIN_TRAINING_POSTINGS", cfg.MinTrainingPostings); err != nil {
		return cfg, err
	}
	if cfg.TechThreshold, err = floatEnv("PIPELINE_TECH_THRESHOLD", cfg.TechThreshold); err != nil {
		return cfg, err
	}
	seed, err := intEnv("PIPELINE_SEED", int(cfg.Seed))
	if err != nil {
		return cfg, err
	}
	cfg.Seed = int64(seed)

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if cfg.Clusters < 2 {
		return cfg, fmt.Errorf("PIPELINE_CLUSTERS must be at least 2, got %d", cfg.Clusters)
	}
	if cfg.ForecastDays < 1 {
		return cfg, fmt.Errorf("PIPELINE_FORECAST_DAYS must be positive, got %d", cfg.ForecastDays)
	}
	if cfg.TechThreshold <= 0 || cfg.TechThreshold >= 1 {
		return cfg, fmt.Errorf("PIPELINE_TECH_THRESHOLD must be in (0,1), got %v", cfg.TechThreshold)
	}
	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return f, nil
}
