package config

import (
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Clusters != 5 || cfg.ForecastDays != 14 || cfg.MinTrainingPostings != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TechThreshold != 0.5 || cfg.Seed != 42 || cfg.Port != "8081" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PIPELINE_CLUSTERS", "3")
	t.Setenv("PIPELINE_FORECAST_DAYS", "7")
	t.Setenv("PIPELINE_TECH_THRESHOLD", "0.7")
	t.Setenv("PIPELINE_SEED", "99")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Clusters != 3 || cfg.ForecastDays != 7 || cfg.TechThreshold != 0.7 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Seed != 99 || cfg.DatabaseURL != "postgres://localhost/test" || cfg.Port != "9000" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"clusters too small", "PIPELINE_CLUSTERS", "1"},
		{"non-numeric clusters", "PIPELINE_CLUSTERS", "lots"},
		{"zero forecast days", "PIPELINE_FORECAST_DAYS", "0"},
		{"threshold out of range", "PIPELINE_TECH_THRESHOLD", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load accepted %s=%s", tt.key, tt.value)
			}
		})
	}
}
