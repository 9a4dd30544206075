// Package api exposes the pipeline over HTTP. The surface is deliberately
// small: trigger a run, read the latest report, read rankings, health.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/config"
	"github.com/vsawhney27/job-intel/internal/db"
	"github.com/vsawhney27/job-intel/internal/ml/pipeline"
	"github.com/vsawhney27/job-intel/internal/signals"
)

type Server struct {
	Store *db.Store
	Echo  *echo.Echo

	cfg config.Config
	log zerolog.Logger

	// Pipeline runs are serialized; concurrent triggers get 409.
	runMu   sync.Mutex
	running bool
}

func NewServer(pool *pgxpool.Pool, cfg config.Config, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{
		Store: db.NewStore(pool),
		Echo:  e,
		cfg:   cfg,
		log:   log.With().Str("component", "api").Logger(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.POST("/pipeline/run", s.handleRunPipeline)
	api.GET("/insights/latest", s.handleLatestInsights)
	api.GET("/opportunities", s.handleListOpportunities)
}

func (s *Server) handleHealth(c echo.Context) error {
	stats, err := s.Store.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	stats["status"] = "ok"
	return c.JSON(http.StatusOK, stats)
}

// handleRunPipeline runs the full pipeline over every stored posting and
// persists the resulting report. Only one run may be in flight at a time.
func (s *Server) handleRunPipeline(c echo.Context) error {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return c.JSON(http.StatusConflict, map[string]string{"error": "a pipeline run is already in progress"})
	}
	s.running = true
	s.runMu.Unlock()
	defer func() {
		s.runMu.Lock()
		s.running = false
		s.runMu.Unlock()
	}()

	ctx := c.Request().Context()
	postings, err := s.Store.ListPostings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if len(postings) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "no postings available; ingest data first"})
	}

	started := time.Now()
	orch, err := pipeline.NewOrchestrator(s.cfg, signals.NewExtractor(), s.log)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	report, diag, err := orch.Run(postings)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if _, err := s.Store.SavePostings(ctx, postings); err != nil {
		s.log.Error().Err(err).Msg("failed to persist annotated postings")
	}
	if err := s.Store.SaveInsightRun(ctx, report); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	s.log.Info().
		Str("run_id", report.RunID).
		Dur("elapsed", time.Since(started)).
		Msg("pipeline run stored")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"run_id":      report.RunID,
		"postings":    report.ExecutiveSummary.TotalPostings,
		"companies":   report.ExecutiveSummary.TotalCompanies,
		"confidence":  report.ExecutiveSummary.Confidence,
		"diagnostics": diag,
	})
}

func (s *Server) handleLatestInsights(c echo.Context) error {
	report, err := s.Store.LatestInsightRun(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if report == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no insight runs stored yet"})
	}
	return c.JSON(http.StatusOK, report)
}

// handleListOpportunities returns just the ranked opportunities from the
// latest run, optionally filtered by priority tier.
func (s *Server) handleListOpportunities(c echo.Context) error {
	report, err := s.Store.LatestInsightRun(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if report == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no insight runs stored yet"})
	}

	rankings := report.OpportunityRankings
	if priority := c.QueryParam("priority"); priority != "" {
		filtered := rankings[:0:0]
		for _, r := range rankings {
			if string(r.Priority) == priority {
				filtered = append(filtered, r)
			}
		}
		rankings = filtered
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"run_id":        report.RunID,
		"generated_at":  report.GeneratedAt,
		"opportunities": rankings,
	})
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
