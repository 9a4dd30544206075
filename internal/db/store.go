package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsawhney27/job-intel/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// SavePostings upserts a batch of annotated postings. Duplicates (same
// company, title and URL) update their derived signals in place so a
// re-run of the pipeline refreshes annotations without multiplying rows.
func (s *Store) SavePostings(ctx context.Context, postings []models.JobPosting) (int, error) {
	saved := 0
	for _, p := range postings {
		budget, err := json.Marshal(p.Budget)
		if err != nil {
			return saved, fmt.Errorf("failed to marshal budget signals for %s: %w", p.Company, err)
		}

		var postedDate *time.Time
		if !p.ScrapedDate.IsZero() {
			postedDate = &p.ScrapedDate
		}

		_, err = s.pool.Exec(ctx, `
			INSERT INTO postings (title, company, location, department, description,
				posted_date, source,
				technology_adoption, urgent_hiring_language, pain_points, budget_signals,
				urgency_score, processing_method)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (company, title, url) DO UPDATE SET
				technology_adoption = EXCLUDED.technology_adoption,
				urgent_hiring_language = EXCLUDED.urgent_hiring_language,
				pain_points = EXCLUDED.pain_points,
				budget_signals = EXCLUDED.budget_signals,
				urgency_score = EXCLUDED.urgency_score,
				processing_method = EXCLUDED.processing_method
		`, p.Title, p.Company, p.Location, p.Department, p.Description,
			postedDate, p.Source,
			p.Technologies, p.UrgentSignals, p.PainPoints, budget,
			p.UrgencyProbability, string(p.Method))
		if err != nil {
			return saved, fmt.Errorf("failed to save posting for %s: %w", p.Company, err)
		}
		saved++
	}
	return saved, nil
}

// ListPostings returns every stored posting, newest posted first with
// undated rows last.
func (s *Store) ListPostings(ctx context.Context) ([]models.JobPosting, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT title, company, location, department, description,
			posted_date, source,
			technology_adoption, urgent_hiring_language, pain_points, budget_signals,
			urgency_score, processing_method
		FROM postings
		ORDER BY posted_date DESC NULLS LAST, company, title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	defer rows.Close()

	var postings []models.JobPosting
	for rows.Next() {
		var p models.JobPosting
		var postedDate *time.Time
		var budgetRaw []byte
		var method string
		if err := rows.Scan(&p.Title, &p.Company, &p.Location, &p.Department, &p.Description,
			&postedDate, &p.Source,
			&p.Technologies, &p.UrgentSignals, &p.PainPoints, &budgetRaw,
			&p.UrgencyProbability, &method); err != nil {
			return nil, fmt.Errorf("failed to scan posting: %w", err)
		}
		if postedDate != nil {
			p.ScrapedDate = *postedDate
		}
		if len(budgetRaw) > 0 {
			if err := json.Unmarshal(budgetRaw, &p.Budget); err != nil {
				return nil, fmt.Errorf("failed to decode budget signals for %s: %w", p.Company, err)
			}
		}
		p.Method = models.ProcessingMethod(method)
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

// SaveInsightRun stores a completed report under its run ID.
func (s *Store) SaveInsightRun(ctx context.Context, report *models.InsightReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal insight report: %w", err)
	}

	method := models.MethodRuleBased
	if len(report.OpportunityRankings) > 0 {
		method = report.OpportunityRankings[0].Method
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO insight_runs (id, generated_at, posting_count, company_count, processing_method, report)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, report.RunID, report.GeneratedAt,
		report.ExecutiveSummary.TotalPostings, report.ExecutiveSummary.TotalCompanies,
		string(method), payload)
	if err != nil {
		return fmt.Errorf("failed to save insight run %s: %w", report.RunID, err)
	}
	return nil
}

// LatestInsightRun returns the most recently generated report, or nil when
// no run has been stored yet.
func (s *Store) LatestInsightRun(ctx context.Context) (*models.InsightReport, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT report FROM insight_runs
		ORDER BY generated_at DESC
		LIMIT 1
	`).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest insight run: %w", err)
	}

	var report models.InsightReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode insight report: %w", err)
	}
	return &report, nil
}

// Stats returns lightweight corpus counts for the health endpoint.
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int
	s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM postings").Scan(&total)
	stats["postings"] = total

	var companies int
	s.pool.QueryRow(ctx, "SELECT COUNT(DISTINCT company) FROM postings").Scan(&companies)
	stats["companies"] = companies

	var runs int
	s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM insight_runs").Scan(&runs)
	stats["insight_runs"] = runs

	return stats, nil
}
