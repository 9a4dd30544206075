package models

import (
	"time"
)

// BudgetSignals holds compensation evidence extracted from a posting.
type BudgetSignals struct {
	SalaryRanges   []string `json:"salary_ranges"`
	HourlyRates    []string `json:"hourly_rates"`
	EquityMentions []string `json:"equity_mentions"`
	BudgetPhrases  []string `json:"budget_phrases"`
}

// HasSalary reports whether at least one salary range was detected.
func (b BudgetSignals) HasSalary() bool { return len(b.SalaryRanges) > 0 }

// HasEquity reports whether equity compensation was mentioned.
func (b BudgetSignals) HasEquity() bool { return len(b.EquityMentions) > 0 }

// JobPosting is one scraped job advertisement plus the signals derived from
// it. The collector produces title..scraped_date; the signal layer fills the
// derived fields. The pipeline reads postings and only annotates prediction
// fields, it never rewrites collector data.
type JobPosting struct {
	Title       string    `json:"title" validate:"required"`
	Company     string    `json:"company" validate:"required"`
	Location    string    `json:"location"`
	Description string    `json:"description" validate:"required"`
	Department  string    `json:"department"`
	Source      string    `json:"source"`
	ScrapedDate time.Time `json:"scraped_date"`

	// Derived signals (rule-based extraction or ML re-derivation).
	Technologies  []string      `json:"technology_adoption"`
	UrgentSignals []string      `json:"urgent_hiring_language"`
	PainPoints    []string      `json:"pain_points"`
	Budget        BudgetSignals `json:"budget_signals"`

	// Annotations added by the ML pipeline.
	UrgencyProbability *float64         `json:"urgency_probability,omitempty"`
	Method             ProcessingMethod `json:"processing_method,omitempty"`
}

// IsUrgent reports whether any urgent hiring language was detected.
func (p JobPosting) IsUrgent() bool { return len(p.UrgentSignals) > 0 }

// ProcessingMethod tags every derived signal with the path that produced it,
// so the origin of a signal is inspectable rather than inferred from logs.
type ProcessingMethod string

const (
	MethodMLHybrid  ProcessingMethod = "ml_hybrid"
	MethodRuleBased ProcessingMethod = "rule_based"
)

// CompanyProfile is the immutable per-company aggregation of one batch of
// postings. Recomputed each run, never persisted on its own.
type CompanyProfile struct {
	Company           string
	JobCount          int
	UrgentCount       int
	UrgencyRatio      float64
	Technologies      []string // with repeats, one entry per mention
	Departments       map[string]int
	PainPoints        []string // with repeats
	SalaryCoverage    float64  // fraction of postings with a salary range
	EquityCoverage    float64  // fraction of postings mentioning equity
	MeanDescriptionLen float64
}

// TechDiversity is the number of distinct technologies across the company's
// postings.
func (c CompanyProfile) TechDiversity() int {
	seen := make(map[string]struct{}, len(c.Technologies))
	for _, t := range c.Technologies {
		seen[t] = struct{}{}
	}
	return len(seen)
}

// Priority tiers for opportunity scores. Thresholds are a fixed contract so
// tiers stay comparable across runs even as weights are retrained.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// PriorityForScore maps a 0-100 opportunity score to its tier.
func PriorityForScore(score float64) Priority {
	switch {
	case score >= 80:
		return PriorityHigh
	case score >= 60:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// OpportunityScore ranks one company's business-development attractiveness.
type OpportunityScore struct {
	Company       string             `json:"company"`
	Score         float64            `json:"opportunity_score"`
	Priority      Priority           `json:"priority_level"`
	JobCount      int                `json:"job_count"`
	FeatureScores map[string]float64 `json:"feature_scores"`

	RecommendedServices []string         `json:"recommended_services,omitempty"`
	ContactTiming       string           `json:"contact_timing,omitempty"`
	Method              ProcessingMethod `json:"scoring_method"`
}

// ClusterInfo describes one company cluster for human-readable output.
type ClusterInfo struct {
	ID               int            `json:"cluster_id"`
	Label            string         `json:"label"`
	Companies        []string       `json:"companies"`
	AvgHiringVolume  float64        `json:"avg_hiring_volume"`
	AvgUrgencyRatio  float64        `json:"avg_urgency_ratio"`
	TopTechnologies  map[string]int `json:"top_technologies"`
	CommonPainPoints map[string]int `json:"common_pain_points"`
	SalaryCoverage   float64        `json:"salary_transparency"`
}

// ClusteringResult bundles the assignment map with quality diagnostics.
type ClusteringResult struct {
	Assignments map[string]int   `json:"cluster_assignments"`
	Clusters    []ClusterInfo    `json:"clusters"`
	Silhouette  float64          `json:"silhouette_score"`
	Companies   int              `json:"n_companies"`
	K           int              `json:"n_clusters"`
	Method      ProcessingMethod `json:"clustering_method"`
}

// TrendForecast is one future day's predicted hiring activity. Values are
// clamped to be non-negative before they leave the predictor.
type TrendForecast struct {
	Date          time.Time `json:"date"`
	Volume        float64   `json:"predicted_volume"`
	Urgency       float64   `json:"predicted_urgency"`
	TechAdoption  float64   `json:"predicted_tech_adoption"`
}

// CompanyTrend summarizes one company's recent hiring direction.
type CompanyTrend struct {
	Company         string  `json:"company"`
	JobCount        int     `json:"job_count"`
	AvgUrgency      float64 `json:"avg_urgency"`
	AvgTechAdoption float64 `json:"avg_tech_adoption"`
	VolumeTrend     string  `json:"volume_trend"`  // "increasing" or "stable"
	UrgencyTrend    string  `json:"urgency_trend"` // "increasing" or "stable"
}

// MarketTrends pairs the current-pattern analysis with the forward forecast.
type MarketTrends struct {
	TotalPostings   int                    `json:"total_jobs_analyzed"`
	AverageUrgency  float64                `json:"average_urgency"`
	ActiveCompanies int                    `json:"active_companies"`
	TopCompanies    map[string]int         `json:"top_hiring_companies"`
	TechnologyTrends map[string]int        `json:"technology_trends"`
	CompanyTrends   []CompanyTrend         `json:"company_trends"`
	Forecast        []TrendForecast        `json:"forecast"`
	Method          ProcessingMethod       `json:"prediction_method"`
}

// ExecutiveSummary condenses a run for the presentation layer.
type ExecutiveSummary struct {
	TotalPostings     int     `json:"total_postings"`
	TotalCompanies    int     `json:"total_companies"`
	HighPriorityCount int     `json:"high_priority_opportunities"`
	AverageScore      float64 `json:"average_opportunity_score"`
	Confidence        string  `json:"confidence"` // high, medium, low
}

// InsightReport is the complete output of one orchestrator run.
type InsightReport struct {
	RunID               string             `json:"run_id"`
	GeneratedAt         time.Time          `json:"generated_at"`
	OpportunityRankings []OpportunityScore `json:"opportunity_rankings"`
	CompanyClustering   ClusteringResult   `json:"company_clustering"`
	MarketTrends        MarketTrends       `json:"market_trends"`
	ExecutiveSummary    ExecutiveSummary   `json:"executive_summary"`
}
