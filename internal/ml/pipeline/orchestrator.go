// Package pipeline orchestrates one batch run: it trains every sub-model
// against the same dataset, runs inference, and merges results into a
// company-level opportunity report. Partial ML availability is a normal
// operating condition: any sub-model that cannot train routes its work to the
// rule-based extractor, and every output record is tagged with the path that
// produced it.
package pipeline

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/config"
	"github.com/vsawhney27/job-intel/internal/ml/classify"
	"github.com/vsawhney27/job-intel/internal/ml/cluster"
	"github.com/vsawhney27/job-intel/internal/ml/feature"
	"github.com/vsawhney27/job-intel/internal/ml/score"
	"github.com/vsawhney27/job-intel/internal/ml/trend"
	"github.com/vsawhney27/job-intel/internal/models"
	"github.com/vsawhney27/job-intel/internal/signals"
)

// ModelState holds every fitted sub-model for one run. It is created by
// NewOrchestrator, owned exclusively by that orchestrator, and discarded with
// it; models move from untrained to trained exactly once, never back.
type ModelState struct {
	Features  *feature.Extractor
	Urgency   *classify.UrgencyClassifier
	TechStack *classify.TechStackClassifier
	Clusterer *cluster.Clusterer
	Scorer    *score.Scorer
	Trends    *trend.Predictor
}

// Diagnostics collects per-sub-model training outcomes for the run metadata.
// Degenerate-data conditions land here as statuses, never as run failures.
type Diagnostics struct {
	TrainingSkipped bool                                `json:"training_skipped"`
	SkipReason      string                              `json:"skip_reason,omitempty"`
	Urgency         classify.UrgencyMetrics             `json:"urgency"`
	TechCategories  map[string]classify.CategoryMetrics `json:"tech_categories,omitempty"`
	Scorer          score.FitMetrics                    `json:"scorer"`
	Trend           trend.FitMetrics                    `json:"trend"`
	TrendStatus     string                              `json:"trend_status,omitempty"`
}

// Orchestrator drives one pipeline run.
type Orchestrator struct {
	cfg       config.Config
	extractor *signals.Extractor
	state     *ModelState
	trained   bool
	log       zerolog.Logger
}

// NewOrchestrator builds an orchestrator with a fresh ModelState.
func NewOrchestrator(cfg config.Config, extractor *signals.Extractor, log zerolog.Logger) (*Orchestrator, error) {
	techStack, err := classify.NewTechStackClassifier(cfg.Seed, log)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		cfg:       cfg,
		extractor: extractor,
		state: &ModelState{
			Features:  feature.NewExtractor(log),
			Urgency:   classify.NewUrgencyClassifier(cfg.Seed, log),
			TechStack: techStack,
			Clusterer: cluster.NewClusterer(cfg.Clusters, cfg.Seed, log),
			Scorer:    score.NewScorer(log),
			Trends:    trend.NewPredictor(cfg.Seed, log),
		},
		log: log.With().Str("component", "orchestrator").Logger(),
	}, nil
}

// State exposes the run's model state for inspection.
func (o *Orchestrator) State() *ModelState { return o.state }

// Run executes the full batch: rule-based annotation, training, inference,
// and report assembly. It always returns a complete report; scarce data only
// degrades the processing method and confidence, never the output shape.
func (o *Orchestrator) Run(postings []models.JobPosting) (*models.InsightReport, Diagnostics, error) {
	// Rule-based extraction always runs first: it is the fallback path and
	// the weak-label source for every classifier.
	postings = o.extractor.AnnotateBatch(postings)

	diag := o.train(postings)
	o.infer(postings)

	report := &models.InsightReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
	report.OpportunityRankings = o.scoreOpportunities(postings)
	report.CompanyClustering = o.clusterCompanies(postings)
	report.MarketTrends = o.marketTrends(postings, &diag)
	report.ExecutiveSummary = o.executiveSummary(postings, report.OpportunityRankings)

	o.log.Info().
		Int("postings", len(postings)).
		Int("companies", report.ExecutiveSummary.TotalCompanies).
		Str("confidence", report.ExecutiveSummary.Confidence).
		Msg("pipeline run complete")
	return report, diag, nil
}

// train fits every sub-model once. Sub-models that cannot train stay on the
// rule-based path; their condition is recorded in the diagnostics.
func (o *Orchestrator) train(postings []models.JobPosting) Diagnostics {
	var diag Diagnostics
	if o.trained {
		// The state machine is one-way; a second Run on the same
		// orchestrator reuses the fitted models.
		return diag
	}
	if len(postings) < o.cfg.MinTrainingPostings {
		diag.TrainingSkipped = true
		diag.SkipReason = "insufficient postings for training"
		o.log.Warn().
			Int("postings", len(postings)).
			Int("minimum", o.cfg.MinTrainingPostings).
			Msg("ML training skipped, running rule-based only")
		return diag
	}

	o.state.Features.Extract(postings)
	diag.Urgency = o.state.Urgency.Train(postings)
	diag.TechCategories = o.state.TechStack.Train(postings)

	scorerMetrics, err := o.state.Scorer.Fit(postings)
	diag.Scorer = scorerMetrics
	if err != nil {
		o.log.Warn().Err(err).Msg("opportunity scorer unavailable, using rule-based scoring")
	}

	trendMetrics, err := o.state.Trends.Fit(postings)
	diag.Trend = trendMetrics
	if err != nil {
		diag.TrendStatus = err.Error()
		if errors.Is(err, trend.ErrInsufficientData) {
			o.log.Warn().
				Int("days", trendMetrics.Days).
				Msg("trend predictor has insufficient data, forecast omitted")
		} else {
			o.log.Error().Err(err).Msg("trend training failed")
		}
	}

	o.trained = true
	return diag
}

// infer annotates postings with ML urgency probabilities and merges
// ML-derived technologies into the rule-based lists. Rule-based results are
// never replaced, only extended, so both extraction paths stay auditable.
func (o *Orchestrator) infer(postings []models.JobPosting) {
	descriptions := make([]string, len(postings))
	for i := range postings {
		descriptions[i] = postings[i].Description
	}

	if o.state.Urgency.Trained() {
		probs, err := o.state.Urgency.PredictProbability(descriptions)
		if err != nil {
			o.log.Warn().Err(err).Msg("urgency inference failed, keeping rule-based signals")
		} else {
			for i := range postings {
				p := probs[i]
				postings[i].UrgencyProbability = &p
				postings[i].Method = models.MethodMLHybrid
			}
		}
	}

	if o.state.TechStack.Trained() {
		mlTech, err := o.state.TechStack.ExtractTechnologies(descriptions, o.cfg.TechThreshold)
		if err != nil {
			o.log.Warn().Err(err).Msg("technology inference failed, keeping rule-based signals")
			return
		}
		for i := range postings {
			postings[i].Technologies = unionTech(postings[i].Technologies, mlTech[i])
			postings[i].Method = models.MethodMLHybrid
		}
	}
}

// PredictUrgency returns 0/1 urgency labels for arbitrary descriptions,
// using the trained classifier when available and the rule-based extractor
// otherwise. The two paths agree on the contract: 1 means urgent language.
func (o *Orchestrator) PredictUrgency(descriptions []string) ([]int, models.ProcessingMethod) {
	if o.state.Urgency.Trained() {
		if labels, err := o.state.Urgency.Predict(descriptions); err == nil {
			return labels, models.MethodMLHybrid
		}
		o.log.Warn().Msg("urgency prediction failed, falling back to rule-based")
	}
	labels := make([]int, len(descriptions))
	for i, d := range descriptions {
		if len(o.extractor.UrgentLanguage(d)) > 0 {
			labels[i] = 1
		}
	}
	return labels, models.MethodRuleBased
}

func (o *Orchestrator) scoreOpportunities(postings []models.JobPosting) []models.OpportunityScore {
	if o.state.Scorer.Fitted() {
		ranked, err := o.state.Scorer.ScoreOpportunities(postings)
		if err == nil {
			for i := range ranked {
				ranked[i].RecommendedServices = recommendServices(ranked[i])
				ranked[i].ContactTiming = contactTiming(ranked[i])
			}
			return ranked
		}
		o.log.Warn().Err(err).Msg("ML scoring failed, falling back to rule-based")
	}
	return ruleBasedScores(postings)
}

func (o *Orchestrator) clusterCompanies(postings []models.JobPosting) models.ClusteringResult {
	profiles := models.BuildCompanyProfiles(postings)
	if o.state.Features.Fitted() && len(profiles) >= 2 {
		return o.state.Clusterer.FitPredict(postings)
	}
	return ruleBasedClusters(profiles)
}

func (o *Orchestrator) marketTrends(postings []models.JobPosting, diag *Diagnostics) models.MarketTrends {
	trends := trend.AnalyzeTrendPatterns(postings)
	trends.Method = models.MethodRuleBased

	if o.state.Trends.Fitted() {
		forecast, err := o.state.Trends.PredictTrends(o.state.Trends.LastObservedDay(), o.cfg.ForecastDays)
		if err == nil {
			trends.Forecast = forecast
			trends.Method = models.MethodMLHybrid
		} else {
			o.log.Warn().Err(err).Msg("trend forecasting failed, reporting current patterns only")
			diag.TrendStatus = err.Error()
		}
	}
	return trends
}

func (o *Orchestrator) executiveSummary(postings []models.JobPosting, ranked []models.OpportunityScore) models.ExecutiveSummary {
	summary := models.ExecutiveSummary{
		TotalPostings:  len(postings),
		TotalCompanies: len(ranked),
	}
	var scoreSum float64
	for _, r := range ranked {
		if r.Priority == models.PriorityHigh {
			summary.HighPriorityCount++
		}
		scoreSum += r.Score
	}
	if len(ranked) > 0 {
		summary.AverageScore = scoreSum / float64(len(ranked))
	}

	mlTrained := o.state.Urgency.Trained() || o.state.Scorer.Fitted() || o.state.Trends.Fitted()
	switch {
	case mlTrained && len(postings) >= 50:
		summary.Confidence = "high"
	case mlTrained:
		summary.Confidence = "medium"
	default:
		summary.Confidence = "low"
	}
	return summary
}

// unionTech appends ML-derived technologies not already present in the
// rule-based list, keeping rule-based entries first.
func unionTech(ruleBased, ml []string) []string {
	seen := make(map[string]struct{}, len(ruleBased))
	for _, t := range ruleBased {
		seen[t] = struct{}{}
	}
	out := ruleBased
	for _, t := range ml {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
