// Package score ranks companies by business-development attractiveness. The
// weight vector blends a statistical importance signal (first principal
// component of the company population) with fixed business priors, so scoring
// stays anchored to known priorities instead of whatever varies most in one
// batch.
package score

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vsawhney27/job-intel/internal/ml/feature"
	"github.com/vsawhney27/job-intel/internal/models"
)

// ErrNotFitted is returned when scoring is attempted before Fit.
var ErrNotFitted = errors.New("score: scorer not fitted")

const featureCount = 12

// featureNames index the twelve opportunity features.
var featureNames = [featureCount]string{
	"job_count",
	"hiring_velocity",
	"tech_diversity",
	"tech_volume",
	"tech_adoption",
	"dept_diversity",
	"engineering_ratio",
	"pain_points",
	"budget_transparency",
	"equity_offering",
	"desc_quality",
	"scaling_signals",
}

// businessPriors are the hand-set importance weights. Urgency and high-value
// technology adoption are deliberately weighted highest. Tunable constants,
// not re-derived per run.
var businessPriors = [featureCount]float64{
	0.20, // job_count
	0.25, // hiring_velocity (urgency)
	0.15, // tech_diversity
	0.10, // tech_volume
	0.20, // tech_adoption (high-value ratio)
	0.10, // dept_diversity
	0.15, // engineering_ratio
	0.15, // pain_points
	0.10, // budget_transparency
	0.05, // equity_offering
	0.05, // desc_quality
	0.10, // scaling_signals (volume saturation)
}

// priorBlend is the share of the final weight taken from businessPriors; the
// remainder comes from the first principal-component loadings.
const priorBlend = 0.6

// highValueTech marks technologies treated as strong buying signals.
var highValueTech = map[string]struct{}{
	"AI":               {},
	"Machine Learning": {},
	"TensorFlow":       {},
	"PyTorch":          {},
	"AWS":              {},
	"Kubernetes":       {},
	"React":            {},
	"Python":           {},
}

// FitMetrics describes one weight-learning pass.
type FitMetrics struct {
	Fitted            bool    `json:"fitted"`
	Companies         int     `json:"companies"`
	ExplainedVariance float64 `json:"explained_variance"`
}

// Scorer learns population-relative feature weights and produces bounded
// opportunity scores.
type Scorer struct {
	scaler  feature.StandardScaler
	weights []float64
	fitted  bool
	log     zerolog.Logger
}

// NewScorer builds an unfitted scorer.
func NewScorer(log zerolog.Logger) *Scorer {
	return &Scorer{log: log.With().Str("component", "opportunity_scorer").Logger()}
}

// Fitted reports whether weights have been learned.
func (s *Scorer) Fitted() bool { return s.fitted }

// opportunityFeatures builds the twelve-feature vector for one company.
func opportunityFeatures(p models.CompanyProfile) []float64 {
	var highValue int
	for _, t := range p.Technologies {
		if _, ok := highValueTech[t]; ok {
			highValue++
		}
	}
	var highValueRatio float64
	if len(p.Technologies) > 0 {
		highValueRatio = float64(highValue) / float64(len(p.Technologies))
	}

	var engineering int
	for dept, n := range p.Departments {
		if strings.Contains(strings.ToLower(dept), "engineer") {
			engineering += n
		}
	}

	return []float64{
		float64(p.JobCount),
		p.UrgencyRatio,
		float64(p.TechDiversity()),
		float64(len(p.Technologies)),
		highValueRatio,
		float64(len(p.Departments)),
		float64(engineering) / float64(p.JobCount),
		float64(len(p.PainPoints)),
		p.SalaryCoverage,
		p.EquityCoverage,
		p.MeanDescriptionLen / 1000,
		math.Min(float64(p.JobCount)/10, 1.0),
	}
}

// Fit learns the blended weight vector from the company population behind
// the postings.
func (s *Scorer) Fit(postings []models.JobPosting) (FitMetrics, error) {
	profiles := models.BuildCompanyProfiles(postings)
	metrics := FitMetrics{Companies: len(profiles)}
	if len(profiles) < 2 {
		return metrics, errors.New("score: need at least two companies to learn weights")
	}

	x := mat.NewDense(len(profiles), featureCount, nil)
	for i, p := range profiles {
		x.SetRow(i, opportunityFeatures(p))
	}
	scaled := s.scaler.FitTransform(x)

	loadings, explained := firstComponentLoadings(scaled)
	s.weights = make([]float64, featureCount)
	var sum float64
	for j := range s.weights {
		s.weights[j] = priorBlend*businessPriors[j] + (1-priorBlend)*loadings[j]
		sum += s.weights[j]
	}
	for j := range s.weights {
		s.weights[j] /= sum
	}
	s.fitted = true

	metrics.Fitted = true
	metrics.ExplainedVariance = explained
	s.log.Info().
		Int("companies", len(profiles)).
		Float64("explained_variance", explained).
		Msg("opportunity weights learned")
	return metrics, nil
}

// firstComponentLoadings returns the absolute loadings of the first principal
// component and its explained-variance ratio. When the decomposition fails
// the statistical signal degrades to uniform, leaving the business priors in
// charge.
func firstComponentLoadings(x *mat.Dense) ([]float64, float64) {
	_, cols := x.Dims()
	uniform := make([]float64, cols)
	for j := range uniform {
		uniform[j] = 1 / float64(cols)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return uniform, 0
	}
	vars := pc.VarsTo(nil)
	var total float64
	for _, v := range vars {
		total += v
	}
	if total == 0 {
		return uniform, 0
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	loadings := make([]float64, cols)
	for j := 0; j < cols; j++ {
		loadings[j] = math.Abs(vecs.At(j, 0))
	}
	return loadings, vars[0] / total
}

// ScoreOpportunities scores every company with at least one posting and
// returns the ranking sorted by descending score, company name breaking ties.
func (s *Scorer) ScoreOpportunities(postings []models.JobPosting) ([]models.OpportunityScore, error) {
	if !s.fitted {
		return nil, ErrNotFitted
	}
	profiles := models.BuildCompanyProfiles(postings)

	out := make([]models.OpportunityScore, 0, len(profiles))
	for _, p := range profiles {
		raw := opportunityFeatures(p)
		scaled := s.scaler.TransformRow(raw)

		var score float64
		for j, w := range s.weights {
			score += scaled[j] * w
		}
		score = math.Max(0, math.Min(100, score*100))

		out = append(out, models.OpportunityScore{
			Company:  p.Company,
			Score:    math.Round(score*100) / 100,
			Priority: models.PriorityForScore(score),
			JobCount: p.JobCount,
			FeatureScores: map[string]float64{
				"hiring_velocity": raw[1],
				"tech_adoption":   raw[4],
				"scaling_signals": raw[0],
				"pain_points":     raw[7],
			},
			Method: models.MethodMLHybrid,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Company < out[j].Company
	})
	return out, nil
}

// FeatureNames exposes the feature ordering for diagnostics.
func FeatureNames() []string {
	return featureNames[:]
}
