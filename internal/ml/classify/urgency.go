// Package classify holds the supervised signal classifiers. They are trained
// on weak labels produced by the rule-based extractor and generalize beyond
// its fixed phrase lists; when a model cannot be trained the orchestrator
// keeps the rule-based path authoritative.
package classify

import (
	"errors"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/ml/feature"
	"github.com/vsawhney27/job-intel/internal/models"
)

// ErrNotFitted is returned by inference calls made before a successful train.
// The orchestrator treats it as the signal to route to the rule-based path.
var ErrNotFitted = errors.New("classify: model not fitted")

// UrgencyMetrics reports training diagnostics. They are informational, not
// gating: a weak model is still usable unless the orchestrator disables it.
type UrgencyMetrics struct {
	Trained       bool    `json:"trained"`
	Note          string  `json:"note,omitempty"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
	CVMean        float64 `json:"cv_mean"`
	CVStd         float64 `json:"cv_std"`
	Positives     int     `json:"positives"`
	Negatives     int     `json:"negatives"`
}

// UrgencyClassifier learns to detect urgent hiring language from the
// rule-based extractor's matches.
type UrgencyClassifier struct {
	vectorizer *feature.Vectorizer
	model      logisticRegression
	trained    bool
	seed       int64
	log        zerolog.Logger
}

// NewUrgencyClassifier builds an untrained classifier over a 500-term TF-IDF.
func NewUrgencyClassifier(seed int64, log zerolog.Logger) *UrgencyClassifier {
	return &UrgencyClassifier{
		vectorizer: feature.NewVectorizer(feature.VectorizerOptions{MaxFeatures: 500, NGramMax: 1}),
		seed:       seed,
		log:        log.With().Str("component", "urgency_classifier").Logger(),
	}
}

// Trained reports whether the model is usable for inference.
func (c *UrgencyClassifier) Trained() bool { return c.trained }

// Train derives weak labels from the postings' urgent-signal matches and fits
// the model. Degenerate labels (single class) leave the model untrained and
// are reported through the metrics, not as an error.
func (c *UrgencyClassifier) Train(postings []models.JobPosting) UrgencyMetrics {
	descriptions := make([]string, len(postings))
	labels := make([]int, len(postings))
	var positives int
	for i, p := range postings {
		descriptions[i] = p.Description
		if p.IsUrgent() {
			labels[i] = 1
			positives++
		}
	}

	metrics := UrgencyMetrics{Positives: positives, Negatives: len(postings) - positives}
	if positives == 0 || positives == len(postings) {
		metrics.Note = "degenerate labels: all postings share one urgency class"
		c.log.Warn().Int("postings", len(postings)).Msg("urgency training skipped, single-class labels")
		return metrics
	}

	x := c.vectorizer.FitTransform(descriptions)
	rng := rand.New(rand.NewSource(c.seed))
	trainIdx, testIdx := trainTestSplit(len(labels), rng)
	trainX, trainY := subset(x, labels, trainIdx)
	testX, testY := subset(x, labels, testIdx)

	c.model.fit(trainX, trainY)
	c.trained = true

	metrics.Trained = true
	metrics.TrainAccuracy = c.model.accuracy(trainX, trainY)
	metrics.TestAccuracy = c.model.accuracy(testX, testY)
	metrics.CVMean, metrics.CVStd = crossValidAccuracy(x, labels, 5, rand.New(rand.NewSource(c.seed)))

	c.log.Info().
		Float64("test_accuracy", metrics.TestAccuracy).
		Float64("cv_mean", metrics.CVMean).
		Msg("urgency classifier trained")
	return metrics
}

// Predict returns 0/1 urgency labels for the descriptions.
func (c *UrgencyClassifier) Predict(descriptions []string) ([]int, error) {
	if !c.trained {
		return nil, ErrNotFitted
	}
	if len(descriptions) == 0 {
		return nil, nil
	}
	return c.model.predict(c.vectorizer.Transform(descriptions)), nil
}

// PredictProbability returns P(urgent) for the descriptions.
func (c *UrgencyClassifier) PredictProbability(descriptions []string) ([]float64, error) {
	if !c.trained {
		return nil, ErrNotFitted
	}
	if len(descriptions) == 0 {
		return nil, nil
	}
	return c.model.proba(c.vectorizer.Transform(descriptions)), nil
}
