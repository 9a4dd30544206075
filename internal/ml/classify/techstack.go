package classify

import (
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/ml/feature"
	"github.com/vsawhney27/job-intel/internal/models"
)

// CategoryMetrics reports per-category training diagnostics.
type CategoryMetrics struct {
	Trained       bool    `json:"trained"`
	Note          string  `json:"note,omitempty"`
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
}

// TechStackClassifier trains one independent binary classifier per technology
// category over a shared text vectorization. Categories and their keyword
// lists come from the embedded catalog.
type TechStackClassifier struct {
	categories []TechCategory
	vectorizer *feature.Vectorizer
	byCategory map[string]*logisticRegression
	trained    bool
	seed       int64
	log        zerolog.Logger
}

// NewTechStackClassifier builds an untrained classifier.
func NewTechStackClassifier(seed int64, log zerolog.Logger) (*TechStackClassifier, error) {
	cats, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return &TechStackClassifier{
		categories: cats,
		vectorizer: feature.NewVectorizer(feature.VectorizerOptions{MaxFeatures: 300, NGramMax: 2}),
		byCategory: make(map[string]*logisticRegression),
		seed:       seed,
		log:        log.With().Str("component", "techstack_classifier").Logger(),
	}, nil
}

// Trained reports whether at least one category model is usable.
func (c *TechStackClassifier) Trained() bool { return c.trained }

// Categories lists the catalog category names in order.
func (c *TechStackClassifier) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// categoryLabel reports whether the posting mentions at least one keyword of
// the category, judged against the rule-based technology list.
func categoryLabel(cat TechCategory, technologies []string) int {
	for _, t := range technologies {
		for _, kw := range cat.Keywords {
			if strings.EqualFold(t, kw) {
				return 1
			}
		}
	}
	return 0
}

// Train fits one model per category on the shared vectorization. Categories
// with single-class labels are skipped and reported as untrained.
func (c *TechStackClassifier) Train(postings []models.JobPosting) map[string]CategoryMetrics {
	descriptions := make([]string, len(postings))
	for i, p := range postings {
		descriptions[i] = p.Description
	}
	x := c.vectorizer.FitTransform(descriptions)

	results := make(map[string]CategoryMetrics, len(c.categories))
	for _, cat := range c.categories {
		labels := make([]int, len(postings))
		var positives int
		for i, p := range postings {
			labels[i] = categoryLabel(cat, p.Technologies)
			positives += labels[i]
		}

		if positives == 0 || positives == len(postings) {
			results[cat.Name] = CategoryMetrics{Note: "degenerate labels: single class"}
			continue
		}

		rng := rand.New(rand.NewSource(c.seed))
		trainIdx, testIdx := trainTestSplit(len(labels), rng)
		trainX, trainY := subset(x, labels, trainIdx)
		testX, testY := subset(x, labels, testIdx)

		model := &logisticRegression{}
		model.fit(trainX, trainY)
		c.byCategory[cat.Name] = model
		c.trained = true

		results[cat.Name] = CategoryMetrics{
			Trained:       true,
			TrainAccuracy: model.accuracy(trainX, trainY),
			TestAccuracy:  model.accuracy(testX, testY),
		}
	}

	c.log.Info().
		Int("categories_trained", len(c.byCategory)).
		Int("categories_total", len(c.categories)).
		Msg("technology classifiers trained")
	return results
}

// PredictCategories returns, for each description, the probability that each
// trained category applies.
func (c *TechStackClassifier) PredictCategories(descriptions []string) ([]map[string]float64, error) {
	if !c.trained {
		return nil, ErrNotFitted
	}
	if len(descriptions) == 0 {
		return nil, nil
	}
	x := c.vectorizer.Transform(descriptions)

	probs := make(map[string][]float64, len(c.byCategory))
	for name, model := range c.byCategory {
		probs[name] = model.proba(x)
	}

	out := make([]map[string]float64, len(descriptions))
	for i := range descriptions {
		row := make(map[string]float64, len(c.byCategory))
		for name, p := range probs {
			row[name] = p[i]
		}
		out[i] = row
	}
	return out, nil
}

// ExtractTechnologies re-derives likely technologies from the ML path: for
// each category whose probability exceeds threshold it contributes up to two
// representative technologies. Callers union the result with the rule-based
// list; neither path replaces the other.
func (c *TechStackClassifier) ExtractTechnologies(descriptions []string, threshold float64) ([][]string, error) {
	predictions, err := c.PredictCategories(descriptions)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(descriptions))
	for i, pred := range predictions {
		var techs []string
		for _, cat := range c.categories {
			if pred[cat.Name] > threshold {
				reps := cat.Representative
				if len(reps) > 2 {
					reps = reps[:2]
				}
				techs = append(techs, reps...)
			}
		}
		out[i] = techs
	}
	return out, nil
}
