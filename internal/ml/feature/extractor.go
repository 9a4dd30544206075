// Package feature converts job postings into aligned numeric feature blocks
// for the downstream models: TF-IDF text features, integer-encoded
// categoricals, and standardized numeric descriptors.
package feature

import (
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/vsawhney27/job-intel/internal/models"
)

var (
	requirementKeywords = []string{"required", "must", "essential", "mandatory", "preferred"}
	benefitKeywords     = []string{"benefit", "insurance", "vacation", "pto", "equity", "stock", "bonus"}
)

const numericFeatureCount = 9

var categoricalFields = []string{"company", "location", "department", "source"}

// FeatureSet is the output of one extraction: the three aligned blocks plus
// their horizontal concatenation. Matrices are nil when Rows is zero; the
// widths still describe the fitted dimensionality.
type FeatureSet struct {
	Text        *mat.Dense
	Categorical *mat.Dense
	Numeric     *mat.Dense
	Combined    *mat.Dense
	Rows        int
	TextDims    int
	CatDims     int
	NumDims     int
}

// Dims is the combined feature dimensionality.
func (f *FeatureSet) Dims() int { return f.TextDims + f.CatDims + f.NumDims }

// Extractor produces FeatureSets. The first Extract call fits the vocabulary,
// label maps and scaler statistics; every later call reuses them, so feature
// matrices from the same extractor are directly comparable.
type Extractor struct {
	vectorizer *Vectorizer
	encoders   map[string]*LabelEncoder
	scaler     *StandardScaler
	fitted     bool
	log        zerolog.Logger
}

// NewExtractor builds an unfitted extractor with the standard configuration:
// 1000-term TF-IDF with unigrams and bigrams.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{
		vectorizer: NewVectorizer(VectorizerOptions{MaxFeatures: 1000, NGramMax: 2}),
		encoders:   make(map[string]*LabelEncoder),
		scaler:     &StandardScaler{},
		log:        log.With().Str("component", "feature_extractor").Logger(),
	}
}

// Fitted reports whether the extractor has been fitted.
func (e *Extractor) Fitted() bool { return e.fitted }

// Extract converts a batch of postings into a FeatureSet. Empty input after
// fitting yields a zero-row set with the fitted widths rather than an error.
func (e *Extractor) Extract(postings []models.JobPosting) *FeatureSet {
	if len(postings) == 0 && e.fitted {
		return &FeatureSet{
			Rows:     0,
			TextDims: e.vectorizer.Dims(),
			CatDims:  len(categoricalFields),
			NumDims:  numericFeatureCount,
		}
	}

	descriptions := make([]string, len(postings))
	for i, p := range postings {
		descriptions[i] = p.Description
	}

	var text *mat.Dense
	if !e.fitted {
		text = e.vectorizer.FitTransform(descriptions)
	} else {
		text = e.vectorizer.Transform(descriptions)
	}

	categorical := e.extractCategorical(postings)
	numeric := e.extractNumeric(postings)

	if !e.fitted {
		e.fitted = true
		e.log.Debug().
			Int("postings", len(postings)).
			Int("vocabulary", e.vectorizer.Dims()).
			Msg("feature extractor fitted")
	}

	set := &FeatureSet{
		Text:        text,
		Categorical: categorical,
		Numeric:     numeric,
		Rows:        len(postings),
		TextDims:    e.vectorizer.Dims(),
		CatDims:     len(categoricalFields),
		NumDims:     numericFeatureCount,
	}
	set.Combined = hstack(text, categorical, numeric)
	return set
}

func (e *Extractor) extractCategorical(postings []models.JobPosting) *mat.Dense {
	if len(postings) == 0 {
		return nil
	}
	values := func(p models.JobPosting, field string) string {
		var v string
		switch field {
		case "company":
			v = p.Company
		case "location":
			v = p.Location
		case "department":
			v = p.Department
		case "source":
			v = p.Source
		}
		if v == "" {
			return "Unknown"
		}
		return v
	}

	out := mat.NewDense(len(postings), len(categoricalFields), nil)
	for j, field := range categoricalFields {
		enc, ok := e.encoders[field]
		if !ok {
			enc = &LabelEncoder{}
			e.encoders[field] = enc
		}
		if !enc.Fitted() {
			col := make([]string, len(postings))
			for i, p := range postings {
				col[i] = values(p, field)
			}
			enc.Fit(col)
		}
		for i, p := range postings {
			out.Set(i, j, float64(enc.Encode(values(p, field))))
		}
	}
	return out
}

func (e *Extractor) extractNumeric(postings []models.JobPosting) *mat.Dense {
	if len(postings) == 0 {
		return nil
	}
	raw := mat.NewDense(len(postings), numericFeatureCount, nil)
	for i, p := range postings {
		raw.SetRow(i, numericRow(p.Description))
	}
	if !e.scaler.Fitted() {
		return e.scaler.FitTransform(raw)
	}
	return e.scaler.Transform(raw)
}

// numericRow computes the nine per-description features: length, word count,
// mean word length, unique words, '!' and '?' counts, capitalization ratio,
// requirement-keyword count, benefit-keyword count.
func numericRow(description string) []float64 {
	words := strings.Fields(description)
	lower := strings.ToLower(description)

	var wordLenSum int
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		wordLenSum += len(w)
		unique[strings.ToLower(w)] = struct{}{}
	}
	var avgWordLen float64
	if len(words) > 0 {
		avgWordLen = float64(wordLenSum) / float64(len(words))
	}

	var capsRatio float64
	if len(description) > 0 {
		var caps int
		for _, r := range description {
			if r >= 'A' && r <= 'Z' {
				caps++
			}
		}
		capsRatio = float64(caps) / float64(len(description))
	}

	var reqCount, benCount int
	for _, kw := range requirementKeywords {
		reqCount += strings.Count(lower, kw)
	}
	for _, kw := range benefitKeywords {
		benCount += strings.Count(lower, kw)
	}

	return []float64{
		float64(len(description)),
		float64(len(words)),
		avgWordLen,
		float64(len(unique)),
		float64(strings.Count(description, "!")),
		float64(strings.Count(description, "?")),
		capsRatio,
		float64(reqCount),
		float64(benCount),
	}
}

// hstack concatenates blocks left to right, preserving row alignment. Nil
// blocks are skipped.
func hstack(blocks ...*mat.Dense) *mat.Dense {
	var rows, cols int
	for _, b := range blocks {
		if b == nil {
			continue
		}
		r, c := b.Dims()
		rows = r
		cols += c
	}
	if rows == 0 || cols == 0 {
		return nil
	}
	out := mat.NewDense(rows, cols, nil)
	offset := 0
	for _, b := range blocks {
		if b == nil {
			continue
		}
		r, c := b.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				out.Set(i, offset+j, b.At(i, j))
			}
		}
		offset += c
	}
	return out
}
