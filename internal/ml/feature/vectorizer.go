package feature

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"gonum.org/v1/gonum/mat"
)

// VectorizerOptions control vocabulary construction.
type VectorizerOptions struct {
	// MaxFeatures caps the vocabulary size; the most frequent terms win.
	MaxFeatures int
	// NGramMax is the largest n-gram length (1 = unigrams only).
	NGramMax int
}

// Vectorizer is a TF-IDF text vectorizer. Fit learns a vocabulary and IDF
// weights; Transform reuses them, mapping unseen terms to zero weight so the
// output width never changes after fitting.
type Vectorizer struct {
	opts   VectorizerOptions
	vocab  map[string]int
	terms  []string
	idf    []float64
	fitted bool
}

// NewVectorizer returns an unfitted vectorizer.
func NewVectorizer(opts VectorizerOptions) *Vectorizer {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = 1000
	}
	if opts.NGramMax <= 0 {
		opts.NGramMax = 1
	}
	return &Vectorizer{opts: opts}
}

// Fitted reports whether the vocabulary has been learned.
func (v *Vectorizer) Fitted() bool { return v.fitted }

// Terms returns the vocabulary in column order.
func (v *Vectorizer) Terms() []string { return v.terms }

// Dims returns the vocabulary size (0 before fitting).
func (v *Vectorizer) Dims() int { return len(v.terms) }

// FitTransform learns the vocabulary and IDF weights from docs and returns
// their TF-IDF matrix.
func (v *Vectorizer) FitTransform(docs []string) *mat.Dense {
	tokenized := make([][]string, len(docs))
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for i, doc := range docs {
		tokens := v.tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{})
		for _, t := range tokens {
			termFreq[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				docFreq[t]++
			}
		}
	}

	// Keep the most frequent terms; ties break alphabetically so column
	// ordering is stable across runs.
	candidates := make([]string, 0, len(termFreq))
	for t := range termFreq {
		candidates = append(candidates, t)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if termFreq[candidates[i]] != termFreq[candidates[j]] {
			return termFreq[candidates[i]] > termFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > v.opts.MaxFeatures {
		candidates = candidates[:v.opts.MaxFeatures]
	}
	sort.Strings(candidates)

	v.terms = candidates
	v.vocab = make(map[string]int, len(candidates))
	v.idf = make([]float64, len(candidates))
	n := float64(len(docs))
	for i, t := range candidates {
		v.vocab[t] = i
		// Smoothed IDF keeps weights finite for terms present in every doc.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}
	v.fitted = true

	return v.matrixFor(tokenized)
}

// Transform maps docs into the fitted TF-IDF space.
func (v *Vectorizer) Transform(docs []string) *mat.Dense {
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokenized[i] = v.tokenize(doc)
	}
	return v.matrixFor(tokenized)
}

// matrixFor builds the TF-IDF matrix. A nil matrix is returned for empty
// input since gonum cannot represent zero-row matrices; callers surface the
// fitted width through Dims.
func (v *Vectorizer) matrixFor(tokenized [][]string) *mat.Dense {
	rows := len(tokenized)
	cols := len(v.terms)
	if rows == 0 || cols == 0 {
		return nil
	}
	out := mat.NewDense(rows, cols, nil)
	for i, tokens := range tokenized {
		counts := make(map[int]float64)
		for _, t := range tokens {
			if idx, ok := v.vocab[t]; ok {
				counts[idx]++
			}
		}
		var norm float64
		for idx, c := range counts {
			w := c * v.idf[idx]
			counts[idx] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx, w := range counts {
				out.Set(i, idx, w/norm)
			}
		}
	}
	return out
}

// tokenize lowercases, splits on non-alphanumerics, drops stop words and
// single characters, and emits n-grams up to NGramMax.
func (v *Vectorizer) tokenize(doc string) []string {
	words := splitWords(doc)
	filtered := words[:0]
	for _, w := range words {
		if len(w) < 2 || stopWords[w] {
			continue
		}
		filtered = append(filtered, w)
	}

	tokens := make([]string, 0, len(filtered)*v.opts.NGramMax)
	tokens = append(tokens, filtered...)
	for n := 2; n <= v.opts.NGramMax; n++ {
		for i := 0; i+n <= len(filtered); i++ {
			tokens = append(tokens, strings.Join(filtered[i:i+n], " "))
		}
	}
	return tokens
}

func splitWords(doc string) []string {
	return strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
