package feature

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestVectorizerFitTransform(t *testing.T) {
	v := NewVectorizer(VectorizerOptions{MaxFeatures: 100, NGramMax: 1})
	docs := []string{
		"python developer needed",
		"python engineer wanted",
		"java developer wanted",
	}

	x := v.FitTransform(docs)
	if !v.Fitted() {
		t.Fatal("vectorizer should be fitted after FitTransform")
	}

	rows, cols := x.Dims()
	if rows != 3 {
		t.Fatalf("rows = %d, want 3", rows)
	}
	if cols != v.Dims() {
		t.Fatalf("cols = %d, want Dims() = %d", cols, v.Dims())
	}

	// Every non-empty row is L2-normalized.
	for i := 0; i < rows; i++ {
		var norm float64
		for j := 0; j < cols; j++ {
			norm += x.At(i, j) * x.At(i, j)
		}
		if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
			t.Fatalf("row %d norm = %v, want 1", i, math.Sqrt(norm))
		}
	}
}

func TestVectorizerTransformWidthIsStable(t *testing.T) {
	v := NewVectorizer(VectorizerOptions{MaxFeatures: 100, NGramMax: 1})
	v.FitTransform([]string{"python developer", "java engineer"})

	x := v.Transform([]string{"rust programmer with cobol experience"})
	rows, cols := x.Dims()
	if rows != 1 || cols != v.Dims() {
		t.Fatalf("dims = %dx%d, want 1x%d", rows, cols, v.Dims())
	}

	// Entirely unseen vocabulary maps to an all-zero row.
	for j := 0; j < cols; j++ {
		if x.At(0, j) != 0 {
			t.Fatalf("unseen terms produced nonzero weight at col %d", j)
		}
	}
}

func TestVectorizerDeterministic(t *testing.T) {
	docs := []string{
		"python react aws kubernetes",
		"java spring hibernate",
		"python java testing",
	}

	a := NewVectorizer(VectorizerOptions{MaxFeatures: 10, NGramMax: 2})
	b := NewVectorizer(VectorizerOptions{MaxFeatures: 10, NGramMax: 2})
	xa := a.FitTransform(docs)
	xb := b.FitTransform(docs)

	if !mat.EqualApprox(xa, xb, 1e-12) {
		t.Fatal("two vectorizers fitted on the same docs diverged")
	}
	for i, term := range a.Terms() {
		if b.Terms()[i] != term {
			t.Fatalf("vocabulary order diverged at %d: %q vs %q", i, term, b.Terms()[i])
		}
	}
}

func TestVectorizerMaxFeatures(t *testing.T) {
	v := NewVectorizer(VectorizerOptions{MaxFeatures: 2, NGramMax: 1})
	v.FitTransform([]string{
		"alpha alpha alpha beta beta gamma",
	})
	if v.Dims() != 2 {
		t.Fatalf("Dims = %d, want 2", v.Dims())
	}
	terms := v.Terms()
	if terms[0] != "alpha" || terms[1] != "beta" {
		t.Fatalf("most frequent terms not kept: %v", terms)
	}
}

func TestVectorizerBigrams(t *testing.T) {
	v := NewVectorizer(VectorizerOptions{MaxFeatures: 100, NGramMax: 2})
	v.FitTransform([]string{"machine learning engineer"})

	found := false
	for _, term := range v.Terms() {
		if term == "machine learning" {
			found = true
		}
	}
	if !found {
		t.Fatalf("bigram missing from vocabulary: %v", v.Terms())
	}
}

func TestVectorizerEmptyInput(t *testing.T) {
	v := NewVectorizer(VectorizerOptions{MaxFeatures: 10, NGramMax: 1})
	v.FitTransform([]string{"python developer"})

	if x := v.Transform(nil); x != nil {
		t.Fatalf("expected nil matrix for empty input, got %v", x)
	}
}

func TestLabelEncoder(t *testing.T) {
	var e LabelEncoder
	e.Fit([]string{"Engineering", "Sales", "Engineering", "Data"})

	// Codes are assigned in sorted value order.
	if e.Encode("Data") != 0 || e.Encode("Engineering") != 1 || e.Encode("Sales") != 2 {
		t.Fatalf("unexpected codes: Data=%d Engineering=%d Sales=%d",
			e.Encode("Data"), e.Encode("Engineering"), e.Encode("Sales"))
	}
	if e.Encode("Marketing") != e.UnknownCode() {
		t.Fatalf("unseen value should map to sentinel %d, got %d", e.UnknownCode(), e.Encode("Marketing"))
	}
	if e.UnknownCode() != 3 {
		t.Fatalf("UnknownCode = %d, want 3", e.UnknownCode())
	}
}

func TestStandardScaler(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
	})

	var s StandardScaler
	out := s.FitTransform(x)

	// First column standardizes to mean 0.
	var sum float64
	for i := 0; i < 3; i++ {
		sum += out.At(i, 0)
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("standardized column mean = %v, want 0", sum/3)
	}

	// Constant column centers without dividing by zero.
	for i := 0; i < 3; i++ {
		if got := out.At(i, 1); got != 0 || math.IsNaN(got) {
			t.Fatalf("constant column row %d = %v, want 0", i, got)
		}
	}
}
