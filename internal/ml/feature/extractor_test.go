package feature

import (
	"testing"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/vsawhney27/job-intel/internal/models"
)

func testPostings() []models.JobPosting {
	return []models.JobPosting{
		{Title: "Backend Engineer", Company: "Acme", Location: "NYC", Department: "Engineering",
			Source: "boards", Description: "Build Python services. Kubernetes experience required!"},
		{Title: "Data Scientist", Company: "Beta", Location: "Remote", Department: "Data",
			Source: "boards", Description: "Machine learning models in Python. PhD preferred?"},
		{Title: "Frontend Dev", Company: "Acme", Location: "NYC", Department: "Engineering",
			Source: "careers", Description: "React and TypeScript. Great benefits and equity."},
	}
}

func TestExtractFitsOnFirstCall(t *testing.T) {
	e := NewExtractor(zerolog.New(nil).Level(zerolog.Disabled))
	set := e.Extract(testPostings())

	if !e.Fitted() {
		t.Fatal("extractor should be fitted after first Extract")
	}
	if set.Rows != 3 {
		t.Fatalf("Rows = %d, want 3", set.Rows)
	}
	if set.CatDims != 4 || set.NumDims != 9 {
		t.Fatalf("CatDims/NumDims = %d/%d, want 4/9", set.CatDims, set.NumDims)
	}

	rows, cols := set.Combined.Dims()
	if rows != 3 || cols != set.Dims() {
		t.Fatalf("Combined dims = %dx%d, want 3x%d", rows, cols, set.Dims())
	}
}

func TestExtractIsIdempotentAfterFit(t *testing.T) {
	e := NewExtractor(zerolog.New(nil).Level(zerolog.Disabled))
	postings := testPostings()

	first := e.Extract(postings)
	second := e.Extract(postings)

	if !mat.EqualApprox(first.Combined, second.Combined, 1e-12) {
		t.Fatal("re-extracting the same postings changed the feature matrix")
	}
}

func TestExtractUnseenCategory(t *testing.T) {
	e := NewExtractor(zerolog.New(nil).Level(zerolog.Disabled))
	e.Extract(testPostings())

	set := e.Extract([]models.JobPosting{
		{Title: "Ops", Company: "Gamma", Location: "Berlin", Department: "Platform",
			Source: "boards", Description: "Terraform and AWS."},
	})

	// Unseen companies hit the sentinel code, one past the fitted range.
	// Fit saw Acme and Beta, so the sentinel is 2.
	if got := set.Categorical.At(0, 0); got != 2 {
		t.Fatalf("unseen company code = %v, want sentinel 2", got)
	}
	if set.Rows != 1 {
		t.Fatalf("Rows = %d, want 1", set.Rows)
	}
	if _, cols := set.Combined.Dims(); cols != set.Dims() {
		t.Fatalf("combined width changed for unseen data")
	}
}

func TestExtractEmptyAfterFit(t *testing.T) {
	e := NewExtractor(zerolog.New(nil).Level(zerolog.Disabled))
	fitted := e.Extract(testPostings())

	set := e.Extract(nil)
	if set.Rows != 0 {
		t.Fatalf("Rows = %d, want 0", set.Rows)
	}
	if set.Combined != nil {
		t.Fatal("zero-row set should carry a nil combined matrix")
	}
	if set.Dims() != fitted.Dims() {
		t.Fatalf("Dims = %d, want fitted %d", set.Dims(), fitted.Dims())
	}
}

func TestNumericRow(t *testing.T) {
	row := numericRow("Must have SQL! Benefits included?")

	if len(row) != numericFeatureCount {
		t.Fatalf("row length = %d, want %d", len(row), numericFeatureCount)
	}
	if row[4] != 1 {
		t.Fatalf("exclamation count = %v, want 1", row[4])
	}
	if row[5] != 1 {
		t.Fatalf("question count = %v, want 1", row[5])
	}
	if row[7] != 1 {
		t.Fatalf("requirement keywords = %v, want 1 (must)", row[7])
	}
	if row[8] != 1 {
		t.Fatalf("benefit keywords = %v, want 1 (benefit)", row[8])
	}
}

func TestNumericRowEmptyDescription(t *testing.T) {
	row := numericRow("")
	for i, v := range row {
		if v != 0 {
			t.Fatalf("feature %d = %v for empty description, want 0", i, v)
		}
	}
}
