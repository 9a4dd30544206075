package classify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vsawhney27/job-intel/internal/models"
)

func TestLoadCatalog(t *testing.T) {
	cats, err := loadCatalog()
	if err != nil {
		t.Fatalf("loadCatalog failed: %v", err)
	}
	if len(cats) == 0 {
		t.Fatal("catalog is empty")
	}
	for _, cat := range cats {
		if cat.Name == "" || len(cat.Keywords) == 0 || len(cat.Representative) == 0 {
			t.Fatalf("incomplete category: %+v", cat)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	cat := TechCategory{Name: "Languages", Keywords: []string{"Python", "Go"}}

	tests := []struct {
		name         string
		technologies []string
		expected     int
	}{
		{"exact match", []string{"Python"}, 1},
		{"case-insensitive match", []string{"python"}, 1},
		{"no match", []string{"React", "AWS"}, 0},
		{"empty list", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categoryLabel(cat, tt.technologies); got != tt.expected {
				t.Fatalf("categoryLabel(%v) = %d, want %d", tt.technologies, got, tt.expected)
			}
		})
	}
}

// techCorpus mixes postings that mention Python (labeling the Programming
// Languages category positive) with postings that mention nothing technical.
func techCorpus(n int) []models.JobPosting {
	postings := make([]models.JobPosting, 0, n*2)
	for i := 0; i < n; i++ {
		postings = append(postings, models.JobPosting{
			Description:  fmt.Sprintf("Python developer role %d writing python services daily.", i),
			Technologies: []string{"Python"},
		})
		postings = append(postings, models.JobPosting{
			Description: fmt.Sprintf("Account manager role %d handling client relationships.", i),
		})
	}
	return postings
}

func TestTechStackTrain(t *testing.T) {
	c, err := NewTechStackClassifier(42, testLogger())
	if err != nil {
		t.Fatalf("NewTechStackClassifier failed: %v", err)
	}

	results := c.Train(techCorpus(10))
	if !c.Trained() {
		t.Fatal("expected at least one trained category")
	}

	langs, ok := results["Programming Languages"]
	if !ok || !langs.Trained {
		t.Fatalf("Programming Languages should train on this corpus: %+v", results)
	}

	// Categories nothing mentions stay untrained with a note, not an error.
	dbs := results["Databases"]
	if dbs.Trained || dbs.Note == "" {
		t.Fatalf("Databases should be skipped as single-class: %+v", dbs)
	}
}

func TestTechStackPredictBeforeTraining(t *testing.T) {
	c, err := NewTechStackClassifier(42, testLogger())
	if err != nil {
		t.Fatalf("NewTechStackClassifier failed: %v", err)
	}
	if _, err := c.PredictCategories([]string{"x"}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("PredictCategories before training returned %v, want ErrNotFitted", err)
	}
	if _, err := c.ExtractTechnologies([]string{"x"}, 0.5); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("ExtractTechnologies before training returned %v, want ErrNotFitted", err)
	}
}

func TestTechStackPredictCategories(t *testing.T) {
	c, err := NewTechStackClassifier(42, testLogger())
	if err != nil {
		t.Fatalf("NewTechStackClassifier failed: %v", err)
	}
	c.Train(techCorpus(10))

	preds, err := c.PredictCategories([]string{
		"Senior python engineer building python services.",
		"Client-facing account manager handling relationships.",
	})
	if err != nil {
		t.Fatalf("PredictCategories failed: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("got %d prediction rows, want 2", len(preds))
	}

	if preds[0]["Programming Languages"] <= preds[1]["Programming Languages"] {
		t.Fatalf("python text scored %v, non-technical text %v; expected the former higher",
			preds[0]["Programming Languages"], preds[1]["Programming Languages"])
	}
}

func TestExtractTechnologiesCapsRepresentatives(t *testing.T) {
	c, err := NewTechStackClassifier(42, testLogger())
	if err != nil {
		t.Fatalf("NewTechStackClassifier failed: %v", err)
	}
	c.Train(techCorpus(10))

	// A low threshold forces every trained category to contribute, which
	// exercises the two-representative cap.
	techs, err := c.ExtractTechnologies([]string{"Python services everywhere."}, 0.01)
	if err != nil {
		t.Fatalf("ExtractTechnologies failed: %v", err)
	}
	if len(techs) != 1 {
		t.Fatalf("got %d rows, want 1", len(techs))
	}
	if len(techs[0]) == 0 || len(techs[0]) > 2*len(c.Categories()) {
		t.Fatalf("unexpected technology count %d: %v", len(techs[0]), techs[0])
	}
}
