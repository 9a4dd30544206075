package classify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

// urgencyCorpus builds a separable weak-labeled dataset: half the postings
// carry urgent language and an urgent-signal match, half are calm.
func urgencyCorpus(n int) []models.JobPosting {
	postings := make([]models.JobPosting, 0, n*2)
	for i := 0; i < n; i++ {
		postings = append(postings, models.JobPosting{
			Company:       "Acme",
			Description:   fmt.Sprintf("Urgent role %d, start immediately, hiring now, asap onboarding.", i),
			UrgentSignals: []string{"urgent", "asap"},
		})
		postings = append(postings, models.JobPosting{
			Company:     "Beta",
			Description: fmt.Sprintf("Relaxed position %d, flexible schedule, calm supportive environment.", i),
		})
	}
	return postings
}

func TestUrgencyPredictBeforeTraining(t *testing.T) {
	c := NewUrgencyClassifier(42, testLogger())

	if _, err := c.Predict([]string{"anything"}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("Predict before training returned %v, want ErrNotFitted", err)
	}
	if _, err := c.PredictProbability([]string{"anything"}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("PredictProbability before training returned %v, want ErrNotFitted", err)
	}
}

func TestUrgencyDegenerateLabels(t *testing.T) {
	c := NewUrgencyClassifier(42, testLogger())

	postings := []models.JobPosting{
		{Description: "A calm posting."},
		{Description: "Another calm posting."},
		{Description: "Yet another."},
	}

	metrics := c.Train(postings)
	if metrics.Trained {
		t.Fatal("single-class labels should leave the model untrained")
	}
	if metrics.Note == "" {
		t.Fatal("expected a diagnostic note for degenerate labels")
	}
	if c.Trained() {
		t.Fatal("classifier reports trained after degenerate training")
	}
	if _, err := c.Predict([]string{"x"}); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("Predict after degenerate training returned %v, want ErrNotFitted", err)
	}
}

func TestUrgencyTrainAndPredict(t *testing.T) {
	c := NewUrgencyClassifier(42, testLogger())
	postings := urgencyCorpus(10)

	metrics := c.Train(postings)
	if !metrics.Trained || !c.Trained() {
		t.Fatal("expected training to succeed on separable labels")
	}
	if metrics.Positives != 10 || metrics.Negatives != 10 {
		t.Fatalf("label counts = %d/%d, want 10/10", metrics.Positives, metrics.Negatives)
	}
	if metrics.TrainAccuracy < 0.9 {
		t.Fatalf("train accuracy = %v on separable data, want >= 0.9", metrics.TrainAccuracy)
	}

	preds, err := c.Predict([]string{
		"Urgent opening, start immediately, hiring now asap.",
		"Relaxed team with a calm supportive environment and flexible schedule.",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if preds[0] != 1 || preds[1] != 0 {
		t.Fatalf("predictions = %v, want [1 0]", preds)
	}

	probs, err := c.PredictProbability([]string{
		"Urgent opening, start immediately, hiring now asap.",
	})
	if err != nil {
		t.Fatalf("PredictProbability failed: %v", err)
	}
	if probs[0] <= 0.5 {
		t.Fatalf("P(urgent) = %v for urgent text, want > 0.5", probs[0])
	}
}

func TestUrgencyTrainingDeterministic(t *testing.T) {
	postings := urgencyCorpus(8)

	a := NewUrgencyClassifier(42, testLogger())
	b := NewUrgencyClassifier(42, testLogger())
	ma := a.Train(postings)
	mb := b.Train(postings)

	if ma != mb {
		t.Fatalf("same seed produced different metrics:\n%+v\n%+v", ma, mb)
	}
}

func TestUrgencyPredictEmpty(t *testing.T) {
	c := NewUrgencyClassifier(42, testLogger())
	c.Train(urgencyCorpus(8))

	preds, err := c.Predict(nil)
	if err != nil || preds != nil {
		t.Fatalf("Predict(nil) = %v, %v; want nil, nil", preds, err)
	}
}
