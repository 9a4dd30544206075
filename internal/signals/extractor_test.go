package signals

import (
	"reflect"
	"testing"

	"github.com/vsawhney27/job-intel/internal/models"
)

func TestTechnologies(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name        string
		description string
		expected    []string
	}{
		{
			name:        "canonical casing restored",
			description: "We use python, REACT and kubernetes in production.",
			expected:    []string{"Python", "React", "Kubernetes"},
		},
		{
			name:        "word boundaries respected",
			description: "Our Pythonic codebase uses Golang conventions.",
			expected:    nil,
		},
		{
			name:        "multi-word technologies",
			description: "Experience with Machine Learning and Google Cloud required.",
			expected:    []string{"Google Cloud", "Machine Learning"},
		},
		{
			name:        "empty description",
			description: "",
			expected:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Technologies(tt.description)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Technologies(%q) = %v, want %v", tt.description, got, tt.expected)
			}
		})
	}
}

func TestUrgentLanguage(t *testing.T) {
	e := NewExtractor()

	got := e.UrgentLanguage("URGENT: need someone ASAP, this is urgent!")
	expected := []string{"asap", "urgent"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("UrgentLanguage = %v, want %v (distinct, sorted)", got, expected)
	}

	if got := e.UrgentLanguage("A calm, ordinary posting."); got != nil {
		t.Fatalf("expected no urgent signals, got %v", got)
	}
}

func TestPainPoints(t *testing.T) {
	e := NewExtractor()

	got := e.PainPoints("Help us migrate off a legacy system and pay down technical debt.")
	for _, want := range []string{"legacy system", "technical debt"} {
		found := false
		for _, m := range got {
			if m == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("PainPoints missing %q in %v", want, got)
		}
	}
}

func TestBudgetSignals(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name        string
		description string
		check       func(t *testing.T, b models.BudgetSignals)
	}{
		{
			name:        "salary range",
			description: "Compensation: $120,000 - $150,000 plus benefits.",
			check: func(t *testing.T, b models.BudgetSignals) {
				if !b.HasSalary() {
					t.Fatalf("expected salary range, got %+v", b)
				}
			},
		},
		{
			name:        "hourly rate",
			description: "Contract role at $85/hour.",
			check: func(t *testing.T, b models.BudgetSignals) {
				if len(b.HourlyRates) == 0 {
					t.Fatalf("expected hourly rate, got %+v", b)
				}
			},
		},
		{
			name:        "equity mention",
			description: "Offer includes meaningful equity and stock options.",
			check: func(t *testing.T, b models.BudgetSignals) {
				if !b.HasEquity() {
					t.Fatalf("expected equity mention, got %+v", b)
				}
			},
		},
		{
			name:        "budget phrase",
			description: "Competitive salary commensurate with experience.",
			check: func(t *testing.T, b models.BudgetSignals) {
				if len(b.BudgetPhrases) == 0 {
					t.Fatalf("expected budget phrase, got %+v", b)
				}
			},
		},
		{
			name:        "no signals",
			description: "Join our friendly team.",
			check: func(t *testing.T, b models.BudgetSignals) {
				if b.HasSalary() || b.HasEquity() || len(b.HourlyRates) > 0 || len(b.BudgetPhrases) > 0 {
					t.Fatalf("expected empty budget signals, got %+v", b)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, e.BudgetSignals(tt.description))
		})
	}
}

func TestAnnotateBatch(t *testing.T) {
	e := NewExtractor()
	postings := []models.JobPosting{
		{Title: "Engineer", Company: "Acme", Description: "Urgent Python role, legacy code, $100,000 - $120,000."},
		{Title: "Designer", Company: "Beta", Description: "A quiet role."},
	}

	postings = e.AnnotateBatch(postings)

	first := postings[0]
	if len(first.Technologies) == 0 || len(first.UrgentSignals) == 0 || len(first.PainPoints) == 0 || !first.Budget.HasSalary() {
		t.Fatalf("first posting not fully annotated: %+v", first)
	}
	for i, p := range postings {
		if p.Method != models.MethodRuleBased {
			t.Fatalf("posting %d method = %q, want %q", i, p.Method, models.MethodRuleBased)
		}
	}
}

func TestAnnotateDeterministic(t *testing.T) {
	e := NewExtractor()
	desc := "Urgent: migrate legacy Python and React systems ASAP. $90,000 - $110,000 with equity."

	a := models.JobPosting{Title: "X", Company: "C", Description: desc}
	b := models.JobPosting{Title: "X", Company: "C", Description: desc}
	e.Annotate(&a)
	e.Annotate(&b)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated annotation diverged:\n%+v\n%+v", a, b)
	}
}
