package models

import (
	"testing"
)

func TestBuildCompanyProfiles(t *testing.T) {
	postings := []JobPosting{
		{Company: "Zeta", Description: "short", Technologies: []string{"Go"}},
		{Company: "Acme", Description: "12345678", UrgentSignals: []string{"asap"},
			Technologies: []string{"Python", "React"}, Department: "Engineering",
			Budget: BudgetSignals{SalaryRanges: []string{"$100k"}}},
		{Company: "Acme", Description: "1234", Technologies: []string{"Python"},
			Budget: BudgetSignals{EquityMentions: []string{"equity"}}},
		{Company: "", Description: "dropped"},
		{Company: "Unknown", Description: "dropped"},
	}

	profiles := BuildCompanyProfiles(postings)
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Company != "Acme" || profiles[1].Company != "Zeta" {
		t.Fatalf("profiles not sorted by company: %s, %s", profiles[0].Company, profiles[1].Company)
	}

	acme := profiles[0]
	if acme.JobCount != 2 {
		t.Fatalf("Acme JobCount = %d, want 2", acme.JobCount)
	}
	if acme.UrgentCount != 1 || acme.UrgencyRatio != 0.5 {
		t.Fatalf("Acme urgency = %d/%v, want 1/0.5", acme.UrgentCount, acme.UrgencyRatio)
	}
	if len(acme.Technologies) != 3 {
		t.Fatalf("Acme technologies should keep repeats, got %v", acme.Technologies)
	}
	if acme.TechDiversity() != 2 {
		t.Fatalf("Acme TechDiversity = %d, want 2", acme.TechDiversity())
	}
	if acme.SalaryCoverage != 0.5 || acme.EquityCoverage != 0.5 {
		t.Fatalf("Acme coverage = %v/%v, want 0.5/0.5", acme.SalaryCoverage, acme.EquityCoverage)
	}
	if acme.MeanDescriptionLen != 6 {
		t.Fatalf("Acme MeanDescriptionLen = %v, want 6", acme.MeanDescriptionLen)
	}
	if acme.Departments["Engineering"] != 1 || acme.Departments["Unknown"] != 1 {
		t.Fatalf("Acme departments = %v", acme.Departments)
	}
}

func TestPriorityForScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected Priority
	}{
		{100, PriorityHigh},
		{80, PriorityHigh},
		{79.99, PriorityMedium},
		{60, PriorityMedium},
		{59.99, PriorityLow},
		{0, PriorityLow},
	}

	for _, tt := range tests {
		if got := PriorityForScore(tt.score); got != tt.expected {
			t.Fatalf("PriorityForScore(%v) = %q, want %q", tt.score, got, tt.expected)
		}
	}
}
