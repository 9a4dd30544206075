package trend

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

// trendCorpus spreads postings over `days` calendar days, `perDay` each, with
// urgency alternating by day.
func trendCorpus(days, perDay int) []models.JobPosting {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	var postings []models.JobPosting
	for d := 0; d < days; d++ {
		for i := 0; i < perDay; i++ {
			p := models.JobPosting{
				Company:      fmt.Sprintf("Company%d", i%3),
				Description:  fmt.Sprintf("Backend role day %d slot %d with responsibilities.", d, i),
				ScrapedDate:  base.AddDate(0, 0, d),
				Technologies: []string{"Python", "AWS"},
			}
			if d%2 == 0 {
				p.UrgentSignals = []string{"urgent"}
			}
			postings = append(postings, p)
		}
	}
	return postings
}

func TestFitInsufficientPostings(t *testing.T) {
	p := NewPredictor(42, testLogger())
	_, err := p.Fit(trendCorpus(3, 2)) // 6 postings
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Fit returned %v, want ErrInsufficientData", err)
	}
	if p.Fitted() {
		t.Fatal("predictor must stay unfitted after insufficient data")
	}
}

func TestFitInsufficientDays(t *testing.T) {
	p := NewPredictor(42, testLogger())
	_, err := p.Fit(trendCorpus(2, 6)) // 12 postings, 2 days
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("Fit returned %v, want ErrInsufficientData", err)
	}
}

func TestFitAndForecast(t *testing.T) {
	p := NewPredictor(42, testLogger())
	postings := trendCorpus(7, 3)

	metrics, err := p.Fit(postings)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if !metrics.Fitted || metrics.Days != 7 || metrics.Postings != 21 {
		t.Fatalf("metrics = %+v, want fitted over 7 days / 21 postings", metrics)
	}
	for _, target := range []string{"volume", "urgency", "tech_adoption"} {
		if _, ok := metrics.PerTarget[target]; !ok {
			t.Fatalf("missing per-target metrics for %q", target)
		}
	}

	forecasts, err := p.PredictTrends(p.LastObservedDay(), 14)
	if err != nil {
		t.Fatalf("PredictTrends failed: %v", err)
	}
	if len(forecasts) != 14 {
		t.Fatalf("got %d forecasts, want 14", len(forecasts))
	}

	last := p.LastObservedDay()
	for i, f := range forecasts {
		if !f.Date.After(last) {
			t.Fatalf("forecast %d dated %v, not after %v", i, f.Date, last)
		}
		if f.Volume < 0 || f.Urgency < 0 || f.TechAdoption < 0 {
			t.Fatalf("forecast %d has negative values: %+v", i, f)
		}
	}
}

func TestForecastNonNegativeWithAllUrgentHistory(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var postings []models.JobPosting
	for d := 0; d < 5; d++ {
		for i := 0; i < 3; i++ {
			postings = append(postings, models.JobPosting{
				Company:       "Acme",
				Description:   fmt.Sprintf("Urgent role %d-%d.", d, i),
				ScrapedDate:   base.AddDate(0, 0, d),
				UrgentSignals: []string{"urgent"},
			})
		}
	}

	p := NewPredictor(42, testLogger())
	if _, err := p.Fit(postings); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	forecasts, err := p.PredictTrends(p.LastObservedDay(), 7)
	if err != nil {
		t.Fatalf("PredictTrends failed: %v", err)
	}
	for _, f := range forecasts {
		if f.Urgency < 0 {
			t.Fatalf("negative urgency forecast: %+v", f)
		}
	}
}

func TestPredictBeforeFit(t *testing.T) {
	p := NewPredictor(42, testLogger())
	if _, err := p.PredictTrends(time.Now(), 7); err == nil {
		t.Fatal("PredictTrends before Fit should fail")
	}
}

func TestFitDeterministic(t *testing.T) {
	postings := trendCorpus(7, 3)

	a := NewPredictor(42, testLogger())
	b := NewPredictor(42, testLogger())
	if _, err := a.Fit(postings); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := b.Fit(postings); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	fa, _ := a.PredictTrends(a.LastObservedDay(), 5)
	fb, _ := b.PredictTrends(b.LastObservedDay(), 5)
	for i := range fa {
		if fa[i] != fb[i] {
			t.Fatalf("same seed produced different forecasts at %d: %+v vs %+v", i, fa[i], fb[i])
		}
	}
}

func TestAggregateDailySkipsUndated(t *testing.T) {
	postings := []models.JobPosting{
		{Company: "Acme", Description: "Undated."},
		{Company: "Acme", Description: "Dated.", ScrapedDate: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
	}
	rows := aggregateDaily(postings)
	if len(rows) != 1 {
		t.Fatalf("got %d daily rows, want 1 (undated postings skipped)", len(rows))
	}
	if rows[0].volume != 1 {
		t.Fatalf("volume = %v, want 1", rows[0].volume)
	}
}

func TestAnalyzeTrendPatterns(t *testing.T) {
	postings := trendCorpus(4, 3)
	trends := AnalyzeTrendPatterns(postings)

	if trends.TotalPostings != 12 {
		t.Fatalf("TotalPostings = %d, want 12", trends.TotalPostings)
	}
	if trends.ActiveCompanies != 3 {
		t.Fatalf("ActiveCompanies = %d, want 3", trends.ActiveCompanies)
	}
	if trends.AverageUrgency <= 0 || trends.AverageUrgency > 1 {
		t.Fatalf("AverageUrgency = %v, want in (0, 1]", trends.AverageUrgency)
	}
	if trends.TechnologyTrends["Python"] != 12 {
		t.Fatalf("TechnologyTrends[Python] = %d, want 12", trends.TechnologyTrends["Python"])
	}
	if len(trends.CompanyTrends) != 3 {
		t.Fatalf("got %d company trends, want 3", len(trends.CompanyTrends))
	}
	for _, ct := range trends.CompanyTrends {
		if ct.VolumeTrend != "increasing" && ct.VolumeTrend != "stable" {
			t.Fatalf("unexpected volume trend %q", ct.VolumeTrend)
		}
	}
}

func TestAnalyzeTrendPatternsEmpty(t *testing.T) {
	trends := AnalyzeTrendPatterns(nil)
	if trends.TotalPostings != 0 || trends.ActiveCompanies != 0 {
		t.Fatalf("empty input produced non-empty trends: %+v", trends)
	}
}

func TestCompanyTrendsSkipsSinglePosting(t *testing.T) {
	postings := []models.JobPosting{
		{Company: "Pair", Description: "a", ScrapedDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Company: "Pair", Description: "b", ScrapedDate: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
		{Company: "Solo", Description: "c", ScrapedDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	out := companyTrends(postings)
	if len(out) != 1 || out[0].Company != "Pair" {
		t.Fatalf("companyTrends = %+v, want only Pair", out)
	}
	// Two postings is below the slope threshold, so direction stays stable.
	if out[0].VolumeTrend != "stable" {
		t.Fatalf("VolumeTrend = %q, want stable", out[0].VolumeTrend)
	}
}
