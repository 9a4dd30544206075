package signals

import (
	"sort"

	"github.com/vsawhney27/job-intel/internal/models"
)

// BatchStats summarizes the signals found across one processed batch.
type BatchStats struct {
	TotalPostings      int            `json:"total_postings"`
	UrgentPostings     int            `json:"urgent_postings"`
	UrgencyRate        float64        `json:"urgency_rate"`
	TopTechnologies    map[string]int `json:"top_technologies"`
	PostingsWithPain   int            `json:"postings_with_pain_points"`
	TopPainPoints      map[string]int `json:"top_pain_points"`
	SalaryTransparency float64        `json:"salary_transparency"`
	HiringVolume       map[string]int `json:"hiring_volume_by_company"`
}

// Summarize computes batch-level signal statistics over annotated postings.
func Summarize(postings []models.JobPosting) BatchStats {
	stats := BatchStats{
		TotalPostings: len(postings),
		HiringVolume:  make(map[string]int),
	}
	if len(postings) == 0 {
		return stats
	}

	techCounts := make(map[string]int)
	painCounts := make(map[string]int)
	var withSalary int
	for _, p := range postings {
		if p.IsUrgent() {
			stats.UrgentPostings++
		}
		for _, t := range p.Technologies {
			techCounts[t]++
		}
		if len(p.PainPoints) > 0 {
			stats.PostingsWithPain++
		}
		for _, pp := range p.PainPoints {
			painCounts[pp]++
		}
		if p.Budget.HasSalary() {
			withSalary++
		}
		if p.Company != "" && p.Company != "Unknown" {
			stats.HiringVolume[p.Company]++
		}
	}

	n := float64(len(postings))
	stats.UrgencyRate = float64(stats.UrgentPostings) / n
	stats.SalaryTransparency = float64(withSalary) / n
	stats.TopTechnologies = topCounts(techCounts, 10)
	stats.TopPainPoints = topCounts(painCounts, 5)
	return stats
}

// topCounts keeps the n highest counts. Ties break alphabetically so output
// is stable.
func topCounts(counts map[string]int, n int) map[string]int {
	type kv struct {
		key   string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for k, c := range counts {
		pairs = append(pairs, kv{k, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		out[p.key] = p.count
	}
	return out
}
