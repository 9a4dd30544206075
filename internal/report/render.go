// Package report renders an insight report for terminal consumption.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vsawhney27/job-intel/internal/models"
)

// Render writes the full report to w: executive summary, opportunity
// rankings, cluster breakdown and the trend forecast.
func Render(w io.Writer, report *models.InsightReport) {
	renderSummary(w, report)
	renderRankings(w, report.OpportunityRankings)
	renderClusters(w, report.CompanyClustering)
	renderTrends(w, report.MarketTrends)
}

func renderSummary(w io.Writer, report *models.InsightReport) {
	s := report.ExecutiveSummary
	fmt.Fprintf(w, "\nJob Market Intelligence Report\n")
	fmt.Fprintf(w, "Run %s, generated %s\n\n", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Analyzed %d postings across %d companies.\n", s.TotalPostings, s.TotalCompanies)
	fmt.Fprintf(w, "%d high-priority opportunities, average score %.1f (confidence: %s).\n",
		s.HighPriorityCount, s.AverageScore, s.Confidence)
}

func renderRankings(w io.Writer, rankings []models.OpportunityScore) {
	if len(rankings) == 0 {
		return
	}

	fmt.Fprintf(w, "\nOpportunity Rankings (%s)\n", rankings[0].Method)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Company", "Score", "Priority", "Jobs", "Recommended Services", "Contact Timing"})
	for i, r := range rankings {
		t.AppendRow(table.Row{
			i + 1, r.Company, fmt.Sprintf("%.2f", r.Score), r.Priority, r.JobCount,
			strings.Join(r.RecommendedServices, ", "), r.ContactTiming,
		})
	}
	t.Render()
}

func renderClusters(w io.Writer, clustering models.ClusteringResult) {
	if len(clustering.Clusters) == 0 {
		return
	}

	fmt.Fprintf(w, "\nCompany Segments (%s, %d clusters, silhouette %.3f)\n",
		clustering.Method, clustering.K, clustering.Silhouette)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Cluster", "Label", "Companies", "Avg Volume", "Avg Urgency", "Top Technologies"})
	for _, c := range clustering.Clusters {
		t.AppendRow(table.Row{
			c.ID, c.Label, len(c.Companies),
			fmt.Sprintf("%.1f", c.AvgHiringVolume),
			fmt.Sprintf("%.2f", c.AvgUrgencyRatio),
			topKeys(c.TopTechnologies, 3),
		})
	}
	t.Render()
}

func renderTrends(w io.Writer, trends models.MarketTrends) {
	fmt.Fprintf(w, "\nMarket Trends (%s)\n", trends.Method)
	fmt.Fprintf(w, "Average urgency %.2f across %d active companies.\n",
		trends.AverageUrgency, trends.ActiveCompanies)

	if len(trends.CompanyTrends) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Company", "Jobs", "Avg Urgency", "Volume Trend", "Urgency Trend"})
		for _, ct := range trends.CompanyTrends {
			t.AppendRow(table.Row{
				ct.Company, ct.JobCount, fmt.Sprintf("%.2f", ct.AvgUrgency),
				ct.VolumeTrend, ct.UrgencyTrend,
			})
		}
		t.Render()
	}

	if len(trends.Forecast) > 0 {
		fmt.Fprintf(w, "\n%d-Day Forecast\n", len(trends.Forecast))
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Date", "Volume", "Urgency", "Tech Adoption"})
		for _, f := range trends.Forecast {
			t.AppendRow(table.Row{
				f.Date.Format("2006-01-02"),
				fmt.Sprintf("%.1f", f.Volume),
				fmt.Sprintf("%.2f", f.Urgency),
				fmt.Sprintf("%.1f", f.TechAdoption),
			})
		}
		t.Render()
	}
}

// topKeys returns the n highest-count keys joined for display.
func topKeys(counts map[string]int, n int) string {
	type kv struct {
		key   string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for k, v := range counts {
		pairs = append(pairs, kv{k, v})
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
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.key
	}
	return strings.Join(keys, ", ")
}
