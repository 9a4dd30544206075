package pipeline

import (
	"math"
	"sort"

	"github.com/vsawhney27/job-intel/internal/models"
)

// ruleBasedScores is the deterministic scoring path used whenever the learned
// scorer is unavailable: a capped linear blend of volume, urgency, and
// technology mentions. Priority tiers use the same fixed thresholds as the ML
// path so tiers stay comparable across processing methods.
func ruleBasedScores(postings []models.JobPosting) []models.OpportunityScore {
	profiles := models.BuildCompanyProfiles(postings)
	out := make([]models.OpportunityScore, 0, len(profiles))
	for _, p := range profiles {
		score := math.Min(100, float64(p.JobCount*10)+float64(p.UrgentCount*20)+float64(len(p.Technologies)*2))
		opp := models.OpportunityScore{
			Company:  p.Company,
			Score:    score,
			Priority: models.PriorityForScore(score),
			JobCount: p.JobCount,
			FeatureScores: map[string]float64{
				"hiring_velocity": p.UrgencyRatio,
				"tech_adoption":   float64(len(p.Technologies)),
				"scaling_signals": float64(p.JobCount),
				"pain_points":     float64(len(p.PainPoints)),
			},
			Method: models.MethodRuleBased,
		}
		opp.RecommendedServices = recommendServices(opp)
		opp.ContactTiming = contactTiming(opp)
		out = append(out, opp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Company < out[j].Company
	})
	return out
}

// Rule-based cluster buckets, assigned in priority order. Ids are contiguous
// from 0 over the non-empty buckets.
func ruleBasedClusters(profiles []models.CompanyProfile) models.ClusteringResult {
	result := models.ClusteringResult{
		Assignments: make(map[string]int, len(profiles)),
		Companies:   len(profiles),
		Method:      models.MethodRuleBased,
	}

	buckets := []struct {
		label string
		match func(models.CompanyProfile) bool
	}{
		{"Volume Hirers", func(p models.CompanyProfile) bool { return p.JobCount >= 3 }},
		{"Urgent Hirers", func(p models.CompanyProfile) bool { return p.UrgentCount >= 2 }},
		{"Technology Specialists", func(p models.CompanyProfile) bool { return len(p.Technologies) >= 5 }},
		{"Standard Hirers", func(models.CompanyProfile) bool { return true }},
	}

	members := make([][]models.CompanyProfile, len(buckets))
	for _, p := range profiles {
		for b, bucket := range buckets {
			if bucket.match(p) {
				members[b] = append(members[b], p)
				break
			}
		}
	}

	id := 0
	for b, bucket := range buckets {
		if len(members[b]) == 0 {
			continue
		}
		info := models.ClusterInfo{ID: id, Label: bucket.label}
		var jobs int
		var urgencySum float64
		techCounts := make(map[string]int)
		for _, p := range members[b] {
			info.Companies = append(info.Companies, p.Company)
			result.Assignments[p.Company] = id
			jobs += p.JobCount
			urgencySum += p.UrgencyRatio
			for _, t := range p.Technologies {
				techCounts[t]++
			}
		}
		sort.Strings(info.Companies)
		n := float64(len(members[b]))
		info.AvgHiringVolume = float64(jobs) / n
		info.AvgUrgencyRatio = urgencySum / n
		info.TopTechnologies = topTechCounts(techCounts, 5)
		result.Clusters = append(result.Clusters, info)
		id++
	}
	result.K = id
	return result
}

func topTechCounts(counts map[string]int, n int) map[string]int {
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

// recommendServices maps feature scores to outreach service suggestions,
// capped at three.
func recommendServices(opp models.OpportunityScore) []string {
	var services []string
	fs := opp.FeatureScores
	if fs["tech_adoption"] > 0.7 {
		services = append(services, "Technical Consulting", "Architecture Review")
	}
	if fs["hiring_velocity"] > 0.8 {
		services = append(services, "Rapid Team Building", "Technical Recruiting")
	}
	if fs["pain_points"] > 0.5 {
		services = append(services, "Legacy System Modernization", "Technical Debt Reduction")
	}
	if fs["scaling_signals"] > 0.6 {
		services = append(services, "DevOps Consulting", "Infrastructure Scaling")
	}
	if len(services) == 0 {
		return []string{"General Technical Consulting"}
	}
	if len(services) > 3 {
		services = services[:3]
	}
	return services
}

// contactTiming derives the outreach window from priority and velocity.
func contactTiming(opp models.OpportunityScore) string {
	switch {
	case opp.Priority == models.PriorityHigh && opp.FeatureScores["hiring_velocity"] > 0.8:
		return "Immediately (within 24 hours)"
	case opp.Priority == models.PriorityHigh:
		return "Within 3 days"
	case opp.Priority == models.PriorityMedium:
		return "Within 1 week"
	default:
		return "Within 2 weeks"
	}
}
