package models

import (
	"sort"
)

// BuildCompanyProfiles groups a batch of postings by company and computes the
// per-company aggregates every downstream model consumes. Companies without a
// name are dropped; the result is sorted by company name so downstream
// iteration order is stable regardless of input order.
func BuildCompanyProfiles(postings []JobPosting) []CompanyProfile {
	byCompany := make(map[string][]JobPosting)
	for _, p := range postings {
		if p.Company == "" || p.Company == "Unknown" {
			continue
		}
		byCompany[p.Company] = append(byCompany[p.Company], p)
	}

	names := make([]string, 0, len(byCompany))
	for name := range byCompany {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]CompanyProfile, 0, len(names))
	for _, name := range names {
		group := byCompany[name]
		profiles = append(profiles, buildProfile(name, group))
	}
	return profiles
}

func buildProfile(company string, postings []JobPosting) CompanyProfile {
	profile := CompanyProfile{
		Company:     company,
		JobCount:    len(postings),
		Departments: make(map[string]int),
	}

	var withSalary, withEquity int
	var descLenSum float64
	for _, p := range postings {
		if p.IsUrgent() {
			profile.UrgentCount++
		}
		profile.Technologies = append(profile.Technologies, p.Technologies...)
		profile.PainPoints = append(profile.PainPoints, p.PainPoints...)
		dept := p.Department
		if dept == "" {
			dept = "Unknown"
		}
		profile.Departments[dept]++
		if p.Budget.HasSalary() {
			withSalary++
		}
		if p.Budget.HasEquity() {
			withEquity++
		}
		descLenSum += float64(len(p.Description))
	}

	n := float64(len(postings))
	profile.UrgencyRatio = float64(profile.UrgentCount) / n
	profile.SalaryCoverage = float64(withSalary) / n
	profile.EquityCoverage = float64(withEquity) / n
	profile.MeanDescriptionLen = descLenSum / n
	return profile
}
