// Package signals implements the deterministic keyword/regex extractor for
// job postings. It is both the fallback path when ML models are unavailable
// and the source of weak training labels for the classifiers.
package signals

import (
	"regexp"
	"sort"
	"strings"

	"github.com/vsawhney27/job-intel/internal/models"
)

// Extractor matches precompiled signal patterns against posting descriptions.
// It is stateless after construction and safe for concurrent use.
type Extractor struct {
	techPatterns   []techPattern
	urgent         []*regexp.Regexp
	painPoints     []*regexp.Regexp
	salary         []*regexp.Regexp
	hourly         []*regexp.Regexp
	equity         []*regexp.Regexp
	budgetPhrases  []*regexp.Regexp
}

type techPattern struct {
	canonical string
	re        *regexp.Regexp
}

// NewExtractor compiles all signal patterns once.
func NewExtractor() *Extractor {
	e := &Extractor{}
	for _, tech := range techKeywords {
		e.techPatterns = append(e.techPatterns, techPattern{
			canonical: tech,
			re:        regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(tech)) + `\b`),
		})
	}
	e.urgent = compileAll(urgentPatterns)
	e.painPoints = compileAll(painPointPatterns)
	e.salary = compileAll(salaryPatterns)
	e.hourly = compileAll(hourlyPatterns)
	e.equity = compileAll(equityPatterns)
	e.budgetPhrases = compileAll(budgetPhrasePatterns)
	return e
}

func compileAll(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

// Technologies returns the canonical technology names mentioned in the
// description, in vocabulary order.
func (e *Extractor) Technologies(description string) []string {
	if description == "" {
		return nil
	}
	lower := strings.ToLower(description)
	var found []string
	for _, tp := range e.techPatterns {
		if tp.re.MatchString(lower) {
			found = append(found, tp.canonical)
		}
	}
	return found
}

// UrgentLanguage returns the distinct urgent hiring phrases found in the
// description, sorted for reproducible output.
func (e *Extractor) UrgentLanguage(description string) []string {
	return matchDistinct(e.urgent, description)
}

// PainPoints returns the distinct modernization/legacy pain-point phrases
// found in the description.
func (e *Extractor) PainPoints(description string) []string {
	return matchDistinct(e.painPoints, description)
}

func matchDistinct(patterns []*regexp.Regexp, description string) []string {
	if description == "" {
		return nil
	}
	lower := strings.ToLower(description)
	seen := make(map[string]struct{})
	for _, re := range patterns {
		for _, m := range re.FindAllString(lower, -1) {
			seen[m] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// BudgetSignals extracts salary ranges, hourly rates, equity mentions and
// generic budget phrases from the description.
func (e *Extractor) BudgetSignals(description string) models.BudgetSignals {
	var b models.BudgetSignals
	if description == "" {
		return b
	}
	lower := strings.ToLower(description)

	for _, re := range e.salary {
		b.SalaryRanges = append(b.SalaryRanges, re.FindAllString(description, -1)...)
	}
	for _, re := range e.hourly {
		b.HourlyRates = append(b.HourlyRates, re.FindAllString(description, -1)...)
	}
	for _, re := range e.equity {
		if m := re.FindString(lower); m != "" {
			b.EquityMentions = append(b.EquityMentions, m)
		}
	}
	for _, re := range e.budgetPhrases {
		if m := re.FindString(lower); m != "" {
			b.BudgetPhrases = append(b.BudgetPhrases, m)
		}
	}
	return b
}

// Annotate fills the derived signal fields of a posting in place and tags it
// as rule-based output.
func (e *Extractor) Annotate(p *models.JobPosting) {
	p.Technologies = e.Technologies(p.Description)
	p.UrgentSignals = e.UrgentLanguage(p.Description)
	p.PainPoints = e.PainPoints(p.Description)
	p.Budget = e.BudgetSignals(p.Description)
	p.Method = models.MethodRuleBased
}

// AnnotateBatch runs Annotate over a slice of postings.
func (e *Extractor) AnnotateBatch(postings []models.JobPosting) []models.JobPosting {
	for i := range postings {
		e.Annotate(&postings[i])
	}
	return postings
}
