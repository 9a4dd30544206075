// Package ingest loads and validates job postings at the boundary between
// the collection layer and the pipeline. The collector's output is untrusted:
// descriptions may carry scraped HTML, required fields may be missing, and
// dates arrive in mixed formats.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/vsawhney27/job-intel/internal/models"
)

// rawPosting mirrors the collector's JSON document shape before validation.
type rawPosting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Source      string `json:"source"`
	ScrapedDate string `json:"scraped_date"`
}

// LoadResult pairs the accepted postings with per-record rejections.
type LoadResult struct {
	Postings []models.JobPosting
	Rejected []Rejection
}

// Rejection records why one raw posting failed validation.
type Rejection struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Loader validates and normalizes raw postings.
type Loader struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	log       zerolog.Logger
}

// NewLoader builds a loader with a strict sanitization policy: descriptions
// are reduced to plain text.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		validate:  validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
		log:       log.With().Str("component", "ingest").Logger(),
	}
}

// LoadFile reads a JSON array of postings from a file.
func (l *Loader) LoadFile(path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("opening postings file: %w", err)
	}
	defer f.Close()
	return l.Load(f)
}

// Load reads a JSON array of postings from r, validating and normalizing
// each record. Invalid records are collected, not fatal.
func (l *Loader) Load(r io.Reader) (LoadResult, error) {
	var raw []rawPosting
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return LoadResult{}, fmt.Errorf("decoding postings JSON: %w", err)
	}

	var result LoadResult
	for i, rp := range raw {
		posting, err := l.normalize(rp)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{
				Index:  i,
				Title:  rp.Title,
				Reason: err.Error(),
			})
			continue
		}
		result.Postings = append(result.Postings, posting)
	}

	if len(result.Rejected) > 0 {
		l.log.Warn().
			Int("accepted", len(result.Postings)).
			Int("rejected", len(result.Rejected)).
			Msg("some postings failed validation")
	}
	return result, nil
}

// normalize converts one raw record into a canonical JobPosting.
func (l *Loader) normalize(rp rawPosting) (models.JobPosting, error) {
	posting := models.JobPosting{
		Title:       cleanText(rp.Title),
		Company:     cleanText(rp.Company),
		Location:    cleanText(rp.Location),
		Description: cleanText(l.sanitizer.Sanitize(rp.Description)),
		Department:  cleanText(rp.Department),
		Source:      cleanText(rp.Source),
	}

	if rp.ScrapedDate != "" {
		t, err := parseDate(rp.ScrapedDate)
		if err != nil {
			return posting, fmt.Errorf("invalid scraped_date %q: %w", rp.ScrapedDate, err)
		}
		posting.ScrapedDate = t
	}

	if err := l.validate.Struct(posting); err != nil {
		return posting, fmt.Errorf("validation: %w", err)
	}
	return posting, nil
}

// dateLayouts are the formats collectors are known to emit.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

// cleanText collapses runs of whitespace and trims the string.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
