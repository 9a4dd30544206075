// Package trend builds a daily time series from job postings and produces
// short-horizon forecasts of hiring volume, urgency, and technology adoption.
package trend

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vsawhney27/job-intel/internal/ml/feature"
	"github.com/vsawhney27/job-intel/internal/models"
)

// ErrInsufficientData marks a training set too small to forecast from. The
// pipeline treats it as a status, not a failure: the run continues on the
// rule-based path.
var ErrInsufficientData = errors.New("trend: insufficient data for training")

const (
	minPostings = 10
	minDays     = 3
)

// Baseline values substituted for features that cannot be derived from a
// future calendar date alone. These are deliberate population-level
// placeholders, a documented approximation of the short-data-history setting.
const (
	baselineTechAdoption = 5.0
	baselinePainPoints   = 1.5
	baselineSalaryShare  = 0.3
	baselineDescLength   = 2000.0
)

// dailyRow is one calendar day of aggregated hiring activity.
type dailyRow struct {
	date         time.Time
	volume       float64
	avgUrgency   float64
	avgTech      float64
	avgPain      float64
	salaryShare  float64
	avgDescLen   float64
	rollVolume   float64 // trailing 7-day mean volume
	rollUrgency  float64
	lagVolume    float64 // previous day's volume
	lagUrgency   float64
}

// FitMetrics reports per-target training diagnostics plus the data window.
type FitMetrics struct {
	Fitted    bool                     `json:"fitted"`
	Days      int                      `json:"days"`
	Postings  int                      `json:"postings"`
	PerTarget map[string]TargetMetrics `json:"per_target,omitempty"`
}

// TargetMetrics are training-set regression diagnostics for one target.
type TargetMetrics struct {
	MAE float64 `json:"mae"`
	MSE float64 `json:"mse"`
	R2  float64 `json:"r2"`
}

// Predictor owns the three per-target regressors and their shared feature
// scaling.
type Predictor struct {
	volume  regressor
	urgency regressor
	tech    regressor
	scaler  feature.StandardScaler
	fitted  bool
	lastDay time.Time
	log     zerolog.Logger
}

// NewPredictor builds an unfitted predictor. The model family per target is
// fixed: boosted trees for volume, a random forest for urgency, and a linear
// model for adoption rate.
func NewPredictor(seed int64, log zerolog.Logger) *Predictor {
	return &Predictor{
		volume:  newGradientBoost(),
		urgency: newRandomForest(seed),
		tech:    &linearRegressor{},
		log:     log.With().Str("component", "trend_predictor").Logger(),
	}
}

// Fitted reports whether the regressors are trained.
func (p *Predictor) Fitted() bool { return p.fitted }

// LastObservedDay is the most recent calendar day seen during Fit. Forecasts
// anchored here are reproducible regardless of wall-clock time.
func (p *Predictor) LastObservedDay() time.Time { return p.lastDay }

// Fit aggregates the postings by calendar day and trains the three
// regressors. Returns ErrInsufficientData below the minimum posting or
// distinct-day counts.
func (p *Predictor) Fit(postings []models.JobPosting) (FitMetrics, error) {
	metrics := FitMetrics{Postings: len(postings)}
	if len(postings) < minPostings {
		return metrics, ErrInsufficientData
	}
	daily := aggregateDaily(postings)
	metrics.Days = len(daily)
	if len(daily) < minDays {
		return metrics, ErrInsufficientData
	}

	x := make([][]float64, len(daily))
	for i, row := range daily {
		x[i] = calendarFeatures(row.date, row.avgTech, row.avgPain, row.salaryShare, row.avgDescLen)
	}
	scaled := p.scaleFit(x)

	targets := map[string]struct {
		model regressor
		y     []float64
	}{
		"volume":        {p.volume, column(daily, func(r dailyRow) float64 { return r.volume })},
		"urgency":       {p.urgency, column(daily, func(r dailyRow) float64 { return r.avgUrgency })},
		"tech_adoption": {p.tech, column(daily, func(r dailyRow) float64 { return r.avgTech })},
	}

	metrics.PerTarget = make(map[string]TargetMetrics, len(targets))
	for name, t := range targets {
		t.model.fit(scaled, t.y)
		metrics.PerTarget[name] = evaluate(t.model, scaled, t.y)
	}

	p.fitted = true
	p.lastDay = daily[len(daily)-1].date
	metrics.Fitted = true
	p.log.Info().
		Int("days", len(daily)).
		Int("postings", len(postings)).
		Msg("trend predictor trained")
	return metrics, nil
}

// PredictTrends forecasts the daysAhead days after `from`. Non-calendar
// features use the documented baselines; every prediction is clamped to be
// non-negative.
func (p *Predictor) PredictTrends(from time.Time, daysAhead int) ([]models.TrendForecast, error) {
	if !p.fitted {
		return nil, errors.New("trend: predictor not fitted")
	}
	out := make([]models.TrendForecast, 0, daysAhead)
	for d := 1; d <= daysAhead; d++ {
		date := from.AddDate(0, 0, d)
		row := p.scaler.TransformRow(calendarFeatures(
			date, baselineTechAdoption, baselinePainPoints, baselineSalaryShare, baselineDescLength))
		out = append(out, models.TrendForecast{
			Date:         date,
			Volume:       math.Max(0, p.volume.predict(row)),
			Urgency:      math.Max(0, p.urgency.predict(row)),
			TechAdoption: math.Max(0, p.tech.predict(row)),
		})
	}
	return out, nil
}

// AnalyzeTrendPatterns summarizes current hiring patterns without touching
// the regressors, so it works before Fit too.
func AnalyzeTrendPatterns(postings []models.JobPosting) models.MarketTrends {
	trends := models.MarketTrends{
		TotalPostings: len(postings),
		TopCompanies:  make(map[string]int),
	}
	if len(postings) == 0 {
		return trends
	}

	techCounts := make(map[string]int)
	companyCounts := make(map[string]int)
	var urgentSum float64
	for _, p := range postings {
		if p.IsUrgent() {
			urgentSum++
		}
		for _, t := range p.Technologies {
			techCounts[t]++
		}
		if p.Company != "" && p.Company != "Unknown" {
			companyCounts[p.Company]++
		}
	}
	trends.AverageUrgency = urgentSum / float64(len(postings))
	trends.ActiveCompanies = len(companyCounts)
	trends.TechnologyTrends = topCounts(techCounts, 10)
	trends.TopCompanies = topCounts(companyCounts, 5)
	trends.CompanyTrends = companyTrends(postings)
	return trends
}

// companyTrends computes per-company direction summaries. Trend direction
// uses the slope of a least-squares fit over posting days; companies with
// fewer than two postings are skipped.
func companyTrends(postings []models.JobPosting) []models.CompanyTrend {
	byCompany := make(map[string][]models.JobPosting)
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

	var out []models.CompanyTrend
	for _, name := range names {
		group := byCompany[name]
		if len(group) < 2 {
			continue
		}
		var urgencySum, techSum float64
		days := make([]float64, len(group))
		urgency := make([]float64, len(group))
		volume := make([]float64, len(group))
		for i, p := range group {
			if p.IsUrgent() {
				urgencySum++
				urgency[i] = 1
			}
			techSum += float64(len(p.Technologies))
			days[i] = float64(p.ScrapedDate.Unix())
			volume[i] = 1
		}

		volumeTrend, urgencyTrend := "stable", "stable"
		if len(group) >= 3 {
			if _, beta := stat.LinearRegression(days, cumulative(volume), nil, false); beta > 0 {
				volumeTrend = "increasing"
			}
			if _, beta := stat.LinearRegression(days, urgency, nil, false); beta > 0 {
				urgencyTrend = "increasing"
			}
		}

		out = append(out, models.CompanyTrend{
			Company:         name,
			JobCount:        len(group),
			AvgUrgency:      urgencySum / float64(len(group)),
			AvgTechAdoption: techSum / float64(len(group)),
			VolumeTrend:     volumeTrend,
			UrgencyTrend:    urgencyTrend,
		})
	}
	return out
}

func cumulative(values []float64) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}

// aggregateDaily groups postings into one row per calendar day (UTC), sorted
// ascending, and fills the trailing rolling and lag aggregates.
func aggregateDaily(postings []models.JobPosting) []dailyRow {
	type acc struct {
		count      int
		urgent     int
		tech       int
		pain       int
		withSalary int
		descLen    int
	}
	byDay := make(map[time.Time]*acc)
	for _, p := range postings {
		if p.ScrapedDate.IsZero() {
			continue
		}
		day := p.ScrapedDate.UTC().Truncate(24 * time.Hour)
		a := byDay[day]
		if a == nil {
			a = &acc{}
			byDay[day] = a
		}
		a.count++
		if p.IsUrgent() {
			a.urgent++
		}
		a.tech += len(p.Technologies)
		a.pain += len(p.PainPoints)
		if p.Budget.HasSalary() {
			a.withSalary++
		}
		a.descLen += len(p.Description)
	}

	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	rows := make([]dailyRow, 0, len(days))
	for _, d := range days {
		a := byDay[d]
		n := float64(a.count)
		rows = append(rows, dailyRow{
			date:        d,
			volume:      n,
			avgUrgency:  float64(a.urgent) / n,
			avgTech:     float64(a.tech) / n,
			avgPain:     float64(a.pain) / n,
			salaryShare: float64(a.withSalary) / n,
			avgDescLen:  float64(a.descLen) / n,
		})
	}

	for i := range rows {
		start := i - 6
		if start < 0 {
			start = 0
		}
		var vol, urg float64
		for _, r := range rows[start : i+1] {
			vol += r.volume
			urg += r.avgUrgency
		}
		window := float64(i + 1 - start)
		rows[i].rollVolume = vol / window
		rows[i].rollUrgency = urg / window
		if i > 0 {
			rows[i].lagVolume = rows[i-1].volume
			rows[i].lagUrgency = rows[i-1].avgUrgency
		}
	}
	return rows
}

// calendarFeatures is the shared eight-feature regression input: four
// calendar-derived values and four daily aggregates.
func calendarFeatures(date time.Time, avgTech, avgPain, salaryShare, avgDescLen float64) []float64 {
	_, week := date.ISOWeek()
	return []float64{
		float64(date.Year()),
		float64(date.Month()),
		float64(date.YearDay()),
		float64(week),
		avgTech,
		avgPain,
		salaryShare,
		avgDescLen,
	}
}

func (p *Predictor) scaleFit(x [][]float64) [][]float64 {
	m := mat.NewDense(len(x), len(x[0]), nil)
	for i, row := range x {
		m.SetRow(i, row)
	}
	scaled := p.scaler.FitTransform(m)
	out := make([][]float64, len(x))
	for i := range out {
		out[i] = scaled.RawRowView(i)
	}
	return out
}

func column(rows []dailyRow, get func(dailyRow) float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = get(r)
	}
	return out
}

func evaluate(m regressor, x [][]float64, y []float64) TargetMetrics {
	n := float64(len(y))
	var mae, mse, yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= n

	var ssRes, ssTot float64
	for i, row := range x {
		pred := m.predict(row)
		d := y[i] - pred
		mae += math.Abs(d)
		mse += d * d
		ssRes += d * d
		ssTot += (y[i] - yMean) * (y[i] - yMean)
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return TargetMetrics{MAE: mae / n, MSE: mse / n, R2: r2}
}

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
