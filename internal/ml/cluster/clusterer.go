// Package cluster groups companies by their aggregated hiring-pattern
// features: standardized company vectors are reduced with PCA and partitioned
// with seeded k-means, with silhouette-based quality reporting.
package cluster

import (
	"math/rand"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vsawhney27/job-intel/internal/ml/feature"
	"github.com/vsawhney27/job-intel/internal/models"
)

const companyFeatureCount = 10

// pcaVarianceTarget is the fraction of variance the reduced space must
// retain before clustering.
const pcaVarianceTarget = 0.95

// Clusterer assigns companies to hiring-pattern clusters.
type Clusterer struct {
	k    int
	seed int64
	log  zerolog.Logger
}

// NewClusterer builds a clusterer targeting k clusters.
func NewClusterer(k int, seed int64, log zerolog.Logger) *Clusterer {
	return &Clusterer{
		k:    k,
		seed: seed,
		log:  log.With().Str("component", "company_clusterer").Logger(),
	}
}

// companyFeatures builds the ten-feature vector for one company profile:
// volume, urgency ratio, tech diversity, tech mentions, department diversity,
// pain-point count, distinct pain points, salary coverage, equity coverage,
// mean description length.
func companyFeatures(p models.CompanyProfile) []float64 {
	uniquePain := make(map[string]struct{}, len(p.PainPoints))
	for _, pp := range p.PainPoints {
		uniquePain[pp] = struct{}{}
	}
	return []float64{
		float64(p.JobCount),
		p.UrgencyRatio,
		float64(p.TechDiversity()),
		float64(len(p.Technologies)),
		float64(len(p.Departments)),
		float64(len(p.PainPoints)),
		float64(len(uniquePain)),
		p.SalaryCoverage,
		p.EquityCoverage,
		p.MeanDescriptionLen,
	}
}

// FitPredict clusters the companies behind the postings and returns the full
// clustering result: assignments, per-cluster characteristics, and quality.
func (c *Clusterer) FitPredict(postings []models.JobPosting) models.ClusteringResult {
	profiles := models.BuildCompanyProfiles(postings)
	result := models.ClusteringResult{
		Assignments: make(map[string]int, len(profiles)),
		Companies:   len(profiles),
		Method:      models.MethodMLHybrid,
	}
	if len(profiles) == 0 {
		return result
	}
	if len(profiles) == 1 {
		// One company is one cluster; no geometry to measure.
		result.Assignments[profiles[0].Company] = 0
		result.K = 1
		result.Clusters = c.characteristics(profiles, []int{0}, 1)
		return result
	}

	x := mat.NewDense(len(profiles), companyFeatureCount, nil)
	for i, p := range profiles {
		x.SetRow(i, companyFeatures(p))
	}

	var scaler feature.StandardScaler
	scaled := scaler.FitTransform(x)
	reduced := reduceVariance(scaled)

	k := c.k
	if len(profiles) < k {
		k = len(profiles)
		if k < 2 {
			k = 2
		}
	}

	km := newKMeans(k)
	labels := km.fitPredict(reduced, rand.New(rand.NewSource(c.seed)))

	result.K = distinct(labels)
	result.Silhouette = silhouetteScore(reduced, labels)
	for i, p := range profiles {
		result.Assignments[p.Company] = labels[i]
	}
	result.Clusters = c.characteristics(profiles, labels, result.K)

	c.log.Info().
		Int("companies", len(profiles)).
		Int("clusters", result.K).
		Float64("silhouette", result.Silhouette).
		Msg("company clustering complete")
	return result
}

// reduceVariance projects standardized features onto the leading principal
// components that retain pcaVarianceTarget of total variance. Falls back to
// the input space when the decomposition is unavailable.
func reduceVariance(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return x
	}
	vars := pc.VarsTo(nil)
	var total float64
	for _, v := range vars {
		total += v
	}
	if total == 0 {
		return x
	}

	keep := 0
	var cum float64
	for _, v := range vars {
		cum += v
		keep++
		if cum/total >= pcaVarianceTarget {
			break
		}
	}
	if keep == 0 || keep >= cols {
		return x
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	projection := vecs.Slice(0, cols, 0, keep)

	out := mat.NewDense(rows, keep, nil)
	out.Mul(x, projection)
	return out
}

// characteristics computes the descriptive statistics and the deterministic
// label for each cluster.
func (c *Clusterer) characteristics(profiles []models.CompanyProfile, labels []int, k int) []models.ClusterInfo {
	infos := make([]models.ClusterInfo, k)
	for id := range infos {
		infos[id].ID = id
	}

	grouped := make(map[int][]models.CompanyProfile, k)
	for i, p := range profiles {
		grouped[labels[i]] = append(grouped[labels[i]], p)
	}

	for id := 0; id < k; id++ {
		members := grouped[id]
		info := &infos[id]
		if len(members) == 0 {
			info.Label = "Standard Hirers"
			continue
		}

		techCounts := make(map[string]int)
		painCounts := make(map[string]int)
		var jobs int
		var urgencySum, salarySum float64
		for _, p := range members {
			info.Companies = append(info.Companies, p.Company)
			jobs += p.JobCount
			urgencySum += p.UrgencyRatio
			salarySum += p.SalaryCoverage
			for _, t := range p.Technologies {
				techCounts[t]++
			}
			for _, pp := range p.PainPoints {
				painCounts[pp]++
			}
		}
		sort.Strings(info.Companies)

		n := float64(len(members))
		info.AvgHiringVolume = float64(jobs) / n
		info.AvgUrgencyRatio = urgencySum / n
		info.SalaryCoverage = salarySum / n
		info.TopTechnologies = topN(techCounts, 5)
		info.CommonPainPoints = topN(painCounts, 3)
		info.Label = clusterLabel(info.AvgUrgencyRatio, info.AvgHiringVolume, techCounts)
	}
	return infos
}

// clusterLabel applies the fixed, reproducible labeling heuristic: urgency
// over 0.5 wins, then volume over 3, then the dominant technology, then the
// generic label.
func clusterLabel(urgencyRatio, volume float64, techCounts map[string]int) string {
	if urgencyRatio > 0.5 {
		return "High-Urgency Hirers"
	}
	if volume > 3 {
		return "Volume Hirers"
	}
	if tech := dominantTech(techCounts); tech != "" {
		return tech + " Specialists"
	}
	return "Standard Hirers"
}

// dominantTech returns the most frequent technology, breaking ties
// alphabetically so the label never flips between runs.
func dominantTech(counts map[string]int) string {
	best, bestCount := "", 0
	for tech, count := range counts {
		if count > bestCount || (count == bestCount && (best == "" || tech < best)) {
			best, bestCount = tech, count
		}
	}
	return best
}

func topN(counts map[string]int, n int) map[string]int {
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
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		out[p.key] = p.count
	}
	return out
}

func distinct(labels []int) int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
