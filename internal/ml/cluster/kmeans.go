package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// kMeans partitions rows of a matrix into k clusters with k-means++ seeding
// and Lloyd iterations. Deterministic for a fixed rng.
type kMeans struct {
	k         int
	maxIter   int
	centroids [][]float64
}

func newKMeans(k int) *kMeans {
	return &kMeans{k: k, maxIter: 100}
}

// fitPredict clusters the rows of x and returns one label per row. Labels are
// remapped so cluster ids are contiguous from 0 in first-appearance order,
// which keeps assignments stable for identical input.
func (km *kMeans) fitPredict(x *mat.Dense, rng *rand.Rand) []int {
	rows, cols := x.Dims()
	if km.k > rows {
		km.k = rows
	}

	km.centroids = km.seedCentroids(x, rng)
	labels := make([]int, rows)

	for iter := 0; iter < km.maxIter; iter++ {
		changed := false
		for i := 0; i < rows; i++ {
			best := km.nearest(x.RawRowView(i))
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}

		// Recompute centroids; empty clusters keep their previous position.
		sums := make([][]float64, km.k)
		counts := make([]int, km.k)
		for c := range sums {
			sums[c] = make([]float64, cols)
		}
		for i := 0; i < rows; i++ {
			c := labels[i]
			counts[c]++
			row := x.RawRowView(i)
			for j, v := range row {
				sums[c][j] += v
			}
		}
		for c := 0; c < km.k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := range sums[c] {
				km.centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	return relabel(labels)
}

// seedCentroids implements k-means++ initialization.
func (km *kMeans) seedCentroids(x *mat.Dense, rng *rand.Rand) [][]float64 {
	rows, _ := x.Dims()
	centroids := make([][]float64, 0, km.k)
	first := rng.Intn(rows)
	centroids = append(centroids, copyRow(x.RawRowView(first)))

	dists := make([]float64, rows)
	for len(centroids) < km.k {
		var total float64
		for i := 0; i < rows; i++ {
			d := math.Inf(1)
			for _, c := range centroids {
				if dd := sqDist(x.RawRowView(i), c); dd < d {
					d = dd
				}
			}
			dists[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a centroid; duplicate one.
			centroids = append(centroids, copyRow(x.RawRowView(rng.Intn(rows))))
			continue
		}
		target := rng.Float64() * total
		var cum float64
		pick := rows - 1
		for i, d := range dists {
			cum += d
			if cum >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, copyRow(x.RawRowView(pick)))
	}
	return centroids
}

func (km *kMeans) nearest(row []float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range km.centroids {
		if d := sqDist(row, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func copyRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}

// relabel maps cluster ids to contiguous integers starting at 0 in order of
// first appearance.
func relabel(labels []int) []int {
	remap := make(map[int]int)
	next := 0
	out := make([]int, len(labels))
	for i, l := range labels {
		if _, ok := remap[l]; !ok {
			remap[l] = next
			next++
		}
		out[i] = remap[l]
	}
	return out
}

// silhouetteScore computes the mean silhouette coefficient over all rows,
// in [-1, 1]. Returns 0 when fewer than two distinct clusters exist.
func silhouetteScore(x *mat.Dense, labels []int) float64 {
	rows, _ := x.Dims()
	clusters := make(map[int][]int)
	for i, l := range labels {
		clusters[l] = append(clusters[l], i)
	}
	if len(clusters) < 2 {
		return 0
	}

	var total float64
	var counted int
	for i := 0; i < rows; i++ {
		own := clusters[labels[i]]
		if len(own) <= 1 {
			// Silhouette is defined as 0 for singleton clusters.
			counted++
			continue
		}

		var a float64
		for _, j := range own {
			if j != i {
				a += math.Sqrt(sqDist(x.RawRowView(i), x.RawRowView(j)))
			}
		}
		a /= float64(len(own) - 1)

		b := math.Inf(1)
		for l, members := range clusters {
			if l == labels[i] {
				continue
			}
			var d float64
			for _, j := range members {
				d += math.Sqrt(sqDist(x.RawRowView(i), x.RawRowView(j)))
			}
			d /= float64(len(members))
			if d < b {
				b = d
			}
		}

		denom := math.Max(a, b)
		if denom > 0 {
			total += (b - a) / denom
		}
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}
