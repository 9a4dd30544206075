package trend

import (
	"math"
	"math/rand"
	"sort"
)

// regressor is the shared contract of the per-target forecasting models.
type regressor interface {
	fit(x [][]float64, y []float64)
	predict(row []float64) float64
}

// treeNode is one node of a regression tree. Leaves carry the mean target of
// the rows routed to them.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

func (n *treeNode) predict(row []float64) float64 {
	if n.leaf {
		return n.value
	}
	if row[n.feature] <= n.threshold {
		return n.left.predict(row)
	}
	return n.right.predict(row)
}

// buildTree grows a binary regression tree greedily, splitting on the
// (feature, threshold) pair that minimizes the summed squared error.
func buildTree(x [][]float64, y []float64, idx []int, depth, maxDepth, minLeaf int) *treeNode {
	node := &treeNode{value: meanAt(y, idx), leaf: true}
	if depth >= maxDepth || len(idx) < 2*minLeaf {
		return node
	}

	bestSSE := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0
	cols := len(x[idx[0]])
	for j := 0; j < cols; j++ {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, x[i][j])
		}
		sort.Float64s(values)
		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2
			sse, ok := splitSSE(x, y, idx, j, threshold, minLeaf)
			if ok && sse < bestSSE {
				bestSSE = sse
				bestFeature, bestThreshold = j, threshold
			}
		}
	}
	if bestFeature < 0 {
		return node
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if x[i][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	node.leaf = false
	node.feature = bestFeature
	node.threshold = bestThreshold
	node.left = buildTree(x, y, leftIdx, depth+1, maxDepth, minLeaf)
	node.right = buildTree(x, y, rightIdx, depth+1, maxDepth, minLeaf)
	return node
}

func splitSSE(x [][]float64, y []float64, idx []int, feature int, threshold float64, minLeaf int) (float64, bool) {
	var leftSum, rightSum float64
	var leftN, rightN int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			leftSum += y[i]
			leftN++
		} else {
			rightSum += y[i]
			rightN++
		}
	}
	if leftN < minLeaf || rightN < minLeaf {
		return 0, false
	}
	leftMean := leftSum / float64(leftN)
	rightMean := rightSum / float64(rightN)

	var sse float64
	for _, i := range idx {
		var d float64
		if x[i][feature] <= threshold {
			d = y[i] - leftMean
		} else {
			d = y[i] - rightMean
		}
		sse += d * d
	}
	return sse, true
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

// gradientBoost is an ensemble of shallow regression trees fit on residuals.
// Captures the nonlinear seasonal structure of volume-style targets.
type gradientBoost struct {
	estimators   int
	depth        int
	learningRate float64
	base         float64
	trees        []*treeNode
}

func newGradientBoost() *gradientBoost {
	return &gradientBoost{estimators: 100, depth: 2, learningRate: 0.1}
}

func (g *gradientBoost) fit(x [][]float64, y []float64) {
	n := len(y)
	var sum float64
	for _, v := range y {
		sum += v
	}
	g.base = sum / float64(n)

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	residuals := make([]float64, n)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.base
	}

	g.trees = g.trees[:0]
	for t := 0; t < g.estimators; t++ {
		for i := range residuals {
			residuals[i] = y[i] - pred[i]
		}
		tree := buildTree(x, residuals, idx, 0, g.depth, 1)
		g.trees = append(g.trees, tree)
		for i := range pred {
			pred[i] += g.learningRate * tree.predict(x[i])
		}
	}
}

func (g *gradientBoost) predict(row []float64) float64 {
	out := g.base
	for _, tree := range g.trees {
		out += g.learningRate * tree.predict(row)
	}
	return out
}

// randomForest averages bootstrap-sampled regression trees. Deterministic for
// a fixed seed.
type randomForest struct {
	estimators int
	depth      int
	seed       int64
	trees      []*treeNode
}

func newRandomForest(seed int64) *randomForest {
	return &randomForest{estimators: 100, depth: 4, seed: seed}
}

func (f *randomForest) fit(x [][]float64, y []float64) {
	rng := rand.New(rand.NewSource(f.seed))
	n := len(y)
	f.trees = f.trees[:0]
	for t := 0; t < f.estimators; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, buildTree(x, y, idx, 0, f.depth, 1))
	}
}

func (f *randomForest) predict(row []float64) float64 {
	var sum float64
	for _, tree := range f.trees {
		sum += tree.predict(row)
	}
	return sum / float64(len(f.trees))
}

// linearRegressor is ordinary least squares solved through ridge-stabilized
// normal equations, suitable for targets treated as approximately linear
// over short horizons.
type linearRegressor struct {
	weights []float64
	bias    float64
}

const ridgeLambda = 1e-6

func (l *linearRegressor) fit(x [][]float64, y []float64) {
	n := len(y)
	cols := len(x[0])

	// Normal equations on centered data with a small ridge term to survive
	// collinear calendar features.
	xMean := make([]float64, cols)
	var yMean float64
	for i := 0; i < n; i++ {
		for j := 0; j < cols; j++ {
			xMean[j] += x[i][j]
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(n)
	}
	yMean /= float64(n)

	xtx := make([][]float64, cols)
	xty := make([]float64, cols)
	for j := range xtx {
		xtx[j] = make([]float64, cols)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < cols; j++ {
			xj := x[i][j] - xMean[j]
			xty[j] += xj * (y[i] - yMean)
			for k := j; k < cols; k++ {
				xtx[j][k] += xj * (x[i][k] - xMean[k])
			}
		}
	}
	for j := 0; j < cols; j++ {
		xtx[j][j] += ridgeLambda
		for k := 0; k < j; k++ {
			xtx[j][k] = xtx[k][j]
		}
	}

	l.weights = solveGaussian(xtx, xty)
	l.bias = yMean
	for j := range l.weights {
		l.bias -= l.weights[j] * xMean[j]
	}
}

func (l *linearRegressor) predict(row []float64) float64 {
	out := l.bias
	for j, w := range l.weights {
		out += w * row[j]
	}
	return out
}

// solveGaussian solves a small symmetric positive-definite system with
// partial-pivot Gaussian elimination.
func solveGaussian(a [][]float64, b []float64) []float64 {
	n := len(b)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n+1)
		copy(m[i], a[i])
		m[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		m[col], m[pivot] = m[pivot], m[col]
		if math.Abs(m[col][col]) < 1e-12 {
			continue
		}
		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	out := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		if math.Abs(m[r][r]) < 1e-12 {
			out[r] = 0
			continue
		}
		sum := m[r][n]
		for c := r + 1; c < n; c++ {
			sum -= m[r][c] * out[c]
		}
		out[r] = sum / m[r][r]
	}
	return out
}
