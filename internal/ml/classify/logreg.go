package classify

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// logisticRegression is a binary classifier trained with full-batch gradient
// descent and light L2 regularization. Deterministic: weights start at zero
// and the update schedule is fixed.
type logisticRegression struct {
	weights []float64
	bias    float64
}

const (
	lrLearningRate = 0.5
	lrEpochs       = 300
	lrL2           = 1e-3
)

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// fit trains on rows of x with binary labels y.
func (m *logisticRegression) fit(x *mat.Dense, y []int) {
	rows, cols := x.Dims()
	m.weights = make([]float64, cols)
	m.bias = 0

	grad := make([]float64, cols)
	for epoch := 0; epoch < lrEpochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var gradBias float64
		for i := 0; i < rows; i++ {
			row := x.RawRowView(i)
			err := sigmoid(m.decision(row)) - float64(y[i])
			for j, v := range row {
				grad[j] += err * v
			}
			gradBias += err
		}
		scale := lrLearningRate / float64(rows)
		for j := range m.weights {
			m.weights[j] -= scale * (grad[j] + lrL2*m.weights[j])
		}
		m.bias -= scale * gradBias
	}
}

func (m *logisticRegression) decision(row []float64) float64 {
	z := m.bias
	for j, w := range m.weights {
		z += w * row[j]
	}
	return z
}

// proba returns P(y=1) for each row of x.
func (m *logisticRegression) proba(x *mat.Dense) []float64 {
	rows, _ := x.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = sigmoid(m.decision(x.RawRowView(i)))
	}
	return out
}

// predict thresholds proba at 0.5.
func (m *logisticRegression) predict(x *mat.Dense) []int {
	probs := m.proba(x)
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

func (m *logisticRegression) accuracy(x *mat.Dense, y []int) float64 {
	if len(y) == 0 {
		return 0
	}
	pred := m.predict(x)
	var correct int
	for i, p := range pred {
		if p == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}

// trainTestSplit shuffles row indices with the given rng and splits them
// 80/20.
func trainTestSplit(n int, rng *rand.Rand) (train, test []int) {
	idx := rng.Perm(n)
	cut := n - n/5
	if cut == n && n > 1 {
		cut = n - 1
	}
	return idx[:cut], idx[cut:]
}

// crossValidAccuracy runs k-fold cross validation, training a fresh model per
// fold, and returns the mean and standard deviation of the fold accuracies.
// Folds with single-class training labels are scored against the majority
// label.
func crossValidAccuracy(x *mat.Dense, y []int, k int, rng *rand.Rand) (mean, std float64) {
	n := len(y)
	if k > n {
		k = n
	}
	if k < 2 {
		return 0, 0
	}
	idx := rng.Perm(n)
	accs := make([]float64, 0, k)
	for fold := 0; fold < k; fold++ {
		var trainIdx, testIdx []int
		for i, id := range idx {
			if i%k == fold {
				testIdx = append(testIdx, id)
			} else {
				trainIdx = append(trainIdx, id)
			}
		}
		if len(testIdx) == 0 || len(trainIdx) == 0 {
			continue
		}
		trainX, trainY := subset(x, y, trainIdx)
		testX, testY := subset(x, y, testIdx)

		if uniqueLabels(trainY) < 2 {
			accs = append(accs, majorityAccuracy(trainY, testY))
			continue
		}
		var m logisticRegression
		m.fit(trainX, trainY)
		accs = append(accs, m.accuracy(testX, testY))
	}

	if len(accs) == 0 {
		return 0, 0
	}
	for _, a := range accs {
		mean += a
	}
	mean /= float64(len(accs))
	for _, a := range accs {
		std += (a - mean) * (a - mean)
	}
	std = math.Sqrt(std / float64(len(accs)))
	return mean, std
}

func subset(x *mat.Dense, y []int, idx []int) (*mat.Dense, []int) {
	_, cols := x.Dims()
	sub := mat.NewDense(len(idx), cols, nil)
	labels := make([]int, len(idx))
	for i, id := range idx {
		sub.SetRow(i, x.RawRowView(id))
		labels[i] = y[id]
	}
	return sub, labels
}

func uniqueLabels(y []int) int {
	seen := make(map[int]struct{}, 2)
	for _, v := range y {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func majorityAccuracy(trainY, testY []int) float64 {
	var ones int
	for _, v := range trainY {
		ones += v
	}
	majority := 0
	if ones*2 >= len(trainY) {
		majority = 1
	}
	var correct int
	for _, v := range testY {
		if v == majority {
			correct++
		}
	}
	return float64(correct) / float64(len(testY))
}
