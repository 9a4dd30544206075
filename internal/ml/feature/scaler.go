package feature

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes columns to zero mean and unit variance using
// statistics frozen at fit time.
type StandardScaler struct {
	mean   []float64
	std    []float64
	fitted bool
}

// Fitted reports whether statistics have been computed.
func (s *StandardScaler) Fitted() bool { return s.fitted }

// FitTransform computes column statistics from x and returns the
// standardized copy.
func (s *StandardScaler) FitTransform(x *mat.Dense) *mat.Dense {
	_, cols := x.Dims()
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, x)
		mean, std := stat.MeanStdDev(col, nil)
		if math.IsNaN(std) || std == 0 {
			// Constant column: center it and leave the spread alone.
			std = 1
		}
		s.mean[j] = mean
		s.std[j] = std
	}
	s.fitted = true
	return s.Transform(x)
}

// Transform standardizes x with the fitted statistics.
func (s *StandardScaler) Transform(x *mat.Dense) *mat.Dense {
	if x == nil {
		return nil
	}
	rows, cols := x.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, (x.At(i, j)-s.mean[j])/s.std[j])
		}
	}
	return out
}

// TransformRow standardizes a single feature vector in place.
func (s *StandardScaler) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j := range row {
		out[j] = (row[j] - s.mean[j]) / s.std[j]
	}
	return out
}
