package model

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// KNNRegressor predicts the mean target of the K nearest training rows.
type KNNRegressor struct {
	K int
	X [][]float64
	y []float64
}

// NewKNNRegressor creates and returns a new KNN regressor.
func NewKNNRegressor(k int) *KNNRegressor {
	return &KNNRegressor{K: k}
}

// Fit stores the training data; the model is lazy.
func (m *KNNRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) != len(y) {
		return errors.New("knn: the number of feature vectors must match the number of targets")
	}
	if len(X) == 0 {
		return errors.New("knn: empty X")
	}
	if m.K <= 0 {
		return errors.New("knn: K must be positive")
	}
	m.X = X
	m.y = y
	return nil
}

// Predict returns one prediction per row of X.
func (m *KNNRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = m.predictSingle(row)
	}
	return out
}

type neighbor struct {
	d float64
	v float64
}

// predictSingle keeps a sorted slice of the K closest rows seen so far.
func (m *KNNRegressor) predictSingle(xi []float64) float64 {
	k := min(m.K, len(m.X))
	nbrs := make([]neighbor, 0, k)
	for j, xj := range m.X {
		d := floats.Distance(xi, xj, 2)
		if len(nbrs) < k {
			nbrs = append(nbrs, neighbor{d: d, v: m.y[j]})
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		} else if d < nbrs[k-1].d {
			nbrs[k-1] = neighbor{d: d, v: m.y[j]}
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		}
	}

	sum := 0.0
	for _, n := range nbrs {
		sum += n.v
	}
	return sum / float64(len(nbrs))
}
