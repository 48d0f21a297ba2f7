package lime

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kuzeydev/contextual-ai/pkg/dataprep"
	"github.com/kuzeydev/contextual-ai/pkg/model"
	"github.com/kuzeydev/contextual-ai/pkg/stats"
)

const (
	lassoAlphas = 100
	// forward selection refits an almost unpenalised model; a tiny alpha
	// keeps the normal equations positive definite when indicator columns repeat.
	forwardAlpha = 1e-8
)

// selectFeatures returns the indices of the columns the surrogate is fit on.
func selectFeatures(data [][]float64, labels, weights []float64, k int, method string) ([]int, error) {
	p := len(data[0])
	switch method {
	case "none":
		return seq(p), nil
	case "forward_selection":
		return forwardSelection(data, labels, weights, k)
	case "highest_weights":
		return highestWeights(data, labels, weights, k)
	case "lasso_path":
		return lassoPath(data, labels, weights, k)
	}
	if k <= 6 {
		return forwardSelection(data, labels, weights, k)
	}
	return highestWeights(data, labels, weights, k)
}

// forwardSelection greedily adds the column that most improves the weighted R^2.
func forwardSelection(data [][]float64, labels, weights []float64, k int) ([]int, error) {
	p := len(data[0])
	used := make([]int, 0, k)
	for len(used) < min(k, p) {
		best, bestScore := 0, -1e8
		for f := 0; f < p; f++ {
			if slices.Contains(used, f) {
				continue
			}
			X := dataprep.FeatureSelect(data, append(slices.Clone(used), f))
			m := model.NewRidgeRegression(forwardAlpha)
			if err := m.Fit(X, labels, weights); err != nil {
				return nil, err
			}
			if score := m.Score(X, labels, weights); score > bestScore {
				best, bestScore = f, score
			}
		}
		used = append(used, best)
	}
	return used, nil
}

// highestWeights ranks columns by |coef * instance value| of a weighted ridge fit.
func highestWeights(data [][]float64, labels, weights []float64, k int) ([]int, error) {
	m := model.NewRidgeRegression(0.01)
	if err := m.Fit(data, labels, weights); err != nil {
		return nil, err
	}
	idx := seq(len(data[0]))
	contrib := make([]float64, len(idx))
	for j, c := range m.Coef {
		contrib[j] = math.Abs(c * data[0][j])
	}
	sort.SliceStable(idx, func(a, b int) bool { return contrib[idx[a]] > contrib[idx[b]] })
	return idx[:min(k, len(idx))], nil
}

// lassoPath walks the lasso path from the least penalised end and keeps the
// first solution with at most k active columns.
func lassoPath(data [][]float64, labels, weights []float64, k int) ([]int, error) {
	n, p := len(data), len(data[0])
	yMean := stat.Mean(labels, weights)
	xMeans := make([]float64, p)
	for j := range xMeans {
		xMeans[j] = stat.Mean(stats.Column(data, j), weights)
	}
	X := make([][]float64, n)
	y := make([]float64, n)
	for i, row := range data {
		sq := math.Sqrt(weights[i])
		X[i] = make([]float64, p)
		for j, v := range row {
			X[i][j] = (v - xMeans[j]) * sq
		}
		y[i] = (labels[i] - yMean) * sq
	}

	_, coefs, err := model.LassoPath(X, y, lassoAlphas)
	if err != nil {
		return nil, err
	}
	nonzero := seq(p)
	for i := len(coefs) - 1; i > 0; i-- {
		nonzero = nonzero[:0:0]
		for j, c := range coefs[i] {
			if c != 0 {
				nonzero = append(nonzero, j)
			}
		}
		if len(nonzero) <= k {
			break
		}
	}
	if len(nonzero) > k {
		nonzero = nonzero[:k]
	}
	return nonzero, nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
