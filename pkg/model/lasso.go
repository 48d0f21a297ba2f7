package model

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	lassoMaxIter = 1000
	lassoTol     = 1e-6
)

// LassoPath computes lasso solutions of (1/2n)|y - Xb|^2 + alpha|b|_1 for
// nAlphas penalties spaced geometrically from the smallest alpha that zeroes
// every coefficient down to alpha_max/1000, followed by the unpenalised fit.
// X and y are expected to be centred; no intercept is fitted.
//
// Alphas are returned in decreasing order, so coefs[0] is all zeros and the
// number of active features tends to grow along the path.
func LassoPath(X [][]float64, y []float64, nAlphas int) (alphas []float64, coefs [][]float64, err error) {
	n := len(X)
	if n == 0 {
		return nil, nil, errors.New("lasso: empty X")
	}
	if len(y) != n {
		return nil, nil, errors.New("lasso: X and y length mismatch")
	}
	if nAlphas < 2 {
		nAlphas = 2
	}
	p := len(X[0])

	cols := make([][]float64, p)
	norms := make([]float64, p)
	for j := range cols {
		cols[j] = make([]float64, n)
		for i := range X {
			cols[j][i] = X[i][j]
		}
		norms[j] = floats.Dot(cols[j], cols[j]) / float64(n)
	}

	alphaMax := 0.0
	for j := range cols {
		alphaMax = math.Max(alphaMax, math.Abs(floats.Dot(cols[j], y))/float64(n))
	}

	alphas = make([]float64, 0, nAlphas+1)
	if alphaMax > 0 {
		ratio := math.Pow(1e-3, 1/float64(nAlphas-1))
		a := alphaMax
		for k := 0; k < nAlphas; k++ {
			alphas = append(alphas, a)
			a *= ratio
		}
	}
	alphas = append(alphas, 0)

	b := make([]float64, p)
	r := make([]float64, n)
	copy(r, y)
	for _, alpha := range alphas {
		coordinateDescent(cols, norms, r, b, alpha)
		step := make([]float64, p)
		copy(step, b)
		coefs = append(coefs, step)
	}
	return alphas, coefs, nil
}

// coordinateDescent updates b and the residual r = y - Xb in place.
func coordinateDescent(cols [][]float64, norms, r, b []float64, alpha float64) {
	n := float64(len(r))
	for iter := 0; iter < lassoMaxIter; iter++ {
		maxDelta := 0.0
		for j, col := range cols {
			if norms[j] == 0 {
				continue
			}
			old := b[j]
			rho := floats.Dot(col, r)/n + norms[j]*old
			b[j] = softThreshold(rho, alpha) / norms[j]
			if d := b[j] - old; d != 0 {
				floats.AddScaled(r, -d, col)
				maxDelta = math.Max(maxDelta, math.Abs(d))
			}
		}
		if maxDelta < lassoTol {
			return
		}
	}
}

func softThreshold(v, t float64) float64 {
	switch {
	case v > t:
		return v - t
	case v < -t:
		return v + t
	}
	return 0
}
