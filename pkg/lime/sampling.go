package lime

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// standardDraws returns n x cols draws from N(0, 1), either i.i.d. or by
// latin hypercube sampling pushed through the normal quantile function.
func standardDraws(rnd *rand.Rand, method string, n, cols int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	if method == "lhs" {
		for j := 0; j < cols; j++ {
			perm := rnd.Perm(n)
			for i := range out {
				// stratum perm[i] of [0, 1) split into n cells
				u := (float64(perm[i]) + rnd.Float64()) / float64(n)
				out[i][j] = distuv.UnitNormal.Quantile(u)
			}
		}
		return out
	}
	for i := range out {
		for j := range out[i] {
			out[i][j] = rnd.NormFloat64()
		}
	}
	return out
}

// choice draws one of values with the given probabilities.
func choice(rnd *rand.Rand, values, probs []float64) float64 {
	u := rnd.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if u < acc {
			return values[i]
		}
	}
	return values[len(values)-1]
}

// sample builds the perturbation neighbourhood of row. data holds the
// interpretable representation (categorical columns as "equals the instance"
// indicators) and inverse the same samples in the original feature space.
// Row 0 of both is the instance itself.
func (e *TabularExplainer) sample(row []float64, n int, method string) (data, inverse [][]float64) {
	cols := len(row)
	categorical := e.categorical
	firstRow := row
	if e.discretizer == nil {
		center := e.scaler.Mean
		if e.cfg.SampleAroundInstance {
			center = row
		}
		data = standardDraws(e.rnd, method, n, cols)
		for _, r := range data {
			for j := range r {
				r[j] = r[j]*e.scaler.Scale[j] + center[j]
			}
		}
	} else {
		firstRow = e.discretizer.Discretize(row)
		data = make([][]float64, n)
		for i := range data {
			data[i] = make([]float64, cols)
		}
	}
	copy(data[0], row)

	inverse = make([][]float64, n)
	for i := range data {
		inverse[i] = append([]float64(nil), data[i]...)
	}
	for _, c := range categorical {
		values, freqs := e.featureValues[c], e.featureFrequencies[c]
		for i := range data {
			v := choice(e.rnd, values, freqs)
			if i == 0 {
				data[0][c] = 1
				continue
			}
			inverse[i][c] = v
			data[i][c] = 0
			if v == firstRow[c] {
				data[i][c] = 1
			}
		}
	}
	if e.discretizer != nil && n > 1 {
		e.discretizer.Undiscretize(inverse[1:], e.rnd)
	}
	copy(inverse[0], row)
	return data, inverse
}
