package lime

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type metric func(a, b []float64) float64

var metrics = map[string]metric{
	"euclidean": func(a, b []float64) float64 { return floats.Distance(a, b, 2) },
	"manhattan": func(a, b []float64) float64 { return floats.Distance(a, b, 1) },
	"cityblock": func(a, b []float64) float64 { return floats.Distance(a, b, 1) },
	"chebyshev": func(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) },
	"cosine":    cosineDistance,
}

// cosineDistance is 1 - cos(a, b). A zero vector is at distance 1 from everything.
func cosineDistance(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - floats.Dot(a, b)/(na*nb)
}

// distances returns the distance of every row to rows[0].
func distances(rows [][]float64, name string) []float64 {
	m := metrics[name]
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = m(row, rows[0])
	}
	return out
}

// kernel maps distances to sample weights sqrt(exp(-d^2 / width^2)).
func kernel(d []float64, width float64) []float64 {
	w := make([]float64, len(d))
	for i, v := range d {
		w[i] = math.Sqrt(math.Exp(-(v * v) / (width * width)))
	}
	return w
}
