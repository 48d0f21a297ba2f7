package stats

import (
	"math"
	"sort"
)

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	return Sum(x) / float64(n)
}

// Variance computes the population variance of a slice (numpy's ddof=0).
func Variance(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	m := Mean(x)
	s := 0.0
	for _, v := range x {
		d := v - m
		s += d * d
	}
	return s / n
}

// Std computes the population standard deviation of a slice.
func Std(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// Skewness returns the population skewness, 0 for constant or empty input.
func Skewness(x []float64) float64 {
	sd := Std(x)
	if sd == 0 {
		return 0
	}
	m := Mean(x)
	s := 0.0
	for _, v := range x {
		d := (v - m) / sd
		s += d * d * d
	}
	return s / float64(len(x))
}

// Kurtosis returns the excess kurtosis, 0 for constant or empty input.
func Kurtosis(x []float64) float64 {
	sd := Std(x)
	if sd == 0 {
		return 0
	}
	m := Mean(x)
	s := 0.0
	for _, v := range x {
		d := (v - m) / sd
		s += d * d * d * d
	}
	return s/float64(len(x)) - 3
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		} else if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// Sum returns the sum of all elements in the slice.
func Sum(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s
}

// Median returns the median value of the slice (allocates a copy).
func Median(x []float64) float64 {
	return Percentile(x, 50)
}

// Mode returns the most frequent value in the slice. Ties go to the smallest value.
func Mode(x []float64) float64 {
	values, counts := ValueCounts(x)
	if len(values) == 0 {
		return 0
	}
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return values[best]
}

// Percentile returns the p-th percentile value of the slice (0 <= p <= 100),
// interpolating linearly between closest ranks.
func Percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}

// Percentiles evaluates Percentile for each p in ps.
func Percentiles(x []float64, ps ...float64) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = Percentile(x, p)
	}
	return out
}

// Unique returns the sorted distinct values of x.
func Unique(x []float64) []float64 {
	values, _ := ValueCounts(x)
	return values
}

// ValueCounts returns the sorted distinct values of x and how often each occurs.
func ValueCounts(x []float64) ([]float64, []int) {
	counts := make(map[float64]int, len(x))
	for _, v := range x {
		counts[v]++
	}
	values := make([]float64, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Float64s(values)
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = counts[v]
	}
	return values, out
}

// SearchSorted returns the index of the first element of sorted that is >= v,
// so values equal to a boundary fall in the lower bin.
func SearchSorted(sorted []float64, v float64) int {
	return sort.SearchFloat64s(sorted, v)
}

// Correlation computes the Pearson correlation coefficient between two slices in a single pass.
func Correlation(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 || len(y) != len(x) {
		return 0
	}
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range x {
		xi, yi := x[i], y[i]
		sumX += xi
		sumY += yi
		sumXY += xi * yi
		sumX2 += xi * xi
		sumY2 += yi * yi
	}
	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Column extracts column j of X.
func Column(X [][]float64, j int) []float64 {
	col := make([]float64, len(X))
	for i := range X {
		col[i] = X[i][j]
	}
	return col
}
