package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile_MatchesLinearInterpolation(t *testing.T) {
	x := []float64{4, 1, 3, 2}

	assert.InDelta(t, 1.75, Percentile(x, 25), 1e-12)
	assert.InDelta(t, 2.5, Percentile(x, 50), 1e-12)
	assert.InDelta(t, 3.25, Percentile(x, 75), 1e-12)
	assert.Equal(t, 1.0, Percentile(x, 0))
	assert.Equal(t, 4.0, Percentile(x, 100))
	assert.Equal(t, []float64{4, 1, 3, 2}, x, "input must not be reordered")
}

func TestVarianceAndStd(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 5.0, Mean(x), 1e-12)
	assert.InDelta(t, 4.0, Variance(x), 1e-12)
	assert.InDelta(t, 2.0, Std(x), 1e-12)
	assert.Zero(t, Std(nil))
}

func TestValueCountsAndMode(t *testing.T) {
	values, counts := ValueCounts([]float64{3, 1, 3, 2, 1, 3})

	assert.Equal(t, []float64{1, 2, 3}, values)
	assert.Equal(t, []int{2, 1, 3}, counts)
	assert.Equal(t, 3.0, Mode([]float64{3, 1, 3, 2, 1, 3}))
	assert.Equal(t, 1.0, Mode([]float64{2, 1, 2, 1}), "ties resolve to the smallest value")
}

func TestSearchSorted_BoundaryFallsLow(t *testing.T) {
	bins := []float64{1, 2, 3}

	assert.Equal(t, 0, SearchSorted(bins, 0.5))
	assert.Equal(t, 0, SearchSorted(bins, 1))
	assert.Equal(t, 1, SearchSorted(bins, 1.5))
	assert.Equal(t, 3, SearchSorted(bins, 3.5))
}

func TestStandardScaler_ZeroVarianceColumn(t *testing.T) {
	s := NewStandardScaler()
	s.FitData([][]float64{{1, 5}, {3, 5}})

	assert.Equal(t, []float64{2, 5}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Scale)
	assert.Equal(t, []float64{-1, 0}, s.TransformRow([]float64{1, 5}))

	s.Pin(0)
	assert.Equal(t, []float64{1, 0}, s.TransformRow([]float64{1, 5}))
}

func TestCountOutliers(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}

	below, above := CountOutliers(x, 1.5)
	assert.Equal(t, 0, below)
	assert.Equal(t, 1, above)

	_, above = CountOutliers(x, 100)
	assert.Zero(t, above)
}

func TestCorrelation(t *testing.T) {
	assert.InDelta(t, 1.0, Correlation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, Correlation([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
	assert.Zero(t, Correlation([]float64{1, 1, 1}, []float64{1, 2, 3}))
}
