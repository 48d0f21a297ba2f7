package lime

import (
	"bytes"
	"encoding/gob"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingData(n, p int, seed uint64) [][]float64 {
	rnd := rand.New(rand.NewPCG(seed, seed))
	X := make([][]float64, n)
	for i := range X {
		X[i] = make([]float64, p)
		for j := range X[i] {
			X[i][j] = rnd.NormFloat64()*float64(j+1) + float64(j)
		}
	}
	return X
}

func constant(p ...float64) PredictFunc {
	return func(rows [][]float64) ([][]float64, error) {
		out := make([][]float64, len(rows))
		for i := range out {
			out[i] = append([]float64(nil), p...)
		}
		return out, nil
	}
}

func seed(v int64) *int64 { return &v }

func TestDiscretizer_QuartileBins(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}}
	d, err := NewDiscretizer("quartile", X, nil, []string{"x"}, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, []float64{2.75, 4.5, 6.25}, d.Bounds[0])
	assert.Equal(t, []string{"x <= 2.75", "2.75 < x <= 4.50", "4.50 < x <= 6.25", "x > 6.25"}, d.Names[0])
	assert.Equal(t, []float64{1, 2.75, 4.5, 6.25}, d.Mins[0])
	assert.Equal(t, []float64{2.75, 4.5, 6.25, 8}, d.Maxs[0])
	assert.Equal(t, []float64{0}, d.Discretize([]float64{2.75}))
	assert.Equal(t, []float64{3}, d.Discretize([]float64{100}))
}

func TestDiscretizer_SkipsCategoricalColumns(t *testing.T) {
	X := [][]float64{{0, 1}, {1, 2}, {0, 3}, {1, 4}}
	d, err := NewDiscretizer("decile", X, []int{0}, []string{"sex", "age"}, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, d.Features)
	assert.Equal(t, []float64{1, 0}, d.Discretize([]float64{1, 1.1}))
}

func TestDiscretizer_Entropy(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {10}, {11}, {12}}

	_, err := NewDiscretizer("entropy", X, nil, []string{"x"}, nil, 0)
	assert.Error(t, err)

	d, err := NewDiscretizer("entropy", X, nil, []string{"x"}, []int{0, 0, 0, 1, 1, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"x <= 6.50", "x > 6.50"}, d.Names[0])

	// a column that does not separate the labels falls back to its median
	flat, err := NewDiscretizer("entropy", [][]float64{{5}, {5}, {5}, {5}}, nil, []string{"x"}, []int{0, 1, 0, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, flat.Bounds[0])
}

func TestDiscretizer_UndiscretizeStaysInBin(t *testing.T) {
	X := trainingData(200, 1, 3)
	d, err := NewDiscretizer("quartile", X, nil, []string{"x"}, nil, 0)
	require.NoError(t, err)

	rnd := rand.New(rand.NewPCG(1, 1))
	rows := make([][]float64, 400)
	for i := range rows {
		rows[i] = []float64{float64(i % 4)}
	}
	d.Undiscretize(rows, rnd)
	for i, row := range rows {
		b := i % 4
		assert.GreaterOrEqual(t, row[0], d.Mins[0][b])
		assert.LessOrEqual(t, row[0], d.Maxs[0][b])
	}
	assert.Equal(t, 2.0, truncatedNormal(rnd, 0, 1, 2, 2))
}

func TestKernelAndDistances(t *testing.T) {
	w := kernel([]float64{0, 1}, 1)
	assert.Equal(t, 1.0, w[0])
	assert.InDelta(t, math.Exp(-0.5), w[1], 1e-12)

	rows := [][]float64{{0, 0}, {3, 4}}
	assert.Equal(t, []float64{0, 5}, distances(rows, "euclidean"))
	assert.Equal(t, []float64{0, 7}, distances(rows, "manhattan"))
	assert.Equal(t, []float64{0, 4}, distances(rows, "chebyshev"))
	assert.Equal(t, 1.0, distances(rows, "cosine")[1])
}

func TestSelectFeatures(t *testing.T) {
	rnd := rand.New(rand.NewPCG(9, 9))
	data := make([][]float64, 200)
	y := make([]float64, len(data))
	w := make([]float64, len(data))
	for i := range data {
		data[i] = []float64{rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()}
		w[i] = 1
	}
	data[0] = []float64{1, 1, 1, 1}
	for i, row := range data {
		y[i] = 3*row[0] + row[2]
	}

	fw, err := selectFeatures(data, y, w, 1, "forward_selection")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, fw)

	hw, err := selectFeatures(data, y, w, 2, "highest_weights")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, hw)

	lp, err := selectFeatures(data, y, w, 2, "lasso_path")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(lp), 2)
	assert.Contains(t, lp, 0)

	all, err := selectFeatures(data, y, w, 2, "none")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, all)

	auto, err := selectFeatures(data, y, w, 2, "auto")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, auto)
}

func TestNewTabularExplainer_RejectsBadConfig(t *testing.T) {
	X := trainingData(10, 2, 1)

	_, err := NewTabularExplainer(X, Config{Mode: "ranking"})
	assert.Error(t, err)
	_, err = NewTabularExplainer(X, Config{Mode: ModeRegression, DiscretizeContinuous: true, Discretizer: "octile"})
	assert.Error(t, err)
	_, err = NewTabularExplainer(X, Config{Mode: ModeRegression, FeatureSelection: "random"})
	assert.Error(t, err)
	_, err = NewTabularExplainer(X, Config{Mode: ModeRegression, FeatureNames: []string{"a"}})
	assert.Error(t, err)
	_, err = NewTabularExplainer(nil, Config{Mode: ModeRegression})
	assert.Error(t, err)
	_, err = NewTabularExplainer([][]float64{{1, 2}, {1}}, Config{Mode: ModeRegression})
	assert.Error(t, err)

	e, err := NewTabularExplainer(X, Config{Mode: ModeRegression})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(2)*0.75, *e.Config().KernelWidth, 1e-12)
	assert.Equal(t, []string{"0", "1"}, e.Config().FeatureNames)

	_, err = e.Explain(constant(1), []float64{0, 0}, ExplainConfig{DistanceMetric: "hamming"})
	assert.Error(t, err)
	_, err = e.Explain(constant(1), []float64{0}, ExplainConfig{})
	assert.Error(t, err)
}

func TestExplain_ConstantClassifier(t *testing.T) {
	X := trainingData(100, 4, 5)
	e, err := NewTabularExplainer(X, Config{
		Mode:                 ModeClassification,
		FeatureNames:         []string{"a", "b", "c", "d"},
		DiscretizeContinuous: true,
		RandomState:          seed(42),
	})
	require.NoError(t, err)

	exp, err := e.Explain(constant(0.7, 0.3), X[0], ExplainConfig{NumFeatures: 2, NumSamples: 500})
	require.NoError(t, err)

	list, err := exp.AsList(1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	names := e.Discretizer().Names
	for _, fw := range list {
		assert.False(t, math.IsNaN(fw.Weight) || math.IsInf(fw.Weight, 0))
		found := false
		for _, bins := range names {
			for _, n := range bins {
				found = found || n == fw.Feature
			}
		}
		assert.True(t, found, "feature %q is a bin name", fw.Feature)
	}
	assert.Equal(t, []string{"0", "1"}, exp.ClassNames)
	assert.Equal(t, []float64{0.7, 0.3}, exp.PredictProba)

	labels, err := exp.AvailableLabels()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, labels)
	_, err = exp.AsList(0)
	assert.Error(t, err)
}

func TestExplain_TopLabels(t *testing.T) {
	X := trainingData(50, 3, 6)
	e, err := NewTabularExplainer(X, Config{Mode: ModeClassification, DiscretizeContinuous: true, RandomState: seed(1)})
	require.NoError(t, err)

	exp, err := e.Explain(constant(0.1, 0.6, 0.3), X[1], ExplainConfig{TopLabels: 2, NumSamples: 200})
	require.NoError(t, err)

	labels, err := exp.AvailableLabels()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, labels)
	assert.Len(t, exp.AsMap(), 2)

	_, err = e.Explain(constant(0.5, 0.5), X[1], ExplainConfig{Labels: []int{3}, NumSamples: 10})
	assert.Error(t, err)
}

func TestExplain_Regression(t *testing.T) {
	X := trainingData(80, 3, 7)
	e, err := NewTabularExplainer(X, Config{Mode: ModeRegression, RandomState: seed(3)})
	require.NoError(t, err)

	linear := func(rows [][]float64) ([][]float64, error) {
		out := make([][]float64, len(rows))
		for i, r := range rows {
			out[i] = []float64{2*r[0] - r[2]}
		}
		return out, nil
	}
	exp, err := e.Explain(linear, X[0], ExplainConfig{NumFeatures: 3, NumSamples: 1000, SamplingMethod: "lhs"})
	require.NoError(t, err)

	assert.Equal(t, 2*X[0][0]-X[0][2], exp.PredictedValue)
	assert.LessOrEqual(t, exp.MinValue, exp.PredictedValue)
	assert.GreaterOrEqual(t, exp.MaxValue, exp.PredictedValue)
	for k, c := range exp.LocalExp[1] {
		assert.Equal(t, -c.Weight, exp.LocalExp[0][k].Weight)
	}
	list, err := exp.AsList(0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = exp.AvailableLabels()
	assert.Error(t, err)

	_, err = e.Explain(constant(0.5, 0.5), X[0], ExplainConfig{NumSamples: 10})
	assert.Error(t, err, "regressors return one value per row")
}

func TestExplain_CategoricalNamesWithoutDiscretizing(t *testing.T) {
	X := [][]float64{{0, 22}, {1, 38}, {1, 26}, {0, 35}, {0, 54}, {1, 2}}
	e, err := NewTabularExplainer(X, Config{
		Mode:                ModeClassification,
		FeatureNames:        []string{"sex", "age"},
		CategoricalFeatures: []int{0},
		CategoricalNames:    map[int][]string{0: {"male", "female"}},
		FeatureSelection:    "none",
		RandomState:         seed(11),
	})
	require.NoError(t, err)

	exp, err := e.Explain(constant(0.4, 0.6), X[1], ExplainConfig{NumSamples: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"sex=female", "age"}, exp.FeatureNames)
}

func TestTabularExplainer_GobRoundTrip(t *testing.T) {
	X := trainingData(60, 3, 8)
	labels := make([]int, len(X))
	for i, row := range X {
		if row[0] > 0 {
			labels[i] = 1
		}
	}
	e, err := NewTabularExplainer(X, Config{
		Mode:                 ModeClassification,
		TrainingLabels:       labels,
		DiscretizeContinuous: true,
		Discretizer:          "entropy",
		RandomState:          seed(5),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(e))
	restored := &TabularExplainer{}
	require.NoError(t, gob.NewDecoder(&buf).Decode(restored))

	assert.Equal(t, ModeClassification, restored.Mode())
	assert.Equal(t, e.Config().FeatureNames, restored.Config().FeatureNames)
	assert.Equal(t, e.Discretizer().Names, restored.Discretizer().Names)

	predict := func(rows [][]float64) ([][]float64, error) {
		out := make([][]float64, len(rows))
		for i, r := range rows {
			p := 1 / (1 + math.Exp(-r[0]))
			out[i] = []float64{1 - p, p}
		}
		return out, nil
	}
	ec := ExplainConfig{NumFeatures: 2, NumSamples: 300}
	want, err := e.Explain(predict, X[2], ec)
	require.NoError(t, err)
	got, err := restored.Explain(predict, X[2], ec)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("explanation changed after round trip (-want +got):\n%s", diff)
	}
}

func TestTopLabels(t *testing.T) {
	assert.Equal(t, []int{2, 0}, topLabels([]float64{0.3, 0.1, 0.6}, 2))
	assert.Equal(t, []int{1, 0}, topLabels([]float64{0.4, 0.6}, 5))
}
