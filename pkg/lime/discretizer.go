package lime

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kuzeydev/contextual-ai/pkg/model"
	"github.com/kuzeydev/contextual-ai/pkg/stats"
)

const entropyMaxDepth = 3

// Discretizer maps continuous columns to bin indices and back. Bins are the
// half-open intervals (b[i-1], b[i]] between the sorted boundaries of a column.
type Discretizer struct {
	Kind     string
	Features []int
	Bounds   map[int][]float64
	Names    map[int][]string
	Means    map[int][]float64
	Stds     map[int][]float64
	Mins     map[int][]float64
	Maxs     map[int][]float64
}

// NewDiscretizer fits a quartile, decile or entropy discretizer on every
// column of data that is not listed in categorical. The entropy discretizer
// needs one label per row.
func NewDiscretizer(kind string, data [][]float64, categorical []int, names []string, labels []int, seed int64) (*Discretizer, error) {
	if kind == "entropy" && len(labels) != len(data) {
		return nil, errors.New("lime: entropy discretizer needs one training label per row")
	}
	d := &Discretizer{
		Kind:   kind,
		Bounds: map[int][]float64{},
		Names:  map[int][]string{},
		Means:  map[int][]float64{},
		Stds:   map[int][]float64{},
		Mins:   map[int][]float64{},
		Maxs:   map[int][]float64{},
	}
	for f := range names {
		if slices.Contains(categorical, f) {
			continue
		}
		col := stats.Column(data, f)
		qts, err := d.boundaries(col, labels, seed)
		if err != nil {
			return nil, fmt.Errorf("lime: discretizing %q: %w", names[f], err)
		}
		qts = stats.Unique(qts)
		d.Features = append(d.Features, f)
		d.fitFeature(f, names[f], col, qts)
	}
	return d, nil
}

func (d *Discretizer) boundaries(col []float64, labels []int, seed int64) ([]float64, error) {
	switch d.Kind {
	case "quartile":
		return stats.Percentiles(col, 25, 50, 75), nil
	case "decile":
		return stats.Percentiles(col, 10, 20, 30, 40, 50, 60, 70, 80, 90), nil
	case "entropy":
		x := make([][]float64, len(col))
		for i, v := range col {
			x[i] = []float64{v}
		}
		tree := model.NewDecisionTreeClassifier(
			model.WithCriterion("entropy"),
			model.WithMaxDepth(entropyMaxDepth),
			model.WithRandomState(seed),
		)
		if err := tree.Fit(x, labels); err != nil {
			return nil, err
		}
		if qts := tree.Thresholds(0); len(qts) > 0 {
			return qts, nil
		}
		return []float64{stats.Median(col)}, nil
	}
	return nil, fmt.Errorf("unknown discretizer %q", d.Kind)
}

func (d *Discretizer) fitFeature(f int, name string, col, qts []float64) {
	n := len(qts)
	names := make([]string, 0, n+1)
	names = append(names, fmt.Sprintf("%s <= %.2f", name, qts[0]))
	for i := 0; i < n-1; i++ {
		names = append(names, fmt.Sprintf("%.2f < %s <= %.2f", qts[i], name, qts[i+1]))
	}
	names = append(names, fmt.Sprintf("%s > %.2f", name, qts[n-1]))

	bins := make([][]float64, n+1)
	for _, v := range col {
		b := stats.SearchSorted(qts, v)
		bins[b] = append(bins[b], v)
	}
	means := make([]float64, n+1)
	stds := make([]float64, n+1)
	for b, sel := range bins {
		if len(sel) > 0 {
			means[b] = stats.Mean(sel)
			stds[b] = stats.Std(sel)
		}
		stds[b] += 1e-11
	}
	lo, hi := stats.MinMax(col)

	d.Bounds[f] = qts
	d.Names[f] = names
	d.Means[f] = means
	d.Stds[f] = stds
	d.Mins[f] = append([]float64{lo}, qts...)
	d.Maxs[f] = append(slices.Clone(qts), hi)
}

// Discretize returns a copy of row with every discretized column replaced by its bin index.
func (d *Discretizer) Discretize(row []float64) []float64 {
	out := slices.Clone(row)
	for _, f := range d.Features {
		out[f] = float64(stats.SearchSorted(d.Bounds[f], row[f]))
	}
	return out
}

// Undiscretize replaces bin indices in rows with values drawn from a normal
// truncated to the bin, using the per-bin mean and std of the training data.
func (d *Discretizer) Undiscretize(rows [][]float64, rnd *rand.Rand) {
	for _, f := range d.Features {
		for _, row := range rows {
			b := int(row[f])
			row[f] = truncatedNormal(rnd, d.Means[f][b], d.Stds[f][b], d.Mins[f][b], d.Maxs[f][b])
		}
	}
}

// truncatedNormal samples N(mean, std) restricted to [lo, hi] by inverting the CDF.
func truncatedNormal(rnd *rand.Rand, mean, std, lo, hi float64) float64 {
	if lo == hi {
		return lo
	}
	n := distuv.UnitNormal
	a, b := n.CDF((lo-mean)/std), n.CDF((hi-mean)/std)
	v := mean + std*n.Quantile(a+rnd.Float64()*(b-a))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = mean
	}
	return math.Min(math.Max(v, lo), hi)
}
