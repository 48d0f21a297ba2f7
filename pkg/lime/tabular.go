package lime

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/kuzeydev/contextual-ai/internal/logger"
	"github.com/kuzeydev/contextual-ai/pkg/stats"
)

// PredictFunc scores a batch of rows. Classifiers return one probability row
// per input, regressors a single value per row.
type PredictFunc func(rows [][]float64) ([][]float64, error)

// TabularExplainer explains predictions on tabular data. It owns a copy of
// the statistics of its training data and a seeded random source, and can be
// persisted with encoding/gob.
type TabularExplainer struct {
	cfg         Config
	scaler      *stats.StandardScaler
	discretizer *Discretizer
	// columns sampled from frequency tables; every column once discretized
	categorical        []int
	featureValues      map[int][]float64
	featureFrequencies map[int][]float64
	src                *rand.PCG
	rnd                *rand.Rand
}

// NewTabularExplainer fits the sampling statistics of trainingData.
func NewTabularExplainer(trainingData [][]float64, cfg Config) (*TabularExplainer, error) {
	if len(trainingData) == 0 || len(trainingData[0]) == 0 {
		return nil, errors.New("lime: training data is empty")
	}
	p := len(trainingData[0])
	for i, row := range trainingData {
		if len(row) != p {
			return nil, fmt.Errorf("lime: training row %d has %d columns, want %d", i, len(row), p)
		}
	}
	if err := cfg.resolve(p); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if cfg.RandomState != nil {
		seed = *cfg.RandomState
	}
	e := &TabularExplainer{
		cfg:                cfg,
		categorical:        slices.Clone(cfg.CategoricalFeatures),
		featureValues:      map[int][]float64{},
		featureFrequencies: map[int][]float64{},
		src:                rand.NewPCG(uint64(seed), uint64(seed)),
	}
	e.rnd = rand.New(e.src)

	source := trainingData
	if cfg.DiscretizeContinuous {
		d, err := NewDiscretizer(cfg.Discretizer, trainingData, cfg.CategoricalFeatures, cfg.FeatureNames, cfg.TrainingLabels, seed)
		if err != nil {
			return nil, err
		}
		e.discretizer = d
		e.categorical = seq(p)
		source = make([][]float64, len(trainingData))
		for i, row := range trainingData {
			source[i] = d.Discretize(row)
		}
	}

	e.scaler = stats.NewStandardScaler()
	e.scaler.FitData(trainingData)
	for _, f := range e.categorical {
		values, counts := stats.ValueCounts(stats.Column(source, f))
		freqs := make([]float64, len(counts))
		for k, c := range counts {
			freqs[k] = float64(c) / float64(len(source))
		}
		e.featureValues[f] = values
		e.featureFrequencies[f] = freqs
		e.scaler.Pin(f)
	}
	return e, nil
}

// Mode returns "classification" or "regression".
func (e *TabularExplainer) Mode() string { return e.cfg.Mode }

// Config returns the resolved construction parameters.
func (e *TabularExplainer) Config() Config { return e.cfg }

// Discretizer returns the fitted discretizer, or nil when continuous features are kept.
func (e *TabularExplainer) Discretizer() *Discretizer { return e.discretizer }

// Explain samples a neighbourhood of row, scores it with predict and fits one
// surrogate per requested label.
func (e *TabularExplainer) Explain(predict PredictFunc, row []float64, ec ExplainConfig) (*Explanation, error) {
	if len(row) != len(e.cfg.FeatureNames) {
		return nil, fmt.Errorf("lime: instance has %d features, want %d", len(row), len(e.cfg.FeatureNames))
	}
	if err := ec.resolve(); err != nil {
		return nil, err
	}

	data, inverse := e.sample(row, ec.NumSamples, ec.SamplingMethod)
	scaled := e.scaler.Transform(data)
	weights := kernel(distances(scaled, ec.DistanceMetric), *e.cfg.KernelWidth)

	yss, err := predict(inverse)
	if err != nil {
		return nil, err
	}
	if len(yss) != len(inverse) {
		return nil, fmt.Errorf("lime: predict returned %d rows for %d samples", len(yss), len(inverse))
	}

	exp := newExplanation(e.cfg.Mode, e.cfg.ClassNames, e.domainNames(row))
	labels := ec.Labels
	if e.cfg.Mode == ModeClassification {
		width := len(yss[0])
		if width < 2 {
			return nil, errors.New("lime: classifier must return one probability per class")
		}
		for i, ys := range yss {
			if len(ys) != width {
				return nil, fmt.Errorf("lime: predict row %d has %d classes, want %d", i, len(ys), width)
			}
			if math.Abs(stats.Sum(ys)-1) > 1e-5 {
				logger.Warn("prediction probabilities do not sum to 1; LIME will still run but explanations may be misleading")
				break
			}
		}
		if exp.ClassNames == nil {
			exp.ClassNames = make([]string, width)
			for k := range exp.ClassNames {
				exp.ClassNames[k] = strconv.Itoa(k)
			}
		}
		exp.PredictProba = slices.Clone(yss[0])
		if ec.TopLabels > 0 {
			labels = topLabels(yss[0], ec.TopLabels)
			exp.TopLabels = labels
		}
		for _, l := range labels {
			if l < 0 || l >= width {
				return nil, fmt.Errorf("lime: label %d out of range for %d classes", l, width)
			}
		}
	} else {
		for i, ys := range yss {
			if len(ys) != 1 {
				return nil, fmt.Errorf("lime: regressor must return a single value per row, row %d has %d", i, len(ys))
			}
		}
		values := make([]float64, len(yss))
		for i, ys := range yss {
			values[i] = ys[0]
		}
		exp.PredictedValue = values[0]
		exp.MinValue, exp.MaxValue = stats.MinMax(values)
		labels = []int{0}
	}

	for _, l := range labels {
		target := make([]float64, len(yss))
		for i, ys := range yss {
			target[i] = ys[l]
		}
		s, err := e.fitSurrogate(scaled, target, weights, ec.NumFeatures)
		if err != nil {
			return nil, err
		}
		exp.Intercept[l] = s.intercept
		exp.LocalExp[l] = s.exp
		exp.Score[l] = s.score
		exp.LocalPred[l] = s.localPred
	}

	if e.cfg.Mode == ModeRegression {
		exp.Intercept[1] = exp.Intercept[0]
		exp.LocalExp[1] = exp.LocalExp[0]
		neg := make([]Coefficient, len(exp.LocalExp[1]))
		for k, c := range exp.LocalExp[1] {
			neg[k] = Coefficient{Feature: c.Feature, Weight: -c.Weight}
		}
		exp.LocalExp[0] = neg
	}
	return exp, nil
}

// domainNames renders one description per feature of row: "name=value" for
// categorical columns and the bin label for discretized ones.
func (e *TabularExplainer) domainNames(row []float64) []string {
	names := slices.Clone(e.cfg.FeatureNames)
	for _, f := range e.cfg.CategoricalFeatures {
		v := int(row[f])
		value := strconv.Itoa(v)
		if labels, ok := e.cfg.CategoricalNames[f]; ok && v >= 0 && v < len(labels) {
			value = labels[v]
		}
		names[f] = names[f] + "=" + value
	}
	if e.discretizer != nil {
		bins := e.discretizer.Discretize(row)
		for _, f := range e.discretizer.Features {
			names[f] = e.discretizer.Names[f][int(bins[f])]
		}
	}
	return names
}

// topLabels returns the k labels with the highest probability, most probable first.
func topLabels(probs []float64, k int) []int {
	idx := seq(len(probs))
	sort.SliceStable(idx, func(a, b int) bool { return probs[idx[a]] < probs[idx[b]] })
	if k > len(idx) {
		k = len(idx)
	}
	top := slices.Clone(idx[len(idx)-k:])
	slices.Reverse(top)
	return top
}

type explainerState struct {
	Config             Config
	Scaler             stats.StandardScaler
	Discretizer        *Discretizer
	Categorical        []int
	FeatureValues      map[int][]float64
	FeatureFrequencies map[int][]float64
	Rand               []byte
	// gob drops pointers to zero values, so the seed travels on its own
	Seed   int64
	Seeded bool
}

// GobEncode captures the configuration, the fitted statistics and the
// position of the random source.
func (e *TabularExplainer) GobEncode() ([]byte, error) {
	rs, err := e.src.MarshalBinary()
	if err != nil {
		return nil, err
	}
	st := explainerState{
		Config:             e.cfg,
		Scaler:             *e.scaler,
		Discretizer:        e.discretizer,
		Categorical:        e.categorical,
		FeatureValues:      e.featureValues,
		FeatureFrequencies: e.featureFrequencies,
		Rand:               rs,
	}
	if e.cfg.RandomState != nil {
		st.Seed, st.Seeded = *e.cfg.RandomState, true
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores an explainer written by GobEncode.
func (e *TabularExplainer) GobDecode(data []byte) error {
	var st explainerState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return err
	}
	src := &rand.PCG{}
	if err := src.UnmarshalBinary(st.Rand); err != nil {
		return err
	}
	if st.FeatureValues == nil {
		st.FeatureValues = map[int][]float64{}
	}
	if st.FeatureFrequencies == nil {
		st.FeatureFrequencies = map[int][]float64{}
	}
	st.Config.RandomState = nil
	if st.Seeded {
		seed := st.Seed
		st.Config.RandomState = &seed
	}
	scaler := st.Scaler
	*e = TabularExplainer{
		cfg:                st.Config,
		scaler:             &scaler,
		discretizer:        st.Discretizer,
		categorical:        st.Categorical,
		featureValues:      st.FeatureValues,
		featureFrequencies: st.FeatureFrequencies,
		src:                src,
		rnd:                rand.New(src),
	}
	return nil
}
