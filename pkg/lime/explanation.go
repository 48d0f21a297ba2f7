package lime

import (
	"errors"
	"fmt"
	"sort"
)

// Coefficient is one surrogate weight, keyed by feature index.
type Coefficient struct {
	Feature int
	Weight  float64
}

// FeatureWeight is one surrogate weight, keyed by its human-readable feature description.
type FeatureWeight struct {
	Feature string
	Weight  float64
}

// Explanation is the result of explaining a single instance.
type Explanation struct {
	Mode       string
	ClassNames []string
	// Names used when rendering coefficients, one per feature.
	FeatureNames []string

	// classification
	PredictProba []float64
	TopLabels    []int

	// regression
	PredictedValue float64
	MinValue       float64
	MaxValue       float64

	Intercept map[int]float64
	LocalExp  map[int][]Coefficient
	Score     map[int]float64
	LocalPred map[int]float64
}

func newExplanation(mode string, classNames, featureNames []string) *Explanation {
	return &Explanation{
		Mode:         mode,
		ClassNames:   classNames,
		FeatureNames: featureNames,
		Intercept:    map[int]float64{},
		LocalExp:     map[int][]Coefficient{},
		Score:        map[int]float64{},
		LocalPred:    map[int]float64{},
	}
}

// AvailableLabels returns the labels that were explained, most probable
// first when top labels were requested. It is not defined for regression.
func (e *Explanation) AvailableLabels() ([]int, error) {
	if e.Mode == ModeRegression {
		return nil, errors.New("lime: available labels are not defined for regression explanations")
	}
	if len(e.TopLabels) > 0 {
		return append([]int(nil), e.TopLabels...), nil
	}
	labels := make([]int, 0, len(e.LocalExp))
	for l := range e.LocalExp {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels, nil
}

// AsList returns the explanation for label as (description, weight) pairs in
// ranking order. Regression explanations are always read from label 1.
func (e *Explanation) AsList(label int) ([]FeatureWeight, error) {
	if e.Mode == ModeRegression {
		label = 1
	}
	exp, ok := e.LocalExp[label]
	if !ok {
		return nil, fmt.Errorf("lime: label %d was not explained", label)
	}
	out := make([]FeatureWeight, len(exp))
	for i, c := range exp {
		out[i] = FeatureWeight{Feature: e.FeatureNames[c.Feature], Weight: c.Weight}
	}
	return out, nil
}

// AsMap returns the raw coefficients of every explained label.
func (e *Explanation) AsMap() map[int][]Coefficient {
	return e.LocalExp
}
