// Package explainer exposes local explanation engines behind a fixed
// build, explain, save and load lifecycle.
package explainer

import (
	"errors"

	"github.com/kuzeydev/contextual-ai/pkg/lime"
)

// ErrExplainerUninitialized is returned when an explainer is used before Build or Load.
var ErrExplainerUninitialized = errors.New("explainer: not yet built, call Build first")

// NumTopFeatures is the default length of an explanation.
const NumTopFeatures = 5

// FeatureWeight is one (feature description, weight) pair of an explanation.
type FeatureWeight = lime.FeatureWeight

// PredictFunc scores a batch of rows, one output row per input row.
type PredictFunc = lime.PredictFunc

// PerRow adapts a model that scores one row at a time.
func PerRow(fn func(row []float64) []float64) PredictFunc {
	return func(rows [][]float64) ([][]float64, error) {
		out := make([][]float64, len(rows))
		for i, r := range rows {
			out[i] = fn(r)
		}
		return out, nil
	}
}

// Explainer is implemented by every explanation method.
type Explainer interface {
	Explain(predict PredictFunc, instance []float64, opts ...ExplainOption) ([]FeatureWeight, error)
	Save(path string) error
	Load(path string) error
	Built() bool
}
