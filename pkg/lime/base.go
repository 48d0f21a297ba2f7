package lime

import (
	"math"
	"sort"

	"github.com/kuzeydev/contextual-ai/internal/logger"
	"github.com/kuzeydev/contextual-ai/pkg/dataprep"
	"github.com/kuzeydev/contextual-ai/pkg/model"
)

const surrogateAlpha = 1

type surrogate struct {
	intercept float64
	exp       []Coefficient
	score     float64
	localPred float64
}

// fitSurrogate fits a weighted ridge model to the target column of one label
// over the selected features of the neighbourhood.
func (e *TabularExplainer) fitSurrogate(data [][]float64, target, weights []float64, numFeatures int) (surrogate, error) {
	used, err := selectFeatures(data, target, weights, numFeatures, e.cfg.FeatureSelection)
	if err != nil {
		return surrogate{}, err
	}
	X := dataprep.FeatureSelect(data, used)
	m := model.NewRidgeRegression(surrogateAlpha)
	if err := m.Fit(X, target, weights); err != nil {
		return surrogate{}, err
	}

	s := surrogate{
		intercept: m.Intercept,
		score:     m.Score(X, target, weights),
		localPred: m.Predict(X[:1])[0],
		exp:       make([]Coefficient, len(used)),
	}
	for k, f := range used {
		s.exp[k] = Coefficient{Feature: f, Weight: m.Coef[k]}
	}
	sort.SliceStable(s.exp, func(a, b int) bool {
		return math.Abs(s.exp[a].Weight) > math.Abs(s.exp[b].Weight)
	})
	if len(s.exp) > numFeatures {
		s.exp = s.exp[:numFeatures]
	}

	if e.cfg.Verbose {
		logger.Print("intercept %v", s.intercept)
		logger.Print("prediction_local %v", s.localPred)
		logger.Print("right %v", target[0])
	}
	return s, nil
}
