package explainer

import (
	"encoding/gob"
	"os"
	"slices"

	"github.com/kuzeydev/contextual-ai/internal/logger"
	"github.com/kuzeydev/contextual-ai/pkg/lime"
)

var availableModes = []string{lime.ModeClassification, lime.ModeRegression}

// LimeTabularExplainer explains tabular predictions with LIME. The zero value
// is an uninitialized explainer.
type LimeTabularExplainer struct {
	engine *lime.TabularExplainer
}

var _ Explainer = (*LimeTabularExplainer)(nil)

// NewLimeTabularExplainer returns an uninitialized explainer.
func NewLimeTabularExplainer() *LimeTabularExplainer {
	return &LimeTabularExplainer{}
}

// Build constructs the engine from the training data. A mode other than
// "classification" or "regression" is logged and leaves the explainer as it was.
func (l *LimeTabularExplainer) Build(trainingData [][]float64, mode string, opts ...BuildOption) error {
	if !slices.Contains(availableModes, mode) {
		logger.Error("mode must be one of %v, failed to build explainer", availableModes)
		return nil
	}
	c := defaultBuildConfig()
	for _, o := range opts {
		o(&c)
	}

	engine, err := lime.NewTabularExplainer(trainingData, lime.Config{
		Mode:                 mode,
		TrainingLabels:       c.trainingLabels,
		FeatureNames:         c.columnNames,
		CategoricalFeatures:  c.categoricalFeatures,
		CategoricalNames:     c.categoricalNames,
		KernelWidth:          c.kernelWidth,
		Verbose:              c.verbose,
		ClassNames:           c.classNames,
		FeatureSelection:     c.featureSelection,
		DiscretizeContinuous: c.discretizeContinuous,
		Discretizer:          c.discretizer,
		SampleAroundInstance: c.sampleAroundInstance,
		RandomState:          c.randomState,
	})
	if err != nil {
		return err
	}
	l.engine = engine
	logger.Debug("built %s explainer over %d rows", mode, len(trainingData))
	return nil
}

// Built reports whether Build or Load has succeeded.
func (l *LimeTabularExplainer) Built() bool { return l.engine != nil }

// Mode returns the mode the engine was built with, or "" when uninitialized.
func (l *LimeTabularExplainer) Mode() string {
	if l.engine == nil {
		return ""
	}
	return l.engine.Mode()
}

// Explain returns the (feature, weight) pairs for label 1 when it was
// explained, otherwise for the first explained label.
func (l *LimeTabularExplainer) Explain(predict PredictFunc, instance []float64, opts ...ExplainOption) ([]FeatureWeight, error) {
	exp, err := l.ExplainInstance(predict, instance, opts...)
	if err != nil {
		return nil, err
	}
	label := 1
	if exp.Mode == lime.ModeClassification {
		if _, ok := exp.LocalExp[1]; !ok {
			labels, err := exp.AvailableLabels()
			if err != nil {
				return nil, err
			}
			label = labels[0]
		}
	}
	return exp.AsList(label)
}

// ExplainInstance returns the full explanation, including every explained label.
func (l *LimeTabularExplainer) ExplainInstance(predict PredictFunc, instance []float64, opts ...ExplainOption) (*lime.Explanation, error) {
	if l.engine == nil {
		return nil, ErrExplainerUninitialized
	}
	ec := lime.ExplainConfig{NumFeatures: NumTopFeatures}
	for _, o := range opts {
		o(&ec)
	}
	return l.engine.Explain(predict, instance, ec)
}

// Save writes the engine to path, replacing any existing file.
func (l *LimeTabularExplainer) Save(path string) error {
	if l.engine == nil {
		return ErrExplainerUninitialized
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(l.engine); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load replaces the engine with the one stored at path. On error the
// explainer is left unchanged.
func (l *LimeTabularExplainer) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	engine := &lime.TabularExplainer{}
	if err := gob.NewDecoder(f).Decode(engine); err != nil {
		return err
	}
	l.engine = engine
	return nil
}
