// Package lime explains individual predictions of tabular models by fitting a
// weighted linear surrogate to perturbed samples drawn around the instance.
package lime

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Modes accepted by NewTabularExplainer.
const (
	ModeClassification = "classification"
	ModeRegression     = "regression"
)

const (
	defaultNumFeatures    = 5
	defaultNumSamples     = 5000
	defaultDistanceMetric = "euclidean"
	defaultSampling       = "gaussian"
	defaultSelection      = "auto"
	defaultDiscretizer    = "quartile"
)

var (
	discretizers    = []string{"quartile", "decile", "entropy"}
	selections      = []string{"none", "forward_selection", "highest_weights", "lasso_path", "auto"}
	samplingMethods = []string{"gaussian", "lhs"}
)

// Config holds everything a TabularExplainer captures at construction time.
// Empty strings and nil pointers select the defaults.
type Config struct {
	Mode                 string
	TrainingLabels       []int
	FeatureNames         []string
	CategoricalFeatures  []int
	CategoricalNames     map[int][]string
	KernelWidth          *float64 // nil: sqrt(number of features) * 0.75
	Verbose              bool
	ClassNames           []string
	FeatureSelection     string
	DiscretizeContinuous bool
	Discretizer          string
	SampleAroundInstance bool
	RandomState          *int64
}

// ExplainConfig holds the per-call parameters of Explain.
type ExplainConfig struct {
	Labels         []int // default [1]; ignored for regression
	TopLabels      int   // when > 0, explain the k most probable labels instead of Labels
	NumFeatures    int
	NumSamples     int
	DistanceMetric string
	SamplingMethod string
}

func (c *Config) resolve(numFeatures int) error {
	if c.Mode != ModeClassification && c.Mode != ModeRegression {
		return fmt.Errorf("lime: invalid mode %q", c.Mode)
	}
	if c.FeatureSelection == "" {
		c.FeatureSelection = defaultSelection
	}
	if !slices.Contains(selections, c.FeatureSelection) {
		return fmt.Errorf("lime: unknown feature selection %q", c.FeatureSelection)
	}
	if c.Discretizer == "" {
		c.Discretizer = defaultDiscretizer
	}
	if c.DiscretizeContinuous && !slices.Contains(discretizers, c.Discretizer) {
		return fmt.Errorf("lime: discretizer must be one of %v, got %q", discretizers, c.Discretizer)
	}
	if c.FeatureNames == nil {
		c.FeatureNames = make([]string, numFeatures)
		for i := range c.FeatureNames {
			c.FeatureNames[i] = fmt.Sprint(i)
		}
	} else if len(c.FeatureNames) != numFeatures {
		return fmt.Errorf("lime: %d feature names for %d columns", len(c.FeatureNames), numFeatures)
	}
	for _, j := range c.CategoricalFeatures {
		if j < 0 || j >= numFeatures {
			return fmt.Errorf("lime: categorical feature %d out of range", j)
		}
	}
	if c.KernelWidth == nil {
		w := math.Sqrt(float64(numFeatures)) * 0.75
		c.KernelWidth = &w
	} else if *c.KernelWidth <= 0 {
		return errors.New("lime: kernel width must be positive")
	}
	return nil
}

func (c *ExplainConfig) resolve() error {
	if c.Labels == nil {
		c.Labels = []int{1}
	}
	if c.NumFeatures == 0 {
		c.NumFeatures = defaultNumFeatures
	}
	if c.NumFeatures < 0 {
		return errors.New("lime: number of features must be positive")
	}
	if c.NumSamples == 0 {
		c.NumSamples = defaultNumSamples
	}
	if c.NumSamples < 0 {
		return errors.New("lime: number of samples must be positive")
	}
	if c.DistanceMetric == "" {
		c.DistanceMetric = defaultDistanceMetric
	}
	if _, ok := metrics[c.DistanceMetric]; !ok {
		return fmt.Errorf("lime: unknown distance metric %q", c.DistanceMetric)
	}
	if c.SamplingMethod == "" {
		c.SamplingMethod = defaultSampling
	}
	if !slices.Contains(samplingMethods, c.SamplingMethod) {
		return fmt.Errorf("lime: unknown sampling method %q", c.SamplingMethod)
	}
	return nil
}
