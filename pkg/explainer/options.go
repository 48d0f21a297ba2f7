package explainer

import "github.com/kuzeydev/contextual-ai/pkg/lime"

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	trainingLabels       []int
	columnNames          []string
	categoricalFeatures  []int
	categoricalNames     map[int][]string
	kernelWidth          *float64
	verbose              bool
	classNames           []string
	featureSelection     string
	discretizeContinuous bool
	discretizer          string
	sampleAroundInstance bool
	randomState          *int64
}

func defaultBuildConfig() buildConfig {
	return buildConfig{
		featureSelection:     "auto",
		discretizeContinuous: true,
		discretizer:          "quartile",
	}
}

// WithTrainingLabels passes labels to discretizers that need them.
func WithTrainingLabels(labels []int) BuildOption {
	return func(c *buildConfig) { c.trainingLabels = labels }
}

// WithColumnNames names the columns of the training data.
func WithColumnNames(names []string) BuildOption {
	return func(c *buildConfig) { c.columnNames = names }
}

// WithCategoricalFeatures marks the listed column indices as categorical.
func WithCategoricalFeatures(idx []int) BuildOption {
	return func(c *buildConfig) { c.categoricalFeatures = idx }
}

// WithCategoricalNames maps a categorical column to its value labels:
// names[j][v] is the label of value v in column j.
func WithCategoricalNames(names map[int][]string) BuildOption {
	return func(c *buildConfig) { c.categoricalNames = names }
}

// WithKernelWidth overrides the engine's default kernel width.
func WithKernelWidth(w float64) BuildOption {
	return func(c *buildConfig) { c.kernelWidth = &w }
}

// WithVerbose logs the intercept and local surrogate prediction of every
// explanation, whatever the logger's verbose setting. The setting is saved
// with the explainer.
func WithVerbose(v bool) BuildOption {
	return func(c *buildConfig) { c.verbose = v }
}

func WithClassNames(names []string) BuildOption {
	return func(c *buildConfig) { c.classNames = names }
}

// WithFeatureSelection picks none, forward_selection, highest_weights, lasso_path or auto.
func WithFeatureSelection(method string) BuildOption {
	return func(c *buildConfig) { c.featureSelection = method }
}

func WithDiscretizeContinuous(v bool) BuildOption {
	return func(c *buildConfig) { c.discretizeContinuous = v }
}

// WithDiscretizer picks quartile, decile or entropy.
func WithDiscretizer(kind string) BuildOption {
	return func(c *buildConfig) { c.discretizer = kind }
}

// WithSampleAroundInstance centres continuous perturbations on the instance
// instead of the training mean.
func WithSampleAroundInstance(v bool) BuildOption {
	return func(c *buildConfig) { c.sampleAroundInstance = v }
}

// WithRandomState seeds the engine so explanations are reproducible.
func WithRandomState(seed int64) BuildOption {
	return func(c *buildConfig) { c.randomState = &seed }
}

// ExplainOption configures Explain.
type ExplainOption func(*lime.ExplainConfig)

// WithLabels selects the class indices to explain. Defaults to [1].
func WithLabels(labels ...int) ExplainOption {
	return func(c *lime.ExplainConfig) { c.Labels = labels }
}

// WithTopLabels explains the k most probable classes and overrides WithLabels.
func WithTopLabels(k int) ExplainOption {
	return func(c *lime.ExplainConfig) { c.TopLabels = k }
}

// WithNumFeatures caps the length of the explanation. Zero means the
// default of NumTopFeatures; negative values are rejected by Explain.
func WithNumFeatures(n int) ExplainOption {
	return func(c *lime.ExplainConfig) { c.NumFeatures = n }
}

// WithNumSamples sets the neighbourhood size. Zero means the default of
// 5000; negative values are rejected by Explain.
func WithNumSamples(n int) ExplainOption {
	return func(c *lime.ExplainConfig) { c.NumSamples = n }
}

// WithDistanceMetric picks euclidean, manhattan, cityblock, cosine or chebyshev.
func WithDistanceMetric(name string) ExplainOption {
	return func(c *lime.ExplainConfig) { c.DistanceMetric = name }
}

// WithSamplingMethod picks gaussian or lhs.
func WithSamplingMethod(name string) ExplainOption {
	return func(c *lime.ExplainConfig) { c.SamplingMethod = name }
}
