package pipeline

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/kuzeydev/contextual-ai/pkg/data"
	"github.com/kuzeydev/contextual-ai/pkg/dataprep"
)

// Step transforms a frame.
type Step interface {
	Apply(f *data.Frame) (*data.Frame, error)
}

// StepFunc adapts a function to Step.
type StepFunc func(f *data.Frame) (*data.Frame, error)

func (fn StepFunc) Apply(f *data.Frame) (*data.Frame, error) { return fn(f) }

// Pipeline chains multiple steps.
type Pipeline struct {
	steps []Step
}

func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Run applies every step in order.
func (p *Pipeline) Run(f *data.Frame) (*data.Frame, error) {
	var err error
	for _, step := range p.steps {
		if f, err = step.Apply(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// DropColumns removes the named columns. Unknown names are ignored.
func DropColumns(names ...string) Step {
	return StepFunc(func(f *data.Frame) (*data.Frame, error) {
		var keep []string
		for _, h := range f.Headers {
			if !slices.Contains(names, h) {
				keep = append(keep, h)
			}
		}
		return f.Select(keep...)
	})
}

// DropMissingRows removes rows with a missing cell in any of the named columns.
func DropMissingRows(names ...string) Step {
	return StepFunc(func(f *data.Frame) (*data.Frame, error) {
		idx := make([]int, len(names))
		for k, n := range names {
			if idx[k] = f.Index(n); idx[k] < 0 {
				return nil, fmt.Errorf("pipeline: unknown column %q", n)
			}
		}
		out := &data.Frame{Headers: f.Headers}
		for _, row := range f.Rows {
			if !slices.ContainsFunc(idx, func(j int) bool { return data.IsMissing(row[j]) }) {
				out.Rows = append(out.Rows, row)
			}
		}
		return out, nil
	})
}

// ImputeMissing fills or drops incomplete columns, leaving the keep columns alone.
func ImputeMissing(threshold float64, keep ...string) Step {
	return StepFunc(func(f *data.Frame) (*data.Frame, error) {
		out, _, err := dataprep.HandleMissingValues(f, threshold, keep...)
		return out, err
	})
}

// Dataset is a frame encoded for model training.
type Dataset struct {
	X      [][]float64
	Schema Schema
	// classification targets and their original labels
	Labels     []int
	ClassNames []string
	// regression targets
	Targets []float64
}

// Encode turns every column except label into a numeric feature; text columns
// are label encoded and marked categorical. For classification the label
// column is label encoded too, for regression it must be numeric.
func Encode(f *data.Frame, label string, classification bool) (*Dataset, error) {
	if f.Index(label) < 0 {
		return nil, fmt.Errorf("pipeline: unknown label column %q", label)
	}
	ds := &Dataset{
		X:      make([][]float64, f.Len()),
		Schema: Schema{CategoricalNames: map[int][]string{}},
	}
	for i := range ds.X {
		ds.X[i] = []float64{}
	}

	for _, name := range f.Headers {
		col, _ := f.Column(name)
		if name == label {
			if err := ds.encodeTarget(name, col, classification); err != nil {
				return nil, err
			}
			continue
		}
		j := len(ds.Schema.ColumnNames)
		ds.Schema.ColumnNames = append(ds.Schema.ColumnNames, name)
		if f.IsNumeric(name) {
			values, err := parseColumn(name, col)
			if err != nil {
				return nil, err
			}
			for i, v := range values {
				ds.X[i] = append(ds.X[i], v)
			}
			continue
		}
		codes, categories := dataprep.LabelEncode(col)
		ds.Schema.CategoricalFeatures = append(ds.Schema.CategoricalFeatures, j)
		ds.Schema.CategoricalNames[j] = categories
		for i, c := range codes {
			ds.X[i] = append(ds.X[i], float64(c))
		}
	}
	return ds, nil
}

func (ds *Dataset) encodeTarget(name string, col []string, classification bool) error {
	if !classification {
		values, err := parseColumn(name, col)
		if err != nil {
			return err
		}
		ds.Targets = values
		return nil
	}
	ds.Labels, ds.ClassNames = dataprep.LabelEncode(col)
	return nil
}

func parseColumn(name string, col []string) ([]float64, error) {
	out := make([]float64, len(col))
	for i, v := range col {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("pipeline: column %q row %d: %w", name, i, err)
		}
		out[i] = x
	}
	return out, nil
}
