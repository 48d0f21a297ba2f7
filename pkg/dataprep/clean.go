package dataprep

import (
	"math"
	"slices"

	"github.com/kuzeydev/contextual-ai/internal/logger"
	"github.com/kuzeydev/contextual-ai/pkg/data"
	"github.com/kuzeydev/contextual-ai/pkg/stats"
)

// Imputation strategies chosen by HandleMissingValues.
const (
	StrategyNone     = "none"
	StrategyDrop     = "drop"
	StrategyMean     = "mean"
	StrategyMedian   = "median"
	StrategyKNN      = "knn"
	StrategyConstant = "constant"
	StrategyMode     = "mode"
)

const knnNeighbours = 3

// ColumnAction records what HandleMissingValues did to one column.
type ColumnAction struct {
	Column       string
	MissingRatio float64
	Strategy     string
}

// HandleMissingValues picks an imputation strategy per column from its type,
// its skew and how much of it is missing. Columns missing more than threshold
// are dropped. Columns listed in keep are never dropped or imputed.
func HandleMissingValues(f *data.Frame, threshold float64, keep ...string) (*data.Frame, []ColumnAction, error) {
	rows := f.Len()
	var kept []string
	var actions []ColumnAction
	for _, name := range f.Headers {
		col, _ := f.Column(name)
		missing := 0
		for _, v := range col {
			if data.IsMissing(v) {
				missing++
			}
		}
		ratio := 0.0
		if rows > 0 {
			ratio = float64(missing) / float64(rows)
		}
		action := ColumnAction{Column: name, MissingRatio: ratio, Strategy: StrategyNone}

		switch {
		case slices.Contains(keep, name) || missing == 0:
		case ratio > threshold:
			logger.Info("dropping column %s (%.2f%% missing)", name, ratio*100)
			action.Strategy = StrategyDrop
		default:
			filled, strategy, err := impute(f, name, col, ratio)
			if err != nil {
				return nil, nil, err
			}
			if err := f.SetColumn(name, filled); err != nil {
				return nil, nil, err
			}
			logger.Info("column %s: imputed with %s", name, strategy)
			action.Strategy = strategy
		}
		if action.Strategy != StrategyDrop {
			kept = append(kept, name)
		}
		actions = append(actions, action)
	}

	out, err := f.Select(kept...)
	if err != nil {
		return nil, nil, err
	}
	return out, actions, nil
}

func impute(f *data.Frame, name string, col []string, ratio float64) ([]string, string, error) {
	if !f.IsNumeric(name) {
		if ratio < 0.1 {
			return ImputeMode(col), StrategyMode, nil
		}
		return ImputeConstant(col, "Unknown"), StrategyConstant, nil
	}

	nums := presentNumbers(col)
	// skew heuristic: distance between mean and median in units of std
	skew := math.Abs(stats.Mean(nums)-stats.Median(nums)) / (stats.Std(nums) + 1e-9)
	switch {
	case ratio < 0.05:
		return ImputeMean(col), StrategyMean, nil
	case skew > 1.0:
		return ImputeMedian(col), StrategyMedian, nil
	case ratio < 0.2:
		filled, err := ImputeKNN(f, name, knnNeighbours)
		return filled, StrategyKNN, err
	}
	return ImputeConstant(col, "0"), StrategyConstant, nil
}
