package dataprep

import (
	"sort"
	"strconv"

	"github.com/kuzeydev/contextual-ai/pkg/data"
	"github.com/kuzeydev/contextual-ai/pkg/model"
	"github.com/kuzeydev/contextual-ai/pkg/stats"
)

// ---------- Simple Imputation Methods ----------

func presentNumbers(col []string) []float64 {
	var nums []float64
	for _, v := range col {
		if data.IsMissing(v) {
			continue
		}
		if num, err := strconv.ParseFloat(v, 64); err == nil {
			nums = append(nums, num)
		}
	}
	return nums
}

func format(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// ImputeMean replaces missing numeric values with column mean.
func ImputeMean(col []string) []string {
	return ImputeConstant(col, format(stats.Mean(presentNumbers(col))))
}

// ImputeMedian replaces missing numeric values with column median.
func ImputeMedian(col []string) []string {
	return ImputeConstant(col, format(stats.Median(presentNumbers(col))))
}

// ImputeMode replaces missing values with the most frequent present value.
// Ties go to the value that sorts first.
func ImputeMode(col []string) []string {
	counts := map[string]int{}
	for _, v := range col {
		if !data.IsMissing(v) {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return col
	}
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)
	mode := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[mode] {
			mode = v
		}
	}
	return ImputeConstant(col, mode)
}

// ImputeConstant replaces missing values with a fixed constant.
func ImputeConstant(col []string, constant string) []string {
	for i, v := range col {
		if data.IsMissing(v) {
			col[i] = constant
		}
	}
	return col
}

// ---------- Advanced Imputation Methods ----------

// ImputeKNN fills the missing cells of the target column with the mean of the
// k nearest rows that have a value, measured over the other numeric columns.
// Missing cells in those columns count as the column mean.
func ImputeKNN(f *data.Frame, target string, k int) ([]string, error) {
	col, err := f.Column(target)
	if err != nil {
		return nil, err
	}

	var features [][]float64
	for _, name := range f.Headers {
		if name == target || !f.IsNumeric(name) {
			continue
		}
		c, _ := f.Column(name)
		filled := ImputeMean(c)
		values := make([]float64, len(filled))
		for i, v := range filled {
			values[i], _ = strconv.ParseFloat(v, 64)
		}
		features = append(features, values)
	}
	rows := make([][]float64, len(col))
	for i := range rows {
		rows[i] = make([]float64, len(features))
		for j, c := range features {
			rows[i][j] = c[i]
		}
	}

	var X, missing [][]float64
	var y []float64
	var at []int
	for i, v := range col {
		if data.IsMissing(v) {
			missing = append(missing, rows[i])
			at = append(at, i)
			continue
		}
		num, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		X = append(X, rows[i])
		y = append(y, num)
	}
	if len(at) == 0 {
		return col, nil
	}
	if len(X) == 0 {
		return ImputeConstant(col, "0"), nil
	}

	knn := model.NewKNNRegressor(k)
	if err := knn.Fit(X, y); err != nil {
		return nil, err
	}
	for n, v := range knn.Predict(missing) {
		col[at[n]] = format(v)
	}
	return col, nil
}
