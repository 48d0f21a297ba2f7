package compiler

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/kuzeydev/contextual-ai/pkg/data"
	"github.com/kuzeydev/contextual-ai/pkg/dataprep"
	"github.com/kuzeydev/contextual-ai/pkg/stats"
)

type componentFunc func(c *Controller, attr map[string]any) ([]Block, error)

var components = map[string]componentFunc{
	"DataStatisticsAnalysis":   dataStatistics,
	"DataMissingValueAnalysis": missingValues,
	"CorrelationAnalysis":      correlation,
	"OutlierAnalysis":          outliers,
}

const defaultMaxCategories = 20

func num(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func percent(v float64) string { return strconv.FormatFloat(v*100, 'f', 1, 64) + "%" }

// dataStatistics summarises every column of the dataset, with a histogram per
// numeric column, a bar chart per low-cardinality text column and the
// distribution of the label column when one is named.
func dataStatistics(c *Controller, attr map[string]any) ([]Block, error) {
	f, err := c.frame(attr)
	if err != nil {
		return nil, err
	}
	label := attrString(attr, "label", "")
	if label != "" && f.Index(label) < 0 {
		return nil, fmt.Errorf("unknown label column %q", label)
	}
	maxCategories := int(attrFloat(attr, "max_categories", defaultMaxCategories))

	blocks := []Block{textBlock("The dataset has %d rows and %d columns.", f.Len(), len(f.Headers))}
	var summary, numeric, categorical [][]string
	var charts []Block
	for _, name := range f.Headers {
		col, _ := f.Column(name)
		values, counts, missing := countStrings(col)

		kind := "text"
		switch {
		case f.IsNumeric(name):
			kind = "numeric"
		case len(values) <= maxCategories:
			kind = "categorical"
		}
		summary = append(summary, []string{name, kind, strconv.Itoa(missing), strconv.Itoa(len(values))})

		switch kind {
		case "numeric":
			nums, _, _ := f.Numeric(name)
			lo, hi := stats.MinMax(nums)
			q := stats.Percentiles(nums, 25, 50, 75)
			numeric = append(numeric, []string{
				name, strconv.Itoa(len(nums)), num(stats.Mean(nums)), num(stats.Std(nums)),
				num(lo), num(q[0]), num(q[1]), num(q[2]), num(hi),
				num(stats.Skewness(nums)), num(stats.Kurtosis(nums)),
			})
			if name == label {
				continue
			}
			p, err := histogram(name, nums)
			if err != nil {
				return nil, err
			}
			charts = append(charts, chartBlock("Distribution of "+name, "hist-"+slug(name), p))
		case "categorical", "text":
			top := "-"
			freq := 0
			if len(values) > 0 {
				top, freq = values[0], counts[0]
			}
			categorical = append(categorical, []string{name, strconv.Itoa(len(values)), top, strconv.Itoa(freq)})
			if kind == "text" || name == label || len(values) == 0 {
				continue
			}
			p, err := barChart(name, values, intsToFloats(counts))
			if err != nil {
				return nil, err
			}
			charts = append(charts, chartBlock("Frequencies of "+name, "bar-"+slug(name), p))
		}
	}

	blocks = append(blocks, tableBlock("Column summary", []string{"Column", "Type", "Missing", "Distinct"}, summary))
	if len(numeric) > 0 {
		blocks = append(blocks, tableBlock("Numeric columns",
			[]string{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max", "Skewness", "Kurtosis"}, numeric))
	}
	if len(categorical) > 0 {
		blocks = append(blocks, tableBlock("Categorical columns", []string{"Column", "Distinct", "Top", "Frequency"}, categorical))
	}
	if label != "" {
		col, _ := f.Column(label)
		values, counts, _ := countStrings(col)
		total := 0
		for _, n := range counts {
			total += n
		}
		rows := make([][]string, len(values))
		for i, v := range values {
			rows[i] = []string{v, strconv.Itoa(counts[i]), percent(float64(counts[i]) / float64(total))}
		}
		blocks = append(blocks, tableBlock("Label distribution: "+label, []string{"Value", "Count", "Ratio"}, rows))
		p, err := barChart(label, values, intsToFloats(counts))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, chartBlock("Distribution of "+label, "label-"+slug(label), p))
	}
	return append(blocks, charts...), nil
}

// missingValues reports how much of each column is missing and the
// imputation strategy the preprocessing pipeline would apply.
func missingValues(c *Controller, attr map[string]any) ([]Block, error) {
	f, err := c.frame(attr)
	if err != nil {
		return nil, err
	}
	threshold := attrFloat(attr, "threshold", 0.5)
	var keep []string
	if label := attrString(attr, "label", ""); label != "" {
		keep = append(keep, label)
	}

	scratch, err := f.Select(f.Headers...)
	if err != nil {
		return nil, err
	}
	_, actions, err := dataprep.HandleMissingValues(scratch, threshold, keep...)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	var names []string
	var ratios []float64
	for _, a := range actions {
		missing := int(math.Round(a.MissingRatio * float64(f.Len())))
		rows = append(rows, []string{a.Column, strconv.Itoa(missing), percent(a.MissingRatio), a.Strategy})
		if missing > 0 {
			names = append(names, a.Column)
			ratios = append(ratios, a.MissingRatio)
		}
	}
	blocks := []Block{
		textBlock("Columns missing more than %s of their values are dropped.", percent(threshold)),
		tableBlock("Missing values", []string{"Column", "Missing", "Ratio", "Strategy"}, rows),
	}
	if len(names) == 0 {
		return append(blocks, textBlock("No values are missing.")), nil
	}
	p, err := barChart("missing ratio", names, ratios)
	if err != nil {
		return nil, err
	}
	return append(blocks, chartBlock("Missing ratio per column", "missing", p)), nil
}

// correlation computes Pearson correlations between numeric columns over the
// rows where both values are present, and plots the most correlated pair.
func correlation(c *Controller, attr map[string]any) ([]Block, error) {
	f, err := c.frame(attr)
	if err != nil {
		return nil, err
	}
	var names []string
	var cols [][]float64
	var present [][]bool
	for _, name := range f.Headers {
		if !f.IsNumeric(name) {
			continue
		}
		values, ok := numericCells(f, name)
		names = append(names, name)
		cols = append(cols, values)
		present = append(present, ok)
	}
	if len(names) < 2 {
		return []Block{textBlock("Fewer than two numeric columns, no correlations to report.")}, nil
	}

	pair := func(i, j int) (x, y []float64) {
		for r := range cols[i] {
			if present[i][r] && present[j][r] {
				x = append(x, cols[i][r])
				y = append(y, cols[j][r])
			}
		}
		return x, y
	}
	rows := make([][]string, len(names))
	bestI, bestJ, best := -1, -1, -1.0
	for i := range names {
		rows[i] = append([]string{names[i]}, make([]string, len(names))...)
		for j := range names {
			if i == j {
				rows[i][j+1] = num(1)
				continue
			}
			r := stats.Correlation(pair(i, j))
			rows[i][j+1] = num(r)
			if j > i && math.Abs(r) > best {
				bestI, bestJ, best = i, j, math.Abs(r)
			}
		}
	}

	blocks := []Block{tableBlock("Pearson correlation", append([]string{""}, names...), rows)}
	x, y := pair(bestI, bestJ)
	blocks = append(blocks, textBlock("The strongest linear relation is between %s and %s (|r| = %s).", names[bestI], names[bestJ], num(best)))
	p, err := scatter(names[bestI]+" vs "+names[bestJ], names[bestI], names[bestJ], x, y)
	if err != nil {
		return nil, err
	}
	return append(blocks, chartBlock(names[bestI]+" against "+names[bestJ], "scatter", p)), nil
}

// outliers counts values outside the Tukey fences of each numeric column.
func outliers(c *Controller, attr map[string]any) ([]Block, error) {
	f, err := c.frame(attr)
	if err != nil {
		return nil, err
	}
	k := attrFloat(attr, "k", 1.5)

	var rows [][]string
	for _, name := range f.Headers {
		values, _, ok := f.Numeric(name)
		if !ok || len(values) == 0 {
			continue
		}
		low, high := stats.IQRFences(values, k)
		below, above := stats.CountOutliers(values, k)
		rows = append(rows, []string{name, num(low), num(high), strconv.Itoa(below), strconv.Itoa(above),
			percent(float64(below+above) / float64(len(values)))})
	}
	return []Block{
		textBlock("Values below q1 - %s*IQR or above q3 + %s*IQR count as outliers.", num(k), num(k)),
		tableBlock("Outliers", []string{"Column", "Low fence", "High fence", "Below", "Above", "Share"}, rows),
	}, nil
}

// countStrings returns the distinct present values of col, most frequent
// first, their counts and the number of missing cells.
func countStrings(col []string) (values []string, counts []int, missing int) {
	seen := map[string]int{}
	for _, v := range col {
		if data.IsMissing(v) {
			missing++
			continue
		}
		seen[v]++
	}
	for v := range seen {
		values = append(values, v)
	}
	sort.Slice(values, func(a, b int) bool {
		if seen[values[a]] != seen[values[b]] {
			return seen[values[a]] > seen[values[b]]
		}
		return values[a] < values[b]
	})
	counts = make([]int, len(values))
	for i, v := range values {
		counts[i] = seen[v]
	}
	return values, counts, missing
}

// numericCells parses a numeric column cell by cell, flagging missing cells.
func numericCells(f *data.Frame, name string) ([]float64, []bool) {
	col, _ := f.Column(name)
	values := make([]float64, len(col))
	ok := make([]bool, len(col))
	for i, v := range col {
		if data.IsMissing(v) {
			continue
		}
		if x, err := strconv.ParseFloat(v, 64); err == nil {
			values[i], ok[i] = x, true
		}
	}
	return values, ok
}

func intsToFloats(x []int) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}
