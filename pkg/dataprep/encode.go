package dataprep

import "sort"

// LabelEncode maps each category to its index in the sorted list of distinct
// categories, which is returned alongside the codes.
func LabelEncode(col []string) ([]int, []string) {
	seen := map[string]struct{}{}
	for _, v := range col {
		seen[v] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for v := range seen {
		categories = append(categories, v)
	}
	sort.Strings(categories)

	index := make(map[string]int, len(categories))
	for i, v := range categories {
		index[v] = i
	}
	out := make([]int, len(col))
	for i, v := range col {
		out[i] = index[v]
	}
	return out, categories
}

// FeatureSelect selects columns by indices.
func FeatureSelect(X [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		selected := make([]float64, len(indices))
		for j, idx := range indices {
			selected[j] = row[idx]
		}
		out[i] = selected
	}
	return out
}
