package pipeline

// Schema describes the columns of an encoded feature matrix.
type Schema struct {
	ColumnNames         []string
	CategoricalFeatures []int
	// CategoricalNames[j][v] is the original label of code v in column j.
	CategoricalNames map[int][]string
}
