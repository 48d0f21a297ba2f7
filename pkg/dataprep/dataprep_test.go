package dataprep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuzeydev/contextual-ai/pkg/data"
)

func TestLabelEncode_SortedCategories(t *testing.T) {
	codes, categories := LabelEncode([]string{"S", "C", "S", "Q"})
	assert.Equal(t, []string{"C", "Q", "S"}, categories)
	assert.Equal(t, []int{2, 0, 2, 1}, codes)
}

func TestSimpleImputers(t *testing.T) {
	assert.Equal(t, []string{"1", "2.0000", "3"}, ImputeMean([]string{"1", "", "3"}))
	assert.Equal(t, []string{"1", "2", "10", "2.0000"}, ImputeMedian([]string{"1", "2", "10", "NA"}))
	assert.Equal(t, []string{"S", "C", "C", "C"}, ImputeMode([]string{"S", "C", "C", "NaN"}))
	assert.Equal(t, []string{"a", "a", "a"}, ImputeMode([]string{"b", "a", ""}), "ties go to the first value")
	assert.Equal(t, []string{"x", "Unknown"}, ImputeConstant([]string{"x", ""}, "Unknown"))
}

func TestImputeKNN_UsesNearestRows(t *testing.T) {
	f, err := data.ReadCSV(strings.NewReader("fare,age\n1,10\n2,12\n100,60\n1.5,\n"))
	require.NoError(t, err)

	col, err := ImputeKNN(f, "age", 2)
	require.NoError(t, err)
	assert.Equal(t, "11.0000", col[3])
}

func TestHandleMissingValues_ChoosesStrategies(t *testing.T) {
	csv := "Survived,Cabin,Embarked,Age\n" +
		"0,,S,22\n" +
		"1,C85,C,38\n" +
		"1,,S,26\n" +
		"1,C123,S,35\n" +
		"0,,S,\n" +
		"0,,Q,54\n" +
		"0,E46,S,2\n" +
		"1,,S,27\n" +
		"1,,C,14\n" +
		"1,G6,S,4\n" +
		"1,C103,S,58\n" +
		"0,,,20\n"
	f, err := data.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)

	out, actions, err := HandleMissingValues(f, 0.5, "Survived")
	require.NoError(t, err)

	assert.Equal(t, []string{"Survived", "Embarked", "Age"}, out.Headers)
	strategies := map[string]string{}
	for _, a := range actions {
		strategies[a.Column] = a.Strategy
	}
	assert.Equal(t, map[string]string{
		"Survived": StrategyNone,
		"Cabin":    StrategyDrop,
		"Embarked": StrategyMode,
		"Age":      StrategyKNN,
	}, strategies)

	embarked, err := out.Column("Embarked")
	require.NoError(t, err)
	assert.Equal(t, "S", embarked[11])
	age, _, ok := out.Numeric("Age")
	assert.True(t, ok)
	assert.Len(t, age, 12)
}

func TestFeatureSelect(t *testing.T) {
	X := [][]float64{{1, 2, 3}, {4, 5, 6}}
	assert.Equal(t, [][]float64{{3, 1}, {6, 4}}, FeatureSelect(X, []int{2, 0}))
}
