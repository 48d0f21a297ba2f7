package pipeline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuzeydev/contextual-ai/pkg/data"
)

const passengers = `PassengerId,Survived,Pclass,Name,Sex,Age,Fare
1,0,3,"Braund, Mr. Owen Harris",male,22,7.25
2,1,1,"Cumings, Mrs. John Bradley",female,38,71.2833
3,1,3,"Heikkinen, Miss. Laina",female,,7.925
4,1,1,"Futrelle, Mrs. Jacques Heath",female,35,53.1
`

func TestPipeline_PreparesPassengers(t *testing.T) {
	f, err := data.ReadCSV(strings.NewReader(passengers))
	require.NoError(t, err)

	out, err := NewPipeline(
		DropColumns("PassengerId", "Name"),
		DropMissingRows("Age"),
	).Run(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Survived", "Pclass", "Sex", "Age", "Fare"}, out.Headers)
	assert.Equal(t, 3, out.Len())

	ds, err := Encode(out, "Survived", true)
	require.NoError(t, err)

	want := Schema{
		ColumnNames:         []string{"Pclass", "Sex", "Age", "Fare"},
		CategoricalFeatures: []int{1},
		CategoricalNames:    map[int][]string{1: {"female", "male"}},
	}
	if diff := cmp.Diff(want, ds.Schema); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []float64{3, 1, 22, 7.25}, ds.X[0])
	assert.Equal(t, []int{0, 1, 1}, ds.Labels)
	assert.Equal(t, []string{"0", "1"}, ds.ClassNames)
}

func TestEncode_Regression(t *testing.T) {
	f, err := data.ReadCSV(strings.NewReader("Fare,Sex\n7.25,male\n71.28,female\n"))
	require.NoError(t, err)

	ds, err := Encode(f, "Fare", false)
	require.NoError(t, err)
	assert.Equal(t, []float64{7.25, 71.28}, ds.Targets)
	assert.Equal(t, [][]float64{{1}, {0}}, ds.X)

	_, err = Encode(f, "Sex", false)
	assert.Error(t, err)
	_, err = Encode(f, "Cabin", true)
	assert.Error(t, err)
}

func TestPipeline_ImputeMissing(t *testing.T) {
	f, err := data.ReadCSV(strings.NewReader(passengers))
	require.NoError(t, err)

	out, err := NewPipeline(ImputeMissing(0.5, "Survived")).Run(f)
	require.NoError(t, err)
	age, missing, ok := out.Numeric("Age")
	assert.True(t, ok)
	assert.Zero(t, missing)
	assert.Len(t, age, 4)

	_, err = NewPipeline(DropMissingRows("Cabin")).Run(f)
	assert.Error(t, err)
}
