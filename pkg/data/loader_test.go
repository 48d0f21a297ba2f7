package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Survived,Name,Age,Sex
0,"Braund, Mr. Owen Harris",22,male
1,"Cumings, Mrs. John Bradley",,female
1,"Heikkinen, Miss. Laina",26,female
`

func TestReadCSV_ParsesQuotedCellsAndHeader(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"Survived", "Name", "Age", "Sex"}, f.Headers)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, "Braund, Mr. Owen Harris", f.Rows[0][1])
	assert.Equal(t, 2, f.Index("Age"))
	assert.Equal(t, -1, f.Index("Cabin"))
}

func TestFrame_Numeric(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sample))
	require.NoError(t, err)

	values, missing, ok := f.Numeric("Age")
	assert.True(t, ok)
	assert.Equal(t, []float64{22, 26}, values)
	assert.Equal(t, 1, missing)

	_, _, ok = f.Numeric("Sex")
	assert.False(t, ok)
	assert.True(t, f.IsNumeric("Survived"))
	assert.False(t, f.IsNumeric("Name"))
}

func TestFrame_SelectAndSetColumn(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(sample))
	require.NoError(t, err)

	sub, err := f.Select("Sex", "Survived")
	require.NoError(t, err)
	assert.Equal(t, []string{"male", "0"}, sub.Rows[0])

	require.NoError(t, sub.SetColumn("Sex", []string{"m", "f", "f"}))
	col, err := sub.Column("Sex")
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "f", "f"}, col)
	assert.Equal(t, "male", f.Rows[0][3], "select copies cells")

	_, err = f.Select("Cabin")
	assert.Error(t, err)
	assert.Error(t, sub.SetColumn("Sex", []string{"x"}))
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", " ", "NA", "NaN"} {
		assert.True(t, IsMissing(v), v)
	}
	assert.False(t, IsMissing("0"))
}
