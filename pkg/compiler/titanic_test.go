package compiler

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const titanicTemplate = "../../sample_template/data-statistics-analysis_titanic.json"

func TestDataStatisticsAnalysisTitanic_GeneratesReport(t *testing.T) {
	cfg, err := NewConfiguration(titanicTemplate)
	require.NoError(t, err)

	out := t.TempDir()
	require.NoError(t, NewController(cfg, WithOutputDir(out)).Render())

	assert.FileExists(t, filepath.Join(out, "titanic-data-statistics-report.html"))
	assert.FileExists(t, filepath.Join(out, "titanic-data-statistics-report.md"))
}

func TestDataStatisticsAnalysisTitanic_MissingTemplate(t *testing.T) {
	_, err := NewConfiguration(filepath.Join(t.TempDir(), "data-statistics-analysis_titanic.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
