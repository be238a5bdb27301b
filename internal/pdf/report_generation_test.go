package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/internal/models"
)

func TestGeneratePerformanceReport(t *testing.T) {
	root := t.TempDir()
	gen := NewReportGenerator(root)

	path, err := gen.GeneratePerformanceReport("2025-03", []models.RepPerformance{
		{RepID: 9, RepName: "A. Rep", Target: 1000, Total: 750, SalesCount: 12, Attainment: 0.75},
		{RepID: 10, RepName: "B. Rep", Target: 0, Total: 200, SalesCount: 3, Attainment: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "performance_2025-03.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestGeneratePerformanceReportEmpty(t *testing.T) {
	gen := NewReportGenerator(t.TempDir())
	path, err := gen.GeneratePerformanceReport("2025-04", nil)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
