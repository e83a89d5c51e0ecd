package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexplain/codexplain/analyzer"
	"github.com/codexplain/codexplain/explain"
)

func TestWriteFileDocs(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "docs")
	results := []explain.Result{
		{
			File:        &analyzer.FileDescriptor{RelativePath: "main.go", Language: "go"},
			Explanation: "explains main",
		},
		{
			File:        &analyzer.FileDescriptor{RelativePath: "pkg/util.go", Language: "go"},
			Explanation: "explains util",
			Cached:      true,
		},
	}

	written, err := WriteFileDocs(results, outDir)
	require.NoError(t, err)
	require.Len(t, written, 2)

	data, err := os.ReadFile(filepath.Join(outDir, "main.go.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# main.go")
	assert.Contains(t, string(data), "explains main")
	assert.NotContains(t, string(data), "served from cache")

	data, err = os.ReadFile(filepath.Join(outDir, "pkg", "util.go.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "served from cache")
	assert.Contains(t, string(data), "explains util")
}

func TestWriteProjectDoc(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "docs")
	result := explain.Result{
		File:        &analyzer.FileDescriptor{RelativePath: explain.ProjectArchitectureID},
		Explanation: "the architecture",
	}
	meta := explain.ProjectMeta{Name: "demo", FileCount: 7, Languages: []string{"go", "python"}}

	docPath, err := WriteProjectDoc(result, meta, outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, explain.ProjectArchitectureID+".md"), docPath)

	data, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# demo")
	assert.Contains(t, string(data), "7 files")
	assert.Contains(t, string(data), "go, python")
	assert.Contains(t, string(data), "the architecture")
}
