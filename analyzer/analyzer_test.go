package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProjectFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func relativePaths(files []*FileDescriptor) []string {
	paths := make([]string, len(files))
	for i, fd := range files {
		paths[i] = fd.RelativePath
	}
	return paths
}

func TestAnalyzer_ScanBasics(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeProjectFile(t, root, "pkg/util.go", "package pkg\n")
	writeProjectFile(t, root, "scripts/run.py", "print('hi')\n")

	files, err := NewAnalyzer(root, Options{}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go", "pkg/util.go", "scripts/run.py"}, relativePaths(files))

	main := files[0]
	assert.Equal(t, filepath.Join(root, "main.go"), main.Path)
	assert.Equal(t, "package main\n\nfunc main() {}\n", main.Content)
	assert.Equal(t, HashContent(main.Content), main.ContentHash)
	assert.Equal(t, "go", main.Language)
	assert.Equal(t, int64(len(main.Content)), main.Size)
	assert.False(t, main.ModTime.IsZero())
}

func TestAnalyzer_ExtensionFilter(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "main.go", "package main\n")
	writeProjectFile(t, root, "run.py", "print('hi')\n")
	writeProjectFile(t, root, "notes.txt", "notes\n")

	files, err := NewAnalyzer(root, Options{Extensions: []string{".go", ".PY"}}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go", "run.py"}, relativePaths(files))
}

func TestAnalyzer_DefaultIgnores(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "main.go", "package main\n")
	writeProjectFile(t, root, "node_modules/lib/index.js", "x\n")
	writeProjectFile(t, root, ".git/config", "x\n")
	writeProjectFile(t, root, "vendor/dep/dep.go", "package dep\n")
	writeProjectFile(t, root, "app.min.js", "x\n")

	files, err := NewAnalyzer(root, Options{}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go"}, relativePaths(files))
}

func TestAnalyzer_ProjectIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, IgnoreFileName, "# generated\n*.gen.go\ndocs/\n")
	writeProjectFile(t, root, "main.go", "package main\n")
	writeProjectFile(t, root, "types.gen.go", "package main\n")
	writeProjectFile(t, root, "docs/readme.txt", "x\n")

	files, err := NewAnalyzer(root, Options{}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go"}, relativePaths(files))
}

func TestAnalyzer_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "main.go", "package main\n")
	writeProjectFile(t, root, "main_test.go", "package main\n")

	files, err := NewAnalyzer(root, Options{Excludes: []string{"*_test.go"}}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go"}, relativePaths(files))
}

func TestAnalyzer_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeProjectFile(t, root, "small.go", "package main\n")
	writeProjectFile(t, root, "big.go", strings.Repeat("a", 200))

	files, err := NewAnalyzer(root, Options{MaxFileSize: 100}).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"small.go"}, relativePaths(files))
}

func TestHashContent(t *testing.T) {
	assert.Equal(t, HashContent("abc"), HashContent("abc"))
	assert.NotEqual(t, HashContent("abc"), HashContent("abd"))
	assert.Len(t, HashContent(""), 64)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "go", DetectLanguage("main.go"))
	assert.Equal(t, "python", DetectLanguage("run.py"))
	assert.Equal(t, "unknownext", DetectLanguage("file.unknownext"))
	assert.Equal(t, "text", DetectLanguage("LICENSE"))
}

func TestLanguages(t *testing.T) {
	files := []*FileDescriptor{
		{Language: "go"},
		{Language: "python"},
		{Language: "go"},
	}
	assert.Equal(t, []string{"go", "python"}, Languages(files))
}
