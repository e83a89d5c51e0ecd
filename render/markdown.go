package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codexplain/codexplain/explain"
)

// WriteFileDocs writes one markdown document per result into outDir,
// mirroring the project's directory layout. It returns the written paths.
func WriteFileDocs(results []explain.Result, outDir string) ([]string, error) {
	var written []string
	for _, result := range results {
		docPath := filepath.Join(outDir, result.File.RelativePath+".md")
		if err := os.MkdirAll(filepath.Dir(docPath), 0755); err != nil {
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(docPath, []byte(fileDoc(result)), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", docPath, err)
		}
		written = append(written, docPath)
	}
	return written, nil
}

// WriteProjectDoc writes the single codebase-level document.
func WriteProjectDoc(result explain.Result, meta explain.ProjectMeta, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	docPath := filepath.Join(outDir, explain.ProjectArchitectureID+".md")

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", meta.Name)
	fmt.Fprintf(&b, "> %d files · %s · generated %s\n\n", meta.FileCount, strings.Join(meta.Languages, ", "), time.Now().Format("2006-01-02"))
	b.WriteString(result.Explanation)
	b.WriteString("\n")

	if err := os.WriteFile(docPath, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", docPath, err)
	}
	return docPath, nil
}

func fileDoc(result explain.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", result.File.RelativePath)
	fmt.Fprintf(&b, "> Language: %s", result.File.Language)
	if result.Cached {
		b.WriteString(" · served from cache")
	}
	b.WriteString("\n\n")
	b.WriteString(result.Explanation)
	b.WriteString("\n")
	return b.String()
}
