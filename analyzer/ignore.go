package analyzer

import (
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is an optional per-project ignore file with
// gitignore-like patterns, one per line.
const IgnoreFileName = ".codexplain-ignore"

// defaultIgnorePatterns are always skipped regardless of configuration.
// Hidden files and directories are skipped separately.
var defaultIgnorePatterns = []string{
	"node_modules",
	"vendor",
	"bin",
	"obj",
	"dist",
	"out",
	"*.exe",
	"*.dll",
	"*.so",
	"*.log",
	"*.lock",
	"*.sum",
	"*.min.js",
	"*.map",
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.pdf",
	"*.zip",
}

// isDefaultIgnored reports whether any path segment is hidden or matches
// a built-in ignore pattern.
func isDefaultIgnored(relativePath string) bool {
	parts := strings.Split(relativePath, "/")
	for _, part := range parts {
		if strings.HasPrefix(part, ".") {
			return true
		}
		part = strings.ToLower(part)
		for _, pattern := range defaultIgnorePatterns {
			if strings.HasPrefix(pattern, "*") {
				if strings.HasSuffix(part, strings.TrimPrefix(pattern, "*")) {
					return true
				}
			} else if part == pattern {
				return true
			}
		}
	}
	return false
}

// loadIgnorePatterns reads the project ignore file if present. A missing
// file is not an error; the pipeline simply runs without extra patterns.
func loadIgnorePatterns(root string) ([]string, error) {
	ignorePath := filepath.Join(root, IgnoreFileName)
	content, err := os.ReadFile(ignorePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}

// matchesPatterns checks a relative path against gitignore-like patterns.
func matchesPatterns(relativePath string, patterns []string) bool {
	for _, pattern := range patterns {
		if match, _ := filepath.Match(pattern, relativePath); match {
			return true
		}
		if match, _ := filepath.Match(pattern, filepath.Base(relativePath)); match {
			return true
		}
		// Patterns like "docs/" ignore the whole directory.
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(relativePath, pattern) {
			return true
		}
	}
	return false
}
