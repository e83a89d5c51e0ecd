package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// DetectLanguage returns a lowercase language tag for a filename, using
// chroma's lexer registry and falling back to the bare file extension.
func DetectLanguage(filename string) string {
	if lexer := lexers.Match(filepath.Base(filename)); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "text"
	}
	return strings.ToLower(ext)
}
