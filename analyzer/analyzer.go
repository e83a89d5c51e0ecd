package analyzer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize skips files larger than 100 KB; big generated files
// blow up prompt sizes without improving explanations.
const DefaultMaxFileSize = 100 * 1024

// Options controls which files a scan picks up.
type Options struct {
	// Extensions is an allow-list like [".go", ".py"]. Empty means all.
	Extensions []string
	// Excludes are gitignore-like patterns applied on top of the
	// built-in ignores and the project ignore file.
	Excludes []string
	// MaxFileSize in bytes; zero means DefaultMaxFileSize.
	MaxFileSize int64
}

// Analyzer discovers the source files of a project and produces the
// descriptors consumed by the explanation scheduler.
type Analyzer struct {
	root string
	opts Options
}

// NewAnalyzer creates an Analyzer rooted at the given directory.
func NewAnalyzer(root string, opts Options) *Analyzer {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	return &Analyzer{root: root, opts: opts}
}

// Root returns the project root the analyzer scans.
func (a *Analyzer) Root() string {
	return a.root
}

// Scan walks the project tree and returns one descriptor per matching file,
// in deterministic path order. Content is read eagerly; the scheduler clears
// it once the file settles.
func (a *Analyzer) Scan() ([]*FileDescriptor, error) {
	ignorePatterns, err := loadIgnorePatterns(a.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFileName, err)
	}

	var files []*FileDescriptor
	err = filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(a.root, path)
		if err != nil {
			return err
		}
		relativePath = filepath.ToSlash(relativePath)
		if relativePath == "." {
			return nil
		}

		if isDefaultIgnored(relativePath) ||
			matchesPatterns(relativePath, ignorePatterns) ||
			matchesPatterns(relativePath, a.opts.Excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !a.extensionAllowed(relativePath) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", relativePath, err)
		}
		if info.Size() > a.opts.MaxFileSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", relativePath, err)
		}

		files = append(files, &FileDescriptor{
			Path:         path,
			RelativePath: relativePath,
			Content:      string(content),
			ContentHash:  HashContent(string(content)),
			Language:     DetectLanguage(path),
			Size:         info.Size(),
			ModTime:      info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
	return files, nil
}

func (a *Analyzer) extensionAllowed(relativePath string) bool {
	if len(a.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(relativePath))
	for _, allowed := range a.opts.Extensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// Languages returns the distinct language tags of a descriptor set, sorted.
func Languages(files []*FileDescriptor) []string {
	seen := make(map[string]bool, len(files))
	var languages []string
	for _, fd := range files {
		if !seen[fd.Language] {
			seen[fd.Language] = true
			languages = append(languages, fd.Language)
		}
	}
	sort.Strings(languages)
	return languages
}
