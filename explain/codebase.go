package explain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codexplain/codexplain/analyzer"
	"github.com/codexplain/codexplain/tokens"
)

// ProjectArchitectureID is the synthetic cache identifier for the
// codebase-level synthesis result. It is not a real file path, so the
// fingerprint cache always treats it as a miss.
const ProjectArchitectureID = "project-architecture"

// ProjectMeta is the lightweight project metadata included in the
// codebase-level synthesis prompt.
type ProjectMeta struct {
	Name      string
	Root      string
	FileCount int
	Languages []string
}

// RunCodebase produces one project-level explanation in two phases:
// a batched summary pass over every file (the engine's mode transiently
// overridden per call, never mutated), then a single synthesis call that
// pushes all summaries plus project metadata through the identical
// cache→prompt→retry→store path as one logical unit.
func (e *Engine) RunCodebase(ctx context.Context, files []*analyzer.FileDescriptor, meta ProjectMeta, onProgress ProgressFunc) (Result, tokens.RunUsage) {
	accountant := tokens.NewAccountant()

	summaries := e.run(ctx, files, ModeSummary, accountant, onProgress)

	document := assembleProjectDocument(meta, summaries)
	synthetic := &analyzer.FileDescriptor{
		Path:         ProjectArchitectureID,
		RelativePath: ProjectArchitectureID,
		Content:      document,
		ContentHash:  analyzer.HashContent(document),
		Language:     "markdown",
		Size:         int64(len(document)),
		ModTime:      time.Now(),
	}

	result := e.processFile(ctx, synthetic, e.opts.Mode, accountant)
	return result, accountant.Snapshot()
}

// assembleProjectDocument combines project metadata and the per-file
// summaries into the synthesis input. Failed summaries already carry
// their error text in Explanation and are included as-is.
func assembleProjectDocument(meta ProjectMeta, summaries []Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Project: %s\n\n", meta.Name)
	fmt.Fprintf(&b, "Root: %s\n", meta.Root)
	fmt.Fprintf(&b, "Files: %d\n", meta.FileCount)
	fmt.Fprintf(&b, "Languages: %s\n\n", strings.Join(meta.Languages, ", "))

	for _, summary := range summaries {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", summary.File.RelativePath, summary.Explanation)
	}
	return b.String()
}
