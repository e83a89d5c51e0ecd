package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexplain/codexplain/analyzer"
	"github.com/codexplain/codexplain/explain"
)

func testFile(content string) *analyzer.FileDescriptor {
	return &analyzer.FileDescriptor{
		Path:         "/project/pkg/util.go",
		RelativePath: "pkg/util.go",
		Content:      content,
		Language:     "go",
	}
}

func TestBuilder_ExplainMode(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	system, user, err := builder.Build(testFile("package pkg\n"), explain.ModeExplain, "beginner")
	require.NoError(t, err)

	assert.Contains(t, system, "beginner")
	assert.Contains(t, user, "File: pkg/util.go")
	assert.Contains(t, user, "Language: go")
	assert.Contains(t, user, "```go\npackage pkg\n\n```")
}

func TestBuilder_DefaultLevel(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	system, _, err := builder.Build(testFile("package pkg\n"), explain.ModeExplain, "")
	require.NoError(t, err)

	assert.Contains(t, system, DefaultLevel)
}

func TestBuilder_SummaryModeKeepsSmallFilesWhole(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	system, user, err := builder.Build(testFile("package pkg\n"), explain.ModeSummary, "intermediate")
	require.NoError(t, err)

	assert.Contains(t, system, "five sentences")
	assert.Contains(t, user, "package pkg")
}

// Large files in summary mode are reduced to a declaration outline.
func TestBuilder_SummaryModeOutlinesLargeFiles(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	var b strings.Builder
	b.WriteString("package pkg\n\n")
	b.WriteString("func Exported() {\n")
	for b.Len() < summaryOutlineThreshold+1024 {
		b.WriteString("\t_ = \"padding line that should not survive the outline\"\n")
	}
	b.WriteString("}\n")

	_, user, err := builder.Build(testFile(b.String()), explain.ModeSummary, "intermediate")
	require.NoError(t, err)

	assert.Contains(t, user, "func Exported()")
	assert.NotContains(t, user, "padding line that should not survive")
}

func TestBuilder_CodebaseModesUseSynthesisTemplate(t *testing.T) {
	builder, err := NewBuilder()
	require.NoError(t, err)

	for _, mode := range []string{explain.ModeArchitecture, explain.ModeOnboarding} {
		system, _, err := builder.Build(testFile("summaries"), mode, "advanced")
		require.NoError(t, err)
		assert.Contains(t, system, mode)
		assert.Contains(t, system, "advanced")
	}
}
