package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/codexplain/codexplain/analyzer"
	"github.com/codexplain/codexplain/embed_data"
	"github.com/codexplain/codexplain/explain"
)

// summaryOutlineThreshold switches the summary sub-pass from full content
// to a declaration outline; whole-file bodies add little to a five-sentence
// summary while inflating input tokens.
const summaryOutlineThreshold = 8 * 1024

// DefaultLevel is used when no detail level is configured.
const DefaultLevel = "intermediate"

type templateData struct {
	Mode  string
	Level string
}

// Builder renders the embedded prompt templates into the two-message
// conversation the provider adapter expects.
type Builder struct {
	explainFile       *template.Template
	summarizeFile     *template.Template
	synthesizeProject *template.Template
}

// NewBuilder parses the embedded templates once.
func NewBuilder() (*Builder, error) {
	explainFile, err := template.New("explain_file").Parse(string(embed_data.ExplainFilePrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to parse explain template: %w", err)
	}
	summarizeFile, err := template.New("summarize_file").Parse(string(embed_data.SummarizeFilePrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to parse summarize template: %w", err)
	}
	synthesizeProject, err := template.New("synthesize_project").Parse(string(embed_data.SynthesizeProjectPrompt))
	if err != nil {
		return nil, fmt.Errorf("failed to parse synthesize template: %w", err)
	}
	return &Builder{
		explainFile:       explainFile,
		summarizeFile:     summarizeFile,
		synthesizeProject: synthesizeProject,
	}, nil
}

// Build returns the (system, user) message pair for one descriptor.
func (b *Builder) Build(fd *analyzer.FileDescriptor, mode string, level string) (string, string, error) {
	if level == "" {
		level = DefaultLevel
	}

	var tmpl *template.Template
	switch {
	case mode == explain.ModeSummary:
		tmpl = b.summarizeFile
	case explain.IsCodebaseMode(mode):
		tmpl = b.synthesizeProject
	default:
		tmpl = b.explainFile
	}

	var system strings.Builder
	if err := tmpl.Execute(&system, templateData{Mode: mode, Level: level}); err != nil {
		return "", "", fmt.Errorf("failed to render prompt template: %w", err)
	}

	content := fd.Content
	if mode == explain.ModeSummary && len(content) > summaryOutlineThreshold {
		content = analyzer.Outline(fd)
	}

	user := fmt.Sprintf("File: %s\nLanguage: %s\n\n```%s\n%s\n```", fd.RelativePath, fd.Language, fd.Language, content)
	return system.String(), user, nil
}
