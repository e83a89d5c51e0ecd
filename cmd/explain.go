package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/codexplain/codexplain/analyzer"
	"github.com/codexplain/codexplain/constants/lipgloss"
	"github.com/codexplain/codexplain/explain"
	"github.com/codexplain/codexplain/render"
	"github.com/codexplain/codexplain/tokens"
)

// explainCmd: codexplain explain [path]
var explainCmd = &cobra.Command{
	Use:   "explain [path]",
	Short: "Explain the source files of a project and write markdown documentation.",
	Long: `The 'explain' subcommand scans the given directory (the current directory by
default), sends each source file to the configured AI provider, and writes one
markdown explanation per file into the output directory. In 'architecture' or
'onboarding' mode it instead summarizes every file and synthesizes a single
project-level document.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rootDependencies := handleRootCommand(cmd)
		handleExplainCommand(rootDependencies, args)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func handleExplainCommand(rootDependencies *RootDependencies, args []string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := rootDependencies.Cwd
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
		root = abs
	}

	cfg := rootDependencies.Config

	projectAnalyzer := analyzer.NewAnalyzer(root, analyzer.Options{
		Extensions:  cfg.Extensions,
		Excludes:    cfg.Excludes,
		MaxFileSize: cfg.MaxFileSize,
	})

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").WithDelay(100).WithRemoveWhenDone(true)
	spinnerScan, _ := spinner.Start("Scanning project...")

	files, err := projectAnalyzer.Scan()
	if err != nil {
		spinnerScan.Stop()
		fmt.Print("\r")
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	spinnerScan.Stop()
	fmt.Print("\r")

	if len(files) == 0 {
		fmt.Println(lipgloss.Yellow.Render("No matching source files found."))
		return
	}

	engine := explain.NewEngine(rootDependencies.Provider, rootDependencies.Cache, rootDependencies.Prompts, explain.Options{
		Mode:        cfg.Mode,
		Level:       cfg.Level,
		Concurrency: cfg.Concurrency,
		Attempts:    cfg.RetryAttempts,
		Delay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
	})

	progressbar, _ := pterm.DefaultProgressbar.WithTotal(len(files)).WithTitle("Explaining files").Start()
	onProgress := func(identifier string, completed, total int, percent float64, cached bool) {
		title := identifier
		if cached {
			title = identifier + " (cached)"
		}
		progressbar.UpdateTitle(title)
		progressbar.Increment()
	}

	var usage tokens.RunUsage
	var failed int

	if explain.IsCodebaseMode(cfg.Mode) {
		meta := explain.ProjectMeta{
			Name:      filepath.Base(root),
			Root:      root,
			FileCount: len(files),
			Languages: analyzer.Languages(files),
		}

		var result explain.Result
		result, usage = engine.RunCodebase(ctx, files, meta, onProgress)
		_, _ = progressbar.Stop()

		if result.Err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", result.Err)))
			os.Exit(1)
		}

		docPath, err := render.WriteProjectDoc(result, meta, cfg.Output)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ Project document written to %s", docPath)))
	} else {
		var results []explain.Result
		results, usage = engine.Run(ctx, files, onProgress)
		_, _ = progressbar.Stop()

		written, err := render.WriteFileDocs(results, cfg.Output)
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
			os.Exit(1)
		}

		for _, result := range results {
			if result.Err != nil {
				failed++
				pterm.Warning.Printfln("%s: %v", result.File.RelativePath, result.Err)
			}
		}
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("✓ %d documents written to %s", len(written), cfg.Output)))
	}

	displayUsage(rootDependencies, usage, failed)
}

// displayUsage prints the run's token and cost summary in a box, matching
// the token breakdown stored by the accountant.
func displayUsage(rootDependencies *RootDependencies, usage tokens.RunUsage, failed int) {
	cfg := rootDependencies.Config.AIProviderConfig
	cost := tokens.Cost(cfg.Provider, cfg.Model, usage)

	summary := fmt.Sprintf(
		"Provider: %s (%s)\nFiles explained: %d\nServed from cache: %d\nTokens: %d (input %d, output %d)\nEstimated cost: $%.6f",
		cfg.Provider, cfg.Model,
		usage.ProcessedFiles, usage.CachedFiles,
		usage.TotalTokens, usage.InputTokens, usage.OutputTokens,
		cost,
	)
	if failed > 0 {
		summary += fmt.Sprintf("\nFailed: %d", failed)
	}
	fmt.Println(lipgloss.BoxStyle.Render(summary))
}
