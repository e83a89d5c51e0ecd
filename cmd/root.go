package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/codexplain/codexplain/cache"
	"github.com/codexplain/codexplain/config"
	"github.com/codexplain/codexplain/constants/lipgloss"
	"github.com/codexplain/codexplain/prompts"
	ai_providers "github.com/codexplain/codexplain/providers"
	contracts_provider "github.com/codexplain/codexplain/providers/contracts"
)

// RootDependencies holds the dependencies shared by all subcommands.
type RootDependencies struct {
	Config   *config.Config
	Cwd      string
	Provider contracts_provider.ChatProvider
	Cache    *cache.Cache
	Prompts  *prompts.Builder
}

// rootCmd: codexplain
var rootCmd = &cobra.Command{
	Use:   "codexplain",
	Short: "codexplain generates plain-language documentation for a codebase using AI.",
	Long: `codexplain scans a project's source files and produces one markdown explanation
per file, or a single architecture or onboarding document for the whole codebase.
Unchanged files are served from a local cache so repeat runs only pay for what changed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version, _ := cmd.Flags().GetBool("version"); version {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	rootDependencies := &RootDependencies{}

	var err error
	rootDependencies.Cwd, err = os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	rootDependencies.Config = config.LoadConfigs(rootCmd, rootDependencies.Cwd)

	if rootDependencies.Config.Verbose {
		pterm.EnableDebugMessages()
	}

	// Provider construction is fail-fast: a missing API key or unknown
	// provider name stops the run before any file is touched.
	rootDependencies.Provider, err = ai_providers.NewChatProvider(rootDependencies.Config.AIProviderConfig)
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	if rootDependencies.Config.EnableCache {
		rootDependencies.Cache, err = cache.New(rootDependencies.Config.CacheDir)
		if err != nil {
			pterm.Warning.Printfln("cache disabled: %v", err)
			rootDependencies.Cache = nil
		}
	}

	rootDependencies.Prompts, err = prompts.NewBuilder()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}

	return rootDependencies
}
