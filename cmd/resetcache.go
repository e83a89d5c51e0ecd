package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codexplain/codexplain/constants/lipgloss"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Reset the explanation cache for codexplain",
	Long: `The 'reset-cache' command removes every cached explanation record in the
cache directory. Use it when explanations have gone stale for reasons the
fingerprint check cannot see, such as a prompt template change.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")

		handleResetCacheCommand(force, stats, cmd)
	},
}

func init() {
	resetCacheCmd.Flags().BoolP("force", "f", false, "Force cache reset without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")

	rootCmd.AddCommand(resetCacheCmd)
}

func handleResetCacheCommand(force bool, showStats bool, cmd *cobra.Command) {
	rootDependencies := handleRootCommand(cmd)

	if rootDependencies.Cache == nil {
		fmt.Println(lipgloss.Yellow.Render("Cache is disabled. No cache to reset."))
		return
	}

	if showStats {
		files, totalSize, err := rootDependencies.Cache.Stats()
		if err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading cache statistics: %v", err)))
			return
		}
		fmt.Println("Cache Statistics:")
		fmt.Printf("  Cache Directory: %s\n", rootDependencies.Cache.Dir())
		fmt.Printf("  Cached Records: %d\n", files)
		fmt.Printf("  Total Size: %.2f MB\n", float64(totalSize)/(1024*1024))
		return
	}

	if !force {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Are you sure you want to reset the explanation cache? (y/N): ")
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println(lipgloss.Yellow.Render("Cache reset cancelled."))
			return
		}
	}

	if err := rootDependencies.Cache.Clear(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error resetting cache: %v", err)))
		return
	}

	fmt.Println(lipgloss.Green.Render("✓ Explanation cache has been successfully reset!"))
}
