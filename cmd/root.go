package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize builds a daily checklist of your open GitHub work",
	Long: `Summarize queries GitHub for your open work (assigned issues, requested
reviews and authored pull requests), merges it with yesterday's unfinished
checklist items, and persists the result as one dated document per day.

Running it again the same day reproduces the stored checklist without
touching the GitHub API; use --force to regenerate from yesterday's
leftovers, --dry-run to preview without writing, and --show to display
today's stored checklist.`,
	RunE:          runSummarize,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().Bool("show", false, "Display today's stored checklist without querying GitHub or writing anything")
	rootCmd.Flags().Bool("dry-run", false, "Consolidate and print the checklist without persisting it")
	rootCmd.Flags().Bool("force", false, "Regenerate today's checklist from yesterday's and overwrite the stored one")
}
