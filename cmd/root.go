package cmd

import (
	"github.com/abhisek/lexiscreen/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lexiscreen",
	Short: "Terminal screening tool for reading and perception difficulties",
	Long: "Lexiscreen runs a short battery of timed perception and reading tasks\n" +
		"in the terminal and reports accuracy, reaction times, and recurring\n" +
		"confusions. It is a screening aid, not a diagnostic instrument.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LEXISCREEN_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML settings file (default: XDG config dir)")
	rootCmd.PersistentFlags().String("battery", "", "Path to a battery JSON file (default: built-in battery)")
	rootCmd.PersistentFlags().Bool("no-sound", false, "Disable text-to-speech; sound tasks run silently")

	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then LEXISCREEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
