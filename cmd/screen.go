package cmd

import (
	"github.com/spf13/cobra"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run a screening session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}
