// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-ministry-admin",
	Short: "GoMinistry-Admin is a web-based membership management tool",
	Long: `GoMinistry-Admin is a web-based membership management tool for a
hierarchical ministry organization (regions, universities, small groups and
alumni groups) with attendance tracking, contributions and reporting.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
