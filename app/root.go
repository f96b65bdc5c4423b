// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goinventree",
	Short: "GoInvenTree is a web-based inventory management system",
	Long: `GoInvenTree is a web-based inventory management system that
provides an easy-to-use interface for managing parts, categories and
the plugins extending the instance.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
