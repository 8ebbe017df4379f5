// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "inkpress",
	Short: "inkpress is a multi-tenant blog publishing platform",
	Long: `inkpress is a multi-tenant blog publishing platform where users
create themed blogs, publish posts, and track page-view analytics.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
