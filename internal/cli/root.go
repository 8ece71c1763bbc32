package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "civicchat",
	Short: "Terminal client for the CivicNavigator assistant",
	Long:  `civicchat drives the CivicNavigator conversation engine from a terminal: free-form questions go to the assistant backend, and reporting an issue starts the guided incident intake flow.`,
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
