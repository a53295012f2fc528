package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the storefront application.
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Conversational storefront server",
	Long: `storefront bridges an AI agent and a commerce backend. It serves the
shop operations as MCP tools (catalog search, cart, checkout) and runs the
HTTP surface for the OAuth login relay and the widget API.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main with the
// build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "storefront version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
