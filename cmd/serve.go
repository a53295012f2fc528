package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/app"
)

// serveDebug enables verbose logging across the application.
var serveDebug bool

// serveSilent suppresses all log output. Required for the stdio MCP
// transport, where stdout carries the protocol stream.
var serveSilent bool

// serveConfigPath specifies a custom configuration directory. When empty the
// per-user config directory is used.
var serveConfigPath string

// serveCmd starts both servers: the MCP tool server agents connect to and
// the HTTP server carrying the login relay and the widget API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront MCP and HTTP servers",
	Long: `Starts the storefront servers:

- The MCP tool server exposing the shop tools (shop_login, shop_products_search,
  shop_cart_view, shop_checkout, ...) over the configured transport.
- The HTTP server for the login completion page, the auth relay endpoints and
  the commerce proxy used by the widget pages.

Configuration is read from config.yaml in the configuration directory
(~/.config/storefront by default), with environment overrides for REDIS_URL,
COMMERCE_API_BASE_URL, STOREFRONT_HTTP_PORT and STOREFRONT_MCP_PORT.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveSilent, serveConfigPath, GetVersion())

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveSilent, "silent", false, "Suppress all log output")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Custom configuration directory")
}
