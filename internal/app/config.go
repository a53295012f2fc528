package app

import (
	"storefront/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug enables verbose logging
	Debug bool

	// Silent suppresses all log output
	Silent bool

	// Custom configuration directory (optional)
	// When empty, the per-user config directory is used
	ConfigPath string

	// Version reported by the MCP server
	Version string

	// Loaded environment configuration
	Storefront *config.StorefrontConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath, version string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
		Version:    version,
	}
}
