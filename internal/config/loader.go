package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"storefront/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/storefront"
	configFileName = "config.yaml"
)

// Environment variables that override file configuration. These are the knobs
// operators set in deployment environments without shipping a config file.
const (
	EnvRedisURL        = "REDIS_URL"
	EnvCommerceBaseURL = "COMMERCE_API_BASE_URL"
	EnvHTTPPort        = "STOREFRONT_HTTP_PORT"
	EnvMCPPort         = "STOREFRONT_MCP_PORT"
)

// DefaultConfigPath returns the per-user configuration directory.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads configuration from the given directory, starting from coded
// defaults, overlaying config.yaml if present, and finally applying env
// overrides. A missing config.yaml is not an error.
func LoadConfig(configPath string) (StorefrontConfig, error) {
	config := GetDefaultConfig()

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return StorefrontConfig{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return StorefrontConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	applyEnvOverrides(&config)
	return config, nil
}

func applyEnvOverrides(config *StorefrontConfig) {
	if v := os.Getenv(EnvRedisURL); v != "" {
		config.Session.RedisURL = v
	}
	if v := os.Getenv(EnvCommerceBaseURL); v != "" {
		config.Commerce.BaseURL = v
	}
	if v := os.Getenv(EnvHTTPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.HTTP.Port = port
		} else {
			logging.Warn("ConfigLoader", "Ignoring non-numeric %s=%q", EnvHTTPPort, v)
		}
	}
	if v := os.Getenv(EnvMCPPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.MCP.Port = port
		} else {
			logging.Warn("ConfigLoader", "Ignoring non-numeric %s=%q", EnvMCPPort, v)
		}
	}
}

// Validate checks config invariants that would otherwise surface as confusing
// runtime failures.
func Validate(config StorefrontConfig) error {
	switch config.MCP.Transport {
	case MCPTransportStreamableHTTP, MCPTransportSSE, MCPTransportStdio:
	default:
		return fmt.Errorf("unknown mcp transport %q", config.MCP.Transport)
	}
	if config.Session.TTLSeconds <= 0 {
		return fmt.Errorf("session ttlSeconds must be positive, got %d", config.Session.TTLSeconds)
	}
	if config.Commerce.BaseURL == "" {
		return errors.New("commerce baseUrl is required (set commerce.baseUrl or COMMERCE_API_BASE_URL)")
	}
	if _, err := logging.ParseLevel(config.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %w", err)
	}
	return nil
}
