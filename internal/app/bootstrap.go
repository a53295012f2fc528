package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/tools"
	"storefront/pkg/logging"
)

// Application bootstraps and runs storefront. It follows a two-phase
// initialization pattern:
//  1. Bootstrap phase: initialize logging, load configuration, wire the
//     session store, commerce client and servers
//  2. Execution phase: run both servers until shutdown
type Application struct {
	config *Config

	store      session.Store
	commerce   *commerce.Client
	httpServer *server.Server
	mcpServer  *tools.MCPServer
	watcher    *config.Watcher
}

// NewApplication creates and initializes a new application instance. It
// returns an error when the configuration cannot be loaded or is invalid, or
// when a configured session store cannot be reached.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	var logOutput io.Writer = os.Stdout
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	configPath := cfg.ConfigPath
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	storefrontCfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load configuration from %s", configPath)
		return nil, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}
	if err := config.Validate(storefrontCfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Storefront = &storefrontCfg

	// The --debug and --silent flags take precedence over the configured level.
	if !cfg.Debug && !cfg.Silent {
		if level, err := logging.ParseLevel(storefrontCfg.Logging.Level); err == nil {
			logging.SetLevel(level)
		}
	}

	app := &Application{config: cfg}

	if err := app.initializeComponents(configPath); err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize components")
		return nil, err
	}

	return app, nil
}

// initializeComponents wires the session store, commerce client, tool
// provider and both servers.
func (a *Application) initializeComponents(configPath string) error {
	cfg := a.config.Storefront

	if cfg.Session.RedisURL == "" {
		logging.Warn("Bootstrap", "No session store configured, login-dependent operations will be unavailable")
		a.store = session.Unavailable()
	} else {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := session.NewRedisStore(connectCtx, cfg.Session.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to session store: %w", err)
		}
		a.store = store
		logging.Info("Bootstrap", "Connected to session store")
	}

	a.commerce = commerce.NewClient(
		cfg.Commerce.BaseURL,
		cfg.Commerce.OAuthProvider,
		time.Duration(cfg.Commerce.TimeoutSeconds)*time.Second,
	)

	sessionTTL := time.Duration(cfg.Session.TTLSeconds) * time.Second
	a.httpServer = server.New(cfg.HTTP, a.store, a.commerce, sessionTTL)

	provider := tools.NewShopToolProvider(a.store, a.commerce)
	a.mcpServer = tools.NewMCPServer(cfg.MCP, a.config.Version, provider)

	// Runtime reload covers the settings that can change without a restart.
	// Ports, transport and the session store require a restart to take effect.
	a.watcher = config.NewWatcher(config.WatcherConfig{
		ConfigDir: configPath,
		OnChange: func(updated config.StorefrontConfig) {
			if updated.Commerce.BaseURL != a.commerce.BaseURL() {
				logging.Info("Bootstrap", "Commerce base URL changed to %s", updated.Commerce.BaseURL)
				a.commerce.SetBaseURL(updated.Commerce.BaseURL)
			}
			if !a.config.Debug && !a.config.Silent {
				if level, err := logging.ParseLevel(updated.Logging.Level); err == nil {
					logging.SetLevel(level)
				}
			}
		},
	})

	return nil
}
