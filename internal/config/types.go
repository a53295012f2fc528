package config

// StorefrontConfig is the top-level configuration structure for storefront.
type StorefrontConfig struct {
	HTTP     HTTPConfig     `yaml:"http"`
	MCP      MCPConfig      `yaml:"mcp"`
	Session  SessionConfig  `yaml:"session"`
	Commerce CommerceConfig `yaml:"commerce"`
	Logging  LoggingConfig  `yaml:"logging"`
}

const (
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStdio is the standard I/O transport.
	MCPTransportStdio = "stdio"
)

// HTTPConfig defines the configuration for the widget/API HTTP server.
type HTTPConfig struct {
	Port int    `yaml:"port,omitempty"` // Port for the HTTP API (default: 3000)
	Host string `yaml:"host,omitempty"` // Host to bind to (default: localhost)
}

// MCPConfig defines the configuration for the MCP tool server.
type MCPConfig struct {
	Port      int    `yaml:"port,omitempty"`      // Port for the MCP endpoint (default: 8090)
	Host      string `yaml:"host,omitempty"`      // Host to bind to (default: localhost)
	Transport string `yaml:"transport,omitempty"` // Transport to use (default: streamable-http)
}

// SessionConfig defines the configuration for the ephemeral session store.
type SessionConfig struct {
	// RedisURL is the connection string for the shared cache. When empty,
	// every auth-dependent operation fails with a store-unavailable error
	// instead of partial functionality.
	RedisURL string `yaml:"redisUrl,omitempty"`

	// TTLSeconds is the expiry applied to auth records at write time
	// (default: 300).
	TTLSeconds int `yaml:"ttlSeconds,omitempty"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn or error
	// (default: info). The --debug flag takes precedence at startup; runtime
	// reloads apply this value.
	Level string `yaml:"level,omitempty"`
}

// CommerceConfig defines the configuration for the remote commerce API.
type CommerceConfig struct {
	BaseURL string `yaml:"baseUrl,omitempty"` // Base URL of the commerce backend

	// OAuthProvider is passed to the backend when requesting an authorize URL
	// (default: Google).
	OAuthProvider string `yaml:"oauthProvider,omitempty"`

	// TimeoutSeconds bounds each upstream HTTP call (default: 30).
	TimeoutSeconds int `yaml:"timeoutSeconds,omitempty"`
}
