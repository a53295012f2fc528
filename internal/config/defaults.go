package config

const (
	// DefaultHTTPPort is the default port for the widget/API HTTP server.
	DefaultHTTPPort = 3000
	// DefaultMCPPort is the default port for the MCP tool server.
	DefaultMCPPort = 8090
	// DefaultSessionTTLSeconds is the fixed expiry for auth records.
	DefaultSessionTTLSeconds = 300
	// DefaultCommerceTimeoutSeconds bounds each upstream call.
	DefaultCommerceTimeoutSeconds = 30
	// DefaultOAuthProvider is the identity provider requested from the backend.
	DefaultOAuthProvider = "Google"
	// DefaultLogLevel is the minimum log level.
	DefaultLogLevel = "info"
)

// GetDefaultConfig returns the default configuration for storefront.
func GetDefaultConfig() StorefrontConfig {
	return StorefrontConfig{
		HTTP: HTTPConfig{
			Port: DefaultHTTPPort,
			Host: "localhost",
		},
		MCP: MCPConfig{
			Port:      DefaultMCPPort,
			Host:      "localhost",
			Transport: MCPTransportStreamableHTTP,
		},
		Session: SessionConfig{
			TTLSeconds: DefaultSessionTTLSeconds,
		},
		Commerce: CommerceConfig{
			OAuthProvider:  DefaultOAuthProvider,
			TimeoutSeconds: DefaultCommerceTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}
