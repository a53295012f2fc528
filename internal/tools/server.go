package tools

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/pkg/logging"
)

const serverName = "storefront"

// MCPServer exposes the storefront tools over the configured MCP transport.
type MCPServer struct {
	cfg      config.MCPConfig
	version  string
	provider api.ToolProvider

	server *server.MCPServer

	// Transport-specific servers
	sseServer            *server.SSEServer
	streamableHTTPServer *server.StreamableHTTPServer
	stdioServer          *server.StdioServer

	ctx        context.Context
	cancelFunc context.CancelFunc
	mu         sync.Mutex
}

// NewMCPServer creates an MCP server serving the provider's tools.
func NewMCPServer(cfg config.MCPConfig, version string, provider api.ToolProvider) *MCPServer {
	return &MCPServer{
		cfg:      cfg,
		version:  version,
		provider: provider,
	}
}

// Start registers the tools and starts the configured transport.
func (m *MCPServer) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		return fmt.Errorf("mcp server already started")
	}

	m.ctx, m.cancelFunc = context.WithCancel(ctx)

	mcpServer := server.NewMCPServer(
		serverName,
		m.version,
		server.WithToolCapabilities(true),
	)
	mcpServer.AddTools(createServerTools(m.provider)...)
	m.server = mcpServer

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	switch m.cfg.Transport {
	case config.MCPTransportSSE:
		logging.Info("MCP", "Starting MCP server with SSE transport on %s", addr)
		baseURL := fmt.Sprintf("http://%s:%d", m.cfg.Host, m.cfg.Port)
		m.sseServer = server.NewSSEServer(
			m.server,
			server.WithBaseURL(baseURL),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
		sseServer := m.sseServer
		go func() {
			if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("MCP", err, "SSE server error")
			}
		}()

	case config.MCPTransportStdio:
		logging.Info("MCP", "Starting MCP server with stdio transport")
		m.stdioServer = server.NewStdioServer(m.server)
		stdioServer := m.stdioServer
		go func() {
			if err := stdioServer.Listen(m.ctx, os.Stdin, os.Stdout); err != nil {
				logging.Error("MCP", err, "Stdio server error")
			}
		}()

	case config.MCPTransportStreamableHTTP:
		fallthrough
	default:
		logging.Info("MCP", "Starting MCP server with streamable-http transport on %s", addr)
		m.streamableHTTPServer = server.NewStreamableHTTPServer(m.server)
		streamableServer := m.streamableHTTPServer
		go func() {
			if err := streamableServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error("MCP", err, "Streamable HTTP server error")
			}
		}()
	}

	return nil
}

// Stop shuts down the transport server. Stdio stops on context cancellation
// and needs no explicit shutdown.
func (m *MCPServer) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return fmt.Errorf("mcp server not started")
	}

	logging.Info("MCP", "Stopping MCP server")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if m.sseServer != nil {
		if err := m.sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("MCP", err, "Error shutting down SSE server")
		}
	}
	if m.streamableHTTPServer != nil {
		if err := m.streamableHTTPServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("MCP", err, "Error shutting down streamable HTTP server")
		}
	}

	m.server = nil
	return nil
}
