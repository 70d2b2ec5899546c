// Package requestmcp exposes the request wizard to agents as MCP tools.
package requestmcp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/mark3labs/lmsenv/internal/api"
	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/mark3labs/mcp-go/server"
)

// Backend is the part of the API the tools use.
type Backend interface {
	request.Submitter
	ListRequests(ctx context.Context) ([]api.RequestRecord, error)
}

// Server manages the MCP server exposing list-scenarios, preview-request,
// submit-request and list-requests.
type Server struct {
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	port       int
	mu         sync.Mutex

	backend      Backend
	environments []string
	now          func() time.Time
}

// New creates a server filing requests through backend. Environments limits
// the values accepted for the environment argument; empty accepts any.
func New(backend Backend, environments []string) *Server {
	s := &Server{
		backend:      backend,
		environments: environments,
		now:          time.Now,
	}
	s.mcpServer = server.NewMCPServer(
		"lmsenv",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Start starts the MCP HTTP server on addr. A port of 0 picks a free port.
// Returns the port number or an error if startup fails.
func (s *Server) Start(ctx context.Context, addr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	tcpAddr := listener.Addr().(*net.TCPAddr)
	s.port = tcpAddr.Port
	// The listener only reserves the port; the HTTP server binds it again.
	_ = listener.Close()

	s.httpServer = server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)

	bind := net.JoinHostPort(tcpAddr.IP.String(), fmt.Sprint(s.port))
	logger.Info("Starting MCP server on %s", bind)

	httpServer := s.httpServer
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(bind); err != nil {
			logger.Error("MCP server error: %v", err)
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// Give the server a moment to start or fail
	select {
	case err := <-errCh:
		if err != nil {
			s.httpServer = nil
			return 0, fmt.Errorf("failed to start HTTP server: %w", err)
		}
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(100 * time.Millisecond):
	}

	logger.Debug("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop stops the MCP HTTP server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.httpServer = nil
	return nil
}

// URL returns the HTTP URL for the MCP server endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
