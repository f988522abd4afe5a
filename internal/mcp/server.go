// Package mcp exposes the rhythm commands as MCP tools over stdio.
package mcp

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/san-kum/rhythms/internal/bridge"
	"go.uber.org/zap"
)

// Server wraps the MCP SDK server around a dispatcher.
type Server struct {
	server *sdk.Server
	disp   *bridge.Dispatcher
	logger *zap.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string
	Version string
}

func NewServer(cfg *Config, disp *bridge.Dispatcher, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server: mcpServer,
		disp:   disp,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects, ctx is cancelled or
// the process is signalled.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("mcp server listening on stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
