package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hrl-explorer/internal/explore"
)

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Explorer *explore.Manager
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	AdminToken    string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "hrl-explorer",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(adminMiddleware(cfg.AdminToken, cfg.TransportMode == "stdio"))
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	handler := NewHandler(cfg.Services.Projects, cfg.Services.Explorer, cfg.Services.Activity, logger)
	registerTools(server, handler)

	return server
}
