package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hrl-explorer/internal/app"
	"github.com/rpggio/hrl-explorer/internal/config"
	"github.com/rpggio/hrl-explorer/internal/explore"
	"github.com/rpggio/hrl-explorer/internal/mcp"
	"github.com/rpggio/hrl-explorer/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	a, err := app.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Catalog.Path != "" {
		result, err := a.ImportCatalog(ctx, cfg.Catalog.Path)
		if err != nil {
			logger.Error("failed to import catalog", "path", cfg.Catalog.Path, "error", err)
			os.Exit(1)
		}
		logger.Info("catalog loaded", "path", cfg.Catalog.Path, "projects", result.Imported, "invalid_geometry", len(result.InvalidGeometry))
	}

	explorer, err := a.NewExplorer(ctx)
	if err != nil {
		logger.Error("failed to build explorer", "error", err)
		os.Exit(1)
	}
	go sweepSessions(ctx, logger, explorer, cfg.Session.IdleTimeout)

	services := mcp.Services{
		Projects: a.Projects,
		Explorer: explorer,
		Activity: a.Activity,
	}
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		AdminToken:    cfg.Auth.AdminToken,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	// Branch based on transport mode
	if cfg.Transport.Mode == config.TransportStdio {
		runStdioMode(ctx, logger, mcpServer)
		return
	}
	handler := mcp.NewHandler(services.Projects, services.Explorer, services.Activity, logger)
	runHTTPMode(ctx, logger, mcpServer, handler, cfg)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, handler *mcp.Handler, cfg config.Config) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: cfg.Session.IdleTimeout,
		},
	)

	router := transport.NewServer(handler, transport.Options{
		AdminToken: cfg.Auth.AdminToken,
		MCP:        mcpHandler,
		Logger:     logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "admin", cfg.Auth.AdminToken != "")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// sweepSessions closes explorer sessions idle for longer than maxIdle.
func sweepSessions(ctx context.Context, logger *slog.Logger, explorer *explore.Manager, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval(maxIdle))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := explorer.Sweep(maxIdle); n > 0 {
				logger.Debug("closed idle explorer sessions", "count", n)
			}
		}
	}
}

// sweepInterval checks twice per idle window, but never more than once a
// second.
func sweepInterval(maxIdle time.Duration) time.Duration {
	return max(maxIdle/2, time.Second)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
