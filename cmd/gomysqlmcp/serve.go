package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	mysqlmcp "github.com/rickchristie/mysql-mcp"
	"github.com/rickchristie/mysql-mcp/internal/meta"
)

const shutdownTimeout = 10 * time.Second

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFlag := fs.String("config", "", "Path to configuration file (default $"+configPathEnv+" or "+defaultConfigPath+")")
	fs.Parse(args)

	// 1. Load ServerConfig
	path, explicit := resolveConfigPath(*configFlag)
	serverConfig, err := loadServerConfig(path, explicit)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup logger
	logger := setupLogger(serverConfig.Logging, serverConfig.Server.Transport)

	// 3. Create Gateway
	gw := mysqlmcp.New(serverConfig.Config, logger)

	// 4. Test database connection. Credentials are re-read on every tool
	// call, so a failure here is reported but does not stop the server.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Msg("testing database connection")
	if err := gw.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("database connection test failed; tools will report the error until it is fixed")
	} else {
		logger.Info().Msg("database connection test successful")
	}

	// 5. Create MCP server
	mcpServer := newMCPServer(gw, logger)

	// 6. Serve
	switch serverConfig.Server.Transport {
	case transportHTTP:
		return serveHTTP(ctx, mcpServer, serverConfig.Server, logger)
	default:
		logger.Info().Msg("starting gomysqlmcp server on stdio")
		return server.ServeStdio(mcpServer)
	}
}

// newMCPServer builds the MCP server with initialize lifecycle logging and
// the gateway's tools registered.
func newMCPServer(gw *mysqlmcp.Gateway, logger zerolog.Logger) *server.MCPServer {
	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer("gomysqlmcp", meta.Version,
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)
	mysqlmcp.RegisterMCPTools(mcpServer, gw)
	return mcpServer
}

// newRouter mounts the MCP endpoint at /mcp and, when enabled, a health
// check that reports process liveness only, not database connectivity.
func newRouter(mcpHandler http.Handler, settings mysqlmcp.ServerSettings) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if settings.HealthCheckEnabled {
		r.Get(settings.HealthCheckPath, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	}
	r.Handle("/mcp", mcpHandler)
	return r
}

func serveHTTP(ctx context.Context, mcpServer *server.MCPServer, settings mysqlmcp.ServerSettings, logger zerolog.Logger) error {
	addr := fmt.Sprintf(":%d", settings.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}

	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Start() does not register the MCP handler when a custom *http.Server
	// is provided, so the router mounts it.
	httpSrv.Handler = newRouter(streamableServer, settings)

	errCh := make(chan error, 1)
	go func() {
		errCh <- streamableServer.Start(addr)
	}()
	logger.Info().Int("port", settings.Port).Msg("starting gomysqlmcp server on http")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return streamableServer.Shutdown(shutdownCtx)
	}
}

// setupLogger builds the process logger.
func setupLogger(config mysqlmcp.LoggingConfig, transport string) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	output := logWriter(config, transport)
	if config.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// logWriter picks the log destination. On the stdio transport stdout
// carries the protocol, so logs never go there.
func logWriter(config mysqlmcp.LoggingConfig, transport string) io.Writer {
	switch config.Output {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		if transport == transportStdio {
			return os.Stderr
		}
		return os.Stdout
	}
	f, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return os.Stderr
	}
	return f
}
