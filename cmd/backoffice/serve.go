package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jaakkos/backoffice/internal/app"
	"github.com/jaakkos/backoffice/internal/dashboard"
	"github.com/jaakkos/backoffice/internal/repository"
	"github.com/jaakkos/backoffice/internal/tools/catalog"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	seed      string
	port      int
	stdio     bool
	latencyMs int
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API, event stream and MCP tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("seed") {
				if err := opts.setSeed(f.seed); err != nil {
					return err
				}
			}
			if flags.Changed("port") {
				opts.cfg.HTTPPort = f.port
			}
			if flags.Changed("stdio") {
				opts.cfg.Stdio = f.stdio
			}
			if flags.Changed("latency-ms") {
				opts.cfg.SimulatedLatencyMs = f.latencyMs
			}
			if err := opts.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&f.seed, "seed", "", "Seed catalog YAML (default: built-in sample)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "HTTP port; 0 picks a free port")
	cmd.Flags().BoolVar(&f.stdio, "stdio", false, "Also serve MCP over stdin/stdout")
	cmd.Flags().IntVar(&f.latencyMs, "latency-ms", 0, "Simulated delay before dialogs commit")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions) error {
	logger, pol := opts.logger, opts.pol
	logger.Info("starting backoffice", zap.String("version", Version), zap.String("log_file", pol.LogFile()))

	svc, err := app.NewCatalogService(repository.NewSeedSource(pol.SeedFile()), pol, logger)
	if err != nil {
		return err
	}
	clients := app.NewClientRegistry()
	mcpServer := newMCPServer(svc, pol, logger)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", pol.HTTPPort()))
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	baseURL := fmt.Sprintf("http://localhost:%d", port)
	logger.Info("http server listening",
		zap.String("api", baseURL+"/api"),
		zap.String("events", baseURL+"/api/events"),
		zap.String("mcp", baseURL+"/mcp"))

	httpServer := &http.Server{
		Handler:           newMux(mcpServer, svc, clients, logger, port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", zap.Error(err))
		}
		return nil
	})

	if pol.WatchSeed() {
		watcher := app.NewSeedWatcher(pol.SeedFile(), svc, logger)
		logger.Info("watching seed file", zap.String("path", pol.SeedFile()))
		g.Go(func() error { return watcher.Start(gctx) })
	}

	if pol.StdioEnabled() {
		g.Go(func() error {
			// Closing stdin ends the session and with it the server.
			defer cancel()
			logger.Info("stdio ready")
			err := server.NewStdioServer(mcpServer).Listen(gctx, os.Stdin, os.Stdout)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("stdio server stopped", zap.Error(err))
			}
			return nil
		})
	}

	err = g.Wait()
	logger.Info("server stopped")
	return err
}

func newMCPServer(svc *app.CatalogService, gate catalog.ToolGate, logger *zap.Logger) *server.MCPServer {
	hooks := &server.Hooks{}
	hooks.AddBeforeInitialize(func(ctx context.Context, id any, message *mcp.InitializeRequest) {
		if message != nil {
			ci := message.Params.ClientInfo
			logger.Info("mcp client", zap.String("name", ci.Name), zap.String("version", ci.Version),
				zap.String("protocol", message.Params.ProtocolVersion))
		}
	})
	hooks.AddAfterCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest, result *mcp.CallToolResult) {
		if message != nil {
			logger.Debug("tool called", zap.String("tool", message.Params.Name))
		}
	})

	s := server.NewMCPServer(
		"backoffice",
		Version,
		server.WithHooks(hooks),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	catalog.Register(s, svc, gate, logger)
	return s
}

// healthResponse is served at /health.
type healthResponse struct {
	Status   string `json:"status"`
	Port     int    `json:"port"`
	Clients  int    `json:"clients"`
	Products int    `json:"products"`
	Users    int    `json:"users"`
}

func newMux(mcpServer *server.MCPServer, svc *app.CatalogService, clients *app.ClientRegistry, logger *zap.Logger, port int) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpServer))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		st := svc.Stats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:   "ok",
			Port:     port,
			Clients:  clients.Count(),
			Products: st.Products.Total,
			Users:    st.Users.Total,
		})
	})
	dashboard.NewHandler(svc, clients, logger).RegisterRoutes(mux)
	return mux
}
