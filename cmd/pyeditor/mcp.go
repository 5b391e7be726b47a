package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/pyeditor/internal/mcp"
)

type mcpOptions struct {
	transport, addr string
}

func mcpFlags(fs *flag.FlagSet) any {
	o := &mcpOptions{}
	fs.StringVar(&o.transport, "transport", "", "stdio or http (defaults to mcp.transport)")
	fs.StringVar(&o.addr, "addr", "", "listen address for http (defaults to mcp.host:mcp.port)")
	return o
}

func runMCP(ctx context.Context, a *app, opts any, _ []string) error {
	o := opts.(*mcpOptions)
	mode := o.transport
	if mode == "" {
		mode = a.cfg.MCP.Transport
	}
	if mode != "stdio" && mode != "http" {
		return fmt.Errorf("unknown transport %q", mode)
	}

	sess, u, err := a.newSession(ctx, logNotifier{a.logger})
	if err != nil {
		return err
	}
	defer sess.Close()
	if err := a.mount(ctx, sess); err != nil {
		a.logger.Warn("could not open queued project", "error", err)
	}

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.projects,
			Session:  sess,
			Activity: a.activity,
		},
		Owner:         u.Username,
		Token:         a.cfg.MCP.Token,
		TransportMode: mode,
		Logger:        a.logger,
	})

	if mode == "stdio" {
		return runStdioMode(ctx, a.logger, server)
	}
	addr := o.addr
	if addr == "" {
		addr = net.JoinHostPort(a.cfg.MCP.Host, strconv.Itoa(a.cfg.MCP.Port))
	}
	return runHTTPMode(ctx, a.logger, server, addr)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or ctx is canceled
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func newHTTPHandler(server *sdkmcp.Server) http.Handler {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return router
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           newHTTPHandler(server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// logNotifier routes session toasts to the log; MCP clients read errors from tool results.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Success(msg string) { n.logger.Info(msg) }
func (n logNotifier) Error(msg string)   { n.logger.Warn(msg) }
