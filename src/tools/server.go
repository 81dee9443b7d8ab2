package tools

import (
	"context"
	"errors"
	"io"
	"net/http"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "compoder-mcp-server"

// NewServer builds an MCP server exposing every tool of d.
func NewServer(d *Dispatcher, version string) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	for _, t := range d.Registry().Descriptors() {
		s.AddTool(t, d.Handle)
	}
	return s
}

// ServeStdio serves s on in/out until ctx ends or the client hangs up.
// Nothing but protocol frames may be written to out.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, log *zap.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(log))

	err := stdio.Listen(ctx, in, out)
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
		return nil
	case clientGone(err):
		log.Warn("client disconnected, exiting")
		return nil
	}
	return err
}

// clientGone reports whether err means the reading end of out went away.
func clientGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

// ServeHTTP serves s over streamable HTTP on addr until ctx ends.
func ServeHTTP(ctx context.Context, s *server.MCPServer, addr string, log *zap.Logger) error {
	httpSrv := server.NewStreamableHTTPServer(s)

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Start(addr) }()
	log.Info("mcp http server listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
