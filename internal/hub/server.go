package hub

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewHTTPServer builds the hub's HTTP server with production timeouts. The
// timeouts cover the upgrade request only; once a connection is hijacked for
// WebSocket use, the per-connection deadlines in the pumps take over.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// ShutdownHTTPServer drains the server without interrupting hijacked
// WebSocket connections, bounded by timeout.
func ShutdownHTTPServer(srv *http.Server, timeout time.Duration, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http server shutdown failed", zap.Error(err))
		return err
	}

	log.Info("http server shutdown complete")
	return nil
}
