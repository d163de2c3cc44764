package hub

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// TokenVerifier validates a bearer credential and returns the user identity
// it carries. The hub only verifies tokens; issuing them is the account
// service's job.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// NearbyUserLocator answers which users are near a reported location. It is
// an injected collaborator so the hub's routing can be tested independently
// of any geospatial backend.
type NearbyUserLocator interface {
	Nearby(userID string, loc Location) ([]string, error)
}

// NopLocator is a NearbyUserLocator that never finds neighbors.
type NopLocator struct{}

func (NopLocator) Nearby(string, Location) ([]string, error) { return nil, nil }

// Hub owns the connection registry and routes frames between authenticated
// clients. One goroutine pair (read/write pump) runs per connection; the
// registry is the only shared state between them.
type Hub struct {
	cfg      Config
	registry *Registry
	verifier TokenVerifier
	locator  NearbyUserLocator
	validate *validator.Validate
	upgrader websocket.Upgrader
	log      *zap.Logger
	wg       sync.WaitGroup
	now      func() time.Time
}

func New(cfg Config, verifier TokenVerifier, locator NearbyUserLocator, log *zap.Logger) *Hub {
	h := &Hub{
		cfg:      cfg,
		registry: NewRegistry(log),
		verifier: verifier,
		locator:  locator,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
	origins := newOriginChecker(cfg.AllowedOrigins, log)
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     origins.check,
	}
	return h
}

// Registry exposes the connection registry for lookups and fan-out.
func (h *Hub) Registry() *Registry { return h.registry }

// Shutdown closes every live connection and waits for their pump goroutines
// to finish, bounded by timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	clients := h.registry.snapshot()
	h.log.Info("shutting down hub", zap.Int("connections", len(clients)))

	for _, c := range clients {
		c.close(websocket.CloseGoingAway, "server shutting down")
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("hub shutdown complete")
		return nil
	case <-time.After(timeout):
		h.log.Warn("hub shutdown timed out, some connections may still be draining")
		return context.DeadlineExceeded
	}
}
