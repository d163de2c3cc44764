package hub

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client is one authenticated WebSocket connection. Its lifecycle is
// Connecting (upgrade + handshake) → Open (registered, pumps running) →
// Closed; there is no reconnecting state, a reconnect is a brand-new client.
type Client struct {
	id     uuid.UUID
	userID string
	conn   *websocket.Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	limiter *rateLimiter
	cfg     Config
	log     *zap.Logger
}

func newClient(conn *websocket.Conn, userID string, cfg Config, log *zap.Logger) *Client {
	id := uuid.New()
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}
	return &Client{
		id:      id,
		userID:  userID,
		conn:    conn,
		send:    make(chan []byte, cfg.SendBuffer),
		done:    make(chan struct{}),
		limiter: newRateLimiter(cfg.RateLimitBurst, cfg.RateLimitRefill),
		cfg:     cfg,
		log: log.With(
			zap.String("user_id", userID),
			zap.String("conn_id", id.String()),
		),
	}
}

// UserID returns the authenticated identity bound to this connection.
func (c *Client) UserID() string { return c.userID }

// trySend queues a frame for delivery without blocking. It reports false
// when the connection is closed or its send buffer is full; best-effort
// delivery drops the frame in both cases.
func (c *Client) trySend(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// close shuts the transport down exactly once. Safe to call from any
// goroutine; the send channel is never closed, so concurrent trySend calls
// cannot panic.
func (c *Client) close(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn == nil {
			return
		}
		msg := websocket.FormatCloseMessage(code, reason)
		deadline := time.Now().Add(c.cfg.WriteWait)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = c.conn.Close()
	})
}

// readPump drives the connection's receive loop, dispatching each inbound
// frame through the hub's router in arrival order. The deferred cleanup runs
// on every exit path: it unregisters the client and, when the registry entry
// was actually removed (not replaced by a fresh reconnect), announces the
// user as offline.
func (c *Client) readPump(h *Hub) {
	defer func() {
		removed := h.registry.Unregister(c.userID, c)
		c.close(websocket.CloseNormalClosure, "")
		if removed {
			h.broadcastOffline(c.userID)
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}
		if !c.limiter.allow() {
			c.log.Warn("rate limit exceeded, dropping frame",
				zap.Int("burst", c.cfg.RateLimitBurst),
				zap.Duration("refill", c.cfg.RateLimitRefill))
			continue
		}
		if werr := h.route(c, raw); werr != nil {
			c.trySend(errorFrame(werr))
		}
	}
}

// writePump serializes all writes to the connection: queued frames plus the
// keepalive pings that bound how long a dead peer can linger.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.close(websocket.CloseNormalClosure, "")
	}()

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				if !isExpectedCloseError(err) {
					c.log.Warn("write failed", zap.Error(err))
				}
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.log.Warn("frame exceeded read limit", zap.Int64("limit", c.cfg.MaxMessageSize))
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure),
		errors.Is(err, io.EOF),
		isExpectedCloseError(err):
		c.log.Debug("connection closed", zap.Error(err))
	default:
		c.log.Warn("read failed", zap.Error(err))
	}
}

// isExpectedCloseError reports whether an error is part of normal connection
// teardown and not worth surfacing above debug level.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
