package hub

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Registry is the hub's sole shared mutable state: a synchronized mapping
// from user id to live connection. Every register, unregister, lookup, and
// broadcast goes through its methods; the underlying map never escapes.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Client
	log   *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		conns: make(map[string]*Client),
		log:   log,
	}
}

// Register inserts the connection under its user id. At most one entry
// exists per user: a previous connection for the same user is force-closed
// after the swap so a reconnect cannot leave an orphaned socket behind.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	prev := r.conns[c.userID]
	r.conns[c.userID] = c
	total := len(r.conns)
	r.mu.Unlock()

	if prev != nil && prev != c {
		prev.close(websocket.ClosePolicyViolation, "replaced by a newer connection")
		r.log.Info("stale connection replaced",
			zap.String("user_id", c.userID),
			zap.String("old_conn_id", prev.id.String()))
	}

	r.log.Info("client registered",
		zap.String("user_id", c.userID),
		zap.String("conn_id", c.id.String()),
		zap.Int("online", total))
}

// Unregister removes the entry for userID only while it still points at
// conn, so a stale disconnect cannot evict a newer connection registered by
// a fast reconnect. It reports whether the entry was removed. Unregistering
// an absent user is a no-op.
func (r *Registry) Unregister(userID string, conn *Client) bool {
	r.mu.Lock()
	cur, ok := r.conns[userID]
	if !ok || cur != conn {
		r.mu.Unlock()
		return false
	}
	delete(r.conns, userID)
	total := len(r.conns)
	r.mu.Unlock()

	r.log.Info("client unregistered",
		zap.String("user_id", userID),
		zap.String("conn_id", conn.id.String()),
		zap.Int("online", total))
	return true
}

// Lookup returns the live connection for userID, if any.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[userID]
	return c, ok
}

// Online returns the ids of all currently registered users.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.conns)
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// snapshot returns the connections registered at this instant. Broadcasts
// iterate the snapshot outside the lock; a connection that joins mid-send
// may or may not be included, which is acceptable for best-effort fan-out.
func (r *Registry) snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Values(r.conns)
}

// BroadcastAll sends frame to every registered connection except exclude.
// Connections that are closed or whose send buffer is full are skipped.
func (r *Registry) BroadcastAll(frame []byte, exclude *Client) {
	for _, c := range r.snapshot() {
		if c == exclude {
			continue
		}
		if !c.trySend(frame) {
			r.log.Debug("broadcast skipped", zap.String("user_id", c.userID))
		}
	}
}

// BroadcastTo is BroadcastAll restricted to the given user ids. Ids with no
// registry entry are skipped silently.
func (r *Registry) BroadcastTo(userIDs []string, frame []byte, exclude *Client) {
	for _, id := range userIDs {
		c, ok := r.Lookup(id)
		if !ok || c == exclude {
			continue
		}
		if !c.trySend(frame) {
			r.log.Debug("broadcast skipped", zap.String("user_id", c.userID))
		}
	}
}
