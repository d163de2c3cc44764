package hub

import (
	"encoding/json"

	"go.uber.org/zap"
)

var offlineStatus = json.RawMessage(`"offline"`)

// handleStatusUpdate fans a user's status change out to every other open
// connection. The status value is opaque to the hub; it is forwarded as-is.
func (h *Hub) handleStatusUpdate(c *Client, payload json.RawMessage) *WireError {
	if len(payload) == 0 {
		return errInvalidMessage
	}
	h.registry.BroadcastAll(statusFrame(c.userID, payload, h.now()), c)
	return nil
}

// broadcastOffline announces a disconnect to every remaining client. There
// is no matching "online" broadcast on connect: the connecting client gets a
// private welcome and peers learn about it through explicit status updates.
func (h *Hub) broadcastOffline(userID string) {
	h.log.Debug("broadcasting offline presence", zap.String("user_id", userID))
	h.registry.BroadcastAll(statusFrame(userID, offlineStatus, h.now()), nil)
}
