package hub

import (
	"encoding/json"

	"go.uber.org/zap"
)

// handleLocationUpdate asks the injected locator which users are near the
// reported position and notifies exactly that set. The sender never receives
// its own proximity event.
func (h *Hub) handleLocationUpdate(c *Client, payload json.RawMessage) *WireError {
	var loc Location
	if werr := h.decodePayload(payload, &loc); werr != nil {
		return werr
	}

	nearby, err := h.locator.Nearby(c.userID, loc)
	if err != nil {
		h.log.Warn("nearby user lookup failed",
			zap.String("user_id", c.userID),
			zap.Error(err))
		return handlerError(err)
	}
	if len(nearby) == 0 {
		return nil
	}

	h.registry.BroadcastTo(nearby, nearbyFrame(c.userID, loc), c)
	return nil
}
