package hub

import (
	"encoding/json"

	"go.uber.org/zap"
)

// handleChatMessage delivers a chat payload to its recipient only. Delivery
// is at-most-once: a message to an absent recipient is dropped without an
// error to the sender, and nothing is queued or retried.
func (h *Hub) handleChatMessage(c *Client, payload json.RawMessage) *WireError {
	var in chatInbound
	if werr := h.decodePayload(payload, &in); werr != nil {
		return werr
	}

	recipient, ok := h.registry.Lookup(in.RecipientID)
	if !ok {
		h.log.Debug("chat recipient not connected, dropping message",
			zap.String("sender_id", c.userID),
			zap.String("recipient_id", in.RecipientID))
		return nil
	}

	recipient.trySend(chatFrame(c.userID, in.Message, h.now()))
	return nil
}
