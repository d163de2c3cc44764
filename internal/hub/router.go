package hub

import (
	"encoding/json"
)

// route parses one inbound frame and dispatches it by declared type. A
// non-nil return is signaled to the sender only; the connection stays open
// regardless of the outcome, so one misbehaving client cannot affect others.
func (h *Hub) route(c *Client, raw []byte) *WireError {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Type == "" {
		return errInvalidMessage
	}

	switch env.Type {
	case TypeLocationUpdate:
		return h.handleLocationUpdate(c, env.Payload)
	case TypeChatMessage:
		return h.handleChatMessage(c, env.Payload)
	case TypeStatusUpdate:
		return h.handleStatusUpdate(c, env.Payload)
	default:
		c.log.Debug("unknown frame type received")
		return errUnknownType
	}
}

// decodePayload unmarshals a frame payload into v and validates its struct
// tags. Any failure is a protocol error for the sender.
func (h *Hub) decodePayload(raw json.RawMessage, v any) *WireError {
	if err := json.Unmarshal(raw, v); err != nil {
		return errInvalidMessage
	}
	if err := h.validate.Struct(v); err != nil {
		return errInvalidMessage
	}
	return nil
}
