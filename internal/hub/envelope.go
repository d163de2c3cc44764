// Package hub implements the real-time presence and messaging core of the
// TrailHub service: it accepts authenticated WebSocket connections, tracks
// which users are online, routes chat between them, and fans out presence and
// proximity events.
package hub

import (
	"encoding/json"
	"time"
)

// Frame types accepted from clients.
const (
	TypeLocationUpdate = "location_update"
	TypeChatMessage    = "chat_message"
	TypeStatusUpdate   = "status_update"
)

// Frame types sent to clients.
const (
	TypeWelcome    = "welcome"
	TypeUserStatus = "user_status"
	TypeNearbyUser = "nearby_user"
	TypeError      = "error"
)

// Envelope is the wire unit exchanged over a connection in both directions.
// The payload shape depends on Type.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Location is a WGS84 coordinate pair carried by location updates.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// chatInbound is the client payload of an inbound chat_message frame.
type chatInbound struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Message     string `json:"message" validate:"required"`
}

type welcomePayload struct {
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type presencePayload struct {
	UserID    string          `json:"userId"`
	Status    json.RawMessage `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

type chatOutbound struct {
	SenderID  string    `json:"senderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type nearbyPayload struct {
	UserID   string   `json:"userId"`
	Location Location `json:"location"`
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// marshalFrame builds the outgoing wire bytes for a frame. All outbound
// payload types are plain structs, so marshaling cannot fail.
func marshalFrame(frameType string, payload any) []byte {
	raw, _ := json.Marshal(payload)
	frame, _ := json.Marshal(Envelope{Type: frameType, Payload: raw})
	return frame
}

func welcomeFrame(userID string, now time.Time) []byte {
	return marshalFrame(TypeWelcome, welcomePayload{
		UserID:    userID,
		Message:   "Connected to WebSocket server",
		Timestamp: now,
	})
}

func statusFrame(userID string, status json.RawMessage, now time.Time) []byte {
	return marshalFrame(TypeUserStatus, presencePayload{
		UserID:    userID,
		Status:    status,
		Timestamp: now,
	})
}

func chatFrame(senderID, message string, now time.Time) []byte {
	return marshalFrame(TypeChatMessage, chatOutbound{
		SenderID:  senderID,
		Message:   message,
		Timestamp: now,
	})
}

func nearbyFrame(userID string, loc Location) []byte {
	return marshalFrame(TypeNearbyUser, nearbyPayload{UserID: userID, Location: loc})
}

func errorFrame(werr *WireError) []byte {
	return marshalFrame(TypeError, errorPayload{Message: werr.Message, Code: werr.Code})
}
