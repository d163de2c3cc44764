package hub

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ServeWS upgrades the request to a WebSocket, authenticates the bearer
// token carried in the query string, and registers the resulting connection.
// A connection that fails authentication receives exactly one error frame
// and is closed; it never enters the registry.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "WebSocket endpoint only accepts GET requests", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		return
	}

	userID, werr := h.authenticate(token)
	if werr != nil {
		h.log.Warn("handshake rejected",
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("reason", werr.Message))
		h.rejectConn(conn, werr)
		return
	}

	c := newClient(conn, userID, h.cfg, h.log)

	// Queue the welcome before registration so no broadcast can precede it.
	c.trySend(welcomeFrame(userID, h.now()))
	h.registry.Register(c)

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		c.writePump()
	}()
	go func() {
		defer h.wg.Done()
		c.readPump(h)
	}()
}

// authenticate maps the raw query token to a user identity.
func (h *Hub) authenticate(token string) (string, *WireError) {
	if token == "" {
		return "", errMissingToken
	}
	userID, err := h.verifier.Verify(token)
	if err != nil {
		return "", errInvalidToken
	}
	return userID, nil
}

// rejectConn reports a handshake failure on the raw socket and closes it.
func (h *Hub) rejectConn(conn *websocket.Conn, werr *WireError) {
	deadline := time.Now().Add(h.cfg.WriteWait)
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.WriteMessage(websocket.TextMessage, errorFrame(werr))
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, werr.Message)
	_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
	_ = conn.Close()
}
