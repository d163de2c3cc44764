package hub

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the hub's HTTP surface: a liveness probe and the WebSocket
// endpoint.
func NewRouter(h *Hub) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.ServeWS).Methods(http.MethodGet)
	return r
}

// HealthHandler reports liveness for load balancer probes.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprint(w, "ok")
}
