package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"slidedeck/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// WebSocketHandler upgrades viewers of a presentation to an event feed
type WebSocketHandler struct {
	wsService *services.WebSocketService
	service   *services.PresentationService
}

// NewWebSocketHandler creates a new websocket handler
func NewWebSocketHandler(wsService *services.WebSocketService, service *services.PresentationService) *WebSocketHandler {
	return &WebSocketHandler{
		wsService: wsService,
		service:   service,
	}
}

// HandleWebSocket streams saved/deleted events of one presentation
// GET /api/presentation/{id}/ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.service.Get(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	h.wsService.Attach(conn, id)
}
