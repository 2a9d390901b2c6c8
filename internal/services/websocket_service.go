package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to viewers of a presentation.
const (
	EventConnected           = "connected"
	EventPresentationSaved   = "presentation.saved"
	EventPresentationDeleted = "presentation.deleted"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Event is the JSON message sent over the websocket
type Event struct {
	Type           string      `json:"type"`
	PresentationID string      `json:"presentationId"`
	Data           interface{} `json:"data,omitempty"`
}

// Client is one websocket connection watching a presentation
type Client struct {
	service        *WebSocketService
	conn           *websocket.Conn
	send           chan []byte
	presentationID string
}

type broadcast struct {
	presentationID string
	payload        []byte
}

// WebSocketService fans presentation events out to connected viewers
type WebSocketService struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcast
	quit       chan struct{}
}

// NewWebSocketService creates a new hub; call Run to start it
func NewWebSocketService() *WebSocketService {
	return &WebSocketService{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcast, 64),
		quit:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called
func (ws *WebSocketService) Run() {
	for {
		select {
		case client := <-ws.register:
			room := ws.rooms[client.presentationID]
			if room == nil {
				room = make(map[*Client]bool)
				ws.rooms[client.presentationID] = room
			}
			room[client] = true
			if hello, err := json.Marshal(Event{Type: EventConnected, PresentationID: client.presentationID}); err == nil {
				client.send <- hello
			}
			log.Printf("Viewer joined presentation %s (%d watching)", client.presentationID, len(room))

		case client := <-ws.unregister:
			ws.remove(client)

		case msg := <-ws.broadcast:
			for client := range ws.rooms[msg.presentationID] {
				select {
				case client.send <- msg.payload:
				default:
					// slow consumer
					ws.remove(client)
				}
			}

		case <-ws.quit:
			for _, room := range ws.rooms {
				for client := range room {
					close(client.send)
				}
			}
			ws.rooms = make(map[string]map[*Client]bool)
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client
func (ws *WebSocketService) Stop() {
	close(ws.quit)
}

func (ws *WebSocketService) remove(client *Client) {
	room, ok := ws.rooms[client.presentationID]
	if !ok || !room[client] {
		return
	}
	delete(room, client)
	close(client.send)
	if len(room) == 0 {
		delete(ws.rooms, client.presentationID)
	}
	log.Printf("Viewer left presentation %s", client.presentationID)
}

// Publish sends an event to everyone watching its presentation
func (ws *WebSocketService) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode event %s: %v", event.Type, err)
		return
	}
	select {
	case ws.broadcast <- broadcast{presentationID: event.PresentationID, payload: payload}:
	case <-ws.quit:
	}
}

// Attach registers conn as a viewer and starts its pumps
func (ws *WebSocketService) Attach(conn *websocket.Conn, presentationID string) {
	client := &Client{
		service:        ws,
		conn:           conn,
		send:           make(chan []byte, sendBuffer),
		presentationID: presentationID,
	}
	select {
	case ws.register <- client:
	case <-ws.quit:
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

// readPump only handles control frames; viewers never send events
func (c *Client) readPump() {
	defer func() {
		select {
		case c.service.unregister <- c:
		case <-c.service.quit:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
