package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans document status updates out to websocket subscribers: per-document
// channels for upload pages and a global channel for list views.
type Hub struct {
	documents map[string]map[*websocket.Conn]*Client
	global    map[*websocket.Conn]*Client
	mu        sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		documents: make(map[string]map[*websocket.Conn]*Client),
		global:    make(map[*websocket.Conn]*Client),
	}
}

// DocumentStatusUpdate is the payload pushed while a document moves through
// its extraction lifecycle.
type DocumentStatusUpdate struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func (h *Hub) Register(docID string, conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.documents[docID]; !ok {
		h.documents[docID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{Conn: conn, Send: make(chan []byte, 256)}
	h.documents[docID][conn] = client
	go client.writeLoop()
	return client
}

func (h *Hub) RegisterGlobal(conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	client := &Client{Conn: conn, Send: make(chan []byte, 256)}
	h.global[conn] = client
	go client.writeLoop()
	return client
}

func (h *Hub) Unregister(docID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.documents[docID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.documents, docID)
		}
	}
}

func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client, ok := h.global[conn]; ok {
		close(client.Send)
		delete(h.global, conn)
	}
}

// BroadcastDocumentStatus pushes a status transition to the document's
// subscribers and to the global channel.
func (h *Hub) BroadcastDocumentStatus(update DocumentStatusUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		log.Println("ws: cannot marshal status update:", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.documents[update.DocumentID] {
		select {
		case client.Send <- payload:
		default:
			// Slow subscriber; drop rather than block the broadcaster.
		}
	}
	for _, client := range h.global {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// Stats reports subscriber counts, used by the health endpoint.
func (h *Hub) Stats() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	perDoc := 0
	for _, clients := range h.documents {
		perDoc += len(clients)
	}
	return map[string]int{
		"document_subscribers": perDoc,
		"global_subscribers":   len(h.global),
	}
}

func (c *Client) writeLoop() {
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
