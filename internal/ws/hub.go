package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

type ownerMessage struct {
	owner   uuid.UUID
	message []byte
}

// Hub tracks connected clients per owner and fans messages out to every
// connection of one owner.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	broadcast  chan ownerMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		broadcast:  make(chan ownerMessage, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

// Run dispatches until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.owner]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.owner] = set
			}
			set[client] = struct{}{}
			total := len(set)
			h.mutex.Unlock()
			h.logf("[WS] connected owner=%s owner_clients=%d", client.owner, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)
			h.logf("[WS] disconnected owner=%s", client.owner)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients[msg.owner]))
			for c := range h.clients[msg.owner] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.message:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.owner]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.owner)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for owner, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, owner)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// BroadcastTo queues message for every connection of owner. It never
// blocks; a full buffer drops the message.
func (h *Hub) BroadcastTo(owner uuid.UUID, message []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- ownerMessage{owner: owner, message: message}:
	default:
		h.logf("[WS] broadcast dropped owner=%s reason=buffer_full", owner)
	}
}

func (h *Hub) ClientCount(owner uuid.UUID) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[owner])
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
