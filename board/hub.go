package board

import (
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/0n0123/kanban/domain"
)

const sendBuffer = 64

// frame is the wire shape of every socket message, in both directions.
type frame struct {
	Event string         `json:"event"`
	Data  domain.Message `json:"data"`
}

func encodeFrame(event string, msg domain.Message) ([]byte, error) {
	if msg.Tasks == nil {
		msg.Tasks = []domain.Task{}
	}
	return sonic.ConfigStd.Marshal(frame{Event: event, Data: msg})
}

type client struct {
	id   string
	send chan []byte
}

// Hub tracks connected clients and fans frames out to them. A slow client
// drops frames rather than stalling the rest of the board.
type Hub struct {
	logger *log.Logger

	mu      sync.Mutex
	clients map[string]*client
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{logger: logger, clients: make(map[string]*client)}
}

func (h *Hub) register() *client {
	c := &client{id: uuid.NewString(), send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast queues the event for every connected client, the originator
// included. No acknowledgment is awaited; a client whose buffer is full
// just misses the frame.
func (h *Hub) Broadcast(event string, msg domain.Message) {
	data, err := encodeFrame(event, msg)
	if err != nil {
		h.logger.WithError(err).WithField("event", event).Error("failed to encode frame")
		return
	}
	h.mu.Lock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.WithFields(log.Fields{"client": c.id, "event": event}).Warn("client buffer full, frame dropped")
		}
	}
	h.mu.Unlock()
}

// sendTo queues a frame for a single client. Used for the welcome snapshot.
func (h *Hub) sendTo(c *client, event string, msg domain.Message) {
	data, err := encodeFrame(event, msg)
	if err != nil {
		h.logger.WithError(err).WithField("event", event).Error("failed to encode frame")
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.WithFields(log.Fields{"client": c.id, "event": event}).Warn("client buffer full, frame dropped")
	}
}
