// Package ws pushes live order events (chat, location, status) to the
// participants watching an order over websocket connections.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
	broadcastQueue = 256
)

var _ ports.LiveNotifier = (*Hub)(nil)

var ErrHubStopped = errors.New("live hub is stopped")

type envelope struct {
	orderID kernel.UUID
	event   ports.LiveEvent
}

// Hub keeps one room per order. Run owns the rooms; everything else talks to it
// through channels.
type Hub struct {
	upgrader   websocket.Upgrader
	rooms      map[kernel.UUID]map[*client]struct{}
	broadcast  chan envelope
	register   chan *client
	unregister chan *client
	done       chan struct{}
	logger     *slog.Logger

	countsMu sync.RWMutex
	counts   map[kernel.UUID]int
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		rooms:      make(map[kernel.UUID]map[*client]struct{}),
		broadcast:  make(chan envelope, broadcastQueue),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "live-hub"),
		counts:     make(map[kernel.UUID]int),
	}
}

// Run dispatches events until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for orderID, room := range h.rooms {
				for c := range room {
					h.drop(orderID, c)
				}
			}
			return

		case c := <-h.register:
			room, ok := h.rooms[c.orderID]
			if !ok {
				room = make(map[*client]struct{})
				h.rooms[c.orderID] = room
			}
			room[c] = struct{}{}
			h.setCount(c.orderID, len(room))
			h.logger.Debug("subscriber joined", "order_id", c.orderID.String(), "subscribers", len(room))

		case c := <-h.unregister:
			if _, ok := h.rooms[c.orderID][c]; ok {
				h.drop(c.orderID, c)
			}

		case env := <-h.broadcast:
			for c := range h.rooms[env.orderID] {
				select {
				case c.send <- env.event:
				default:
					h.logger.Warn("dropping slow subscriber", "order_id", env.orderID.String())
					h.drop(env.orderID, c)
				}
			}
		}
	}
}

// Notify queues event for the subscribers of orderID. It never blocks; when the
// queue is full the event is dropped.
func (h *Hub) Notify(orderID kernel.UUID, event ports.LiveEvent) {
	select {
	case h.broadcast <- envelope{orderID: orderID, event: event}:
	default:
		h.logger.Warn("broadcast queue full, dropping event", "order_id", orderID.String(), "type", string(event.Type))
	}
}

// Serve upgrades the request and subscribes the connection to orderID.
// The caller must have checked that the requester may watch the order.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, orderID kernel.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		hub:     h,
		conn:    conn,
		orderID: orderID,
		send:    make(chan ports.LiveEvent, sendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return ErrHubStopped
	}

	go c.writePump()
	go c.readPump()
	return nil
}

// Subscribers reports how many connections watch orderID.
func (h *Hub) Subscribers(orderID kernel.UUID) int {
	h.countsMu.RLock()
	defer h.countsMu.RUnlock()
	return h.counts[orderID]
}

func (h *Hub) drop(orderID kernel.UUID, c *client) {
	room := h.rooms[orderID]
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, orderID)
	}
	h.setCount(orderID, len(room))
}

func (h *Hub) setCount(orderID kernel.UUID, n int) {
	h.countsMu.Lock()
	defer h.countsMu.Unlock()
	if n == 0 {
		delete(h.counts, orderID)
		return
	}
	h.counts[orderID] = n
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	orderID kernel.UUID
	send    chan ports.LiveEvent
}

// readPump only drains control frames; subscribers never send data.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", "order_id", c.orderID.String(), "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
