package websocket

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Frames waiting for the hub loop before new ones are dropped.
	broadcastBuffer = 64
)

// Events sent to clients
const (
	EventSnapshot = "snapshot"
	EventFrame    = "frame"
	EventError    = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is what the hub sends to clients
type Message struct {
	Event string        `json:"event"`
	Frame *engine.Frame `json:"frame,omitempty"`
	Data  interface{}   `json:"data,omitempty"`
}

// Command is what clients may send to the hub
type Command struct {
	Command   string `json:"command"`
	Direction string `json:"direction,omitempty"`
}

// CommandHandler executes client commands other than snapshot requests
type CommandHandler func(cmd Command) error

// Options configure a Hub
type Options struct {
	// Snapshot returns the full world; it is sent to every new client and on request.
	Snapshot  func() engine.Frame
	OnCommand CommandHandler
	Log       *logrus.Entry
}

// Client represents a WebSocket client
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type directMessage struct {
	client *Client
	data   []byte
}

// Hub streams render frames to every connected client. It is an
// engine.Renderer and engine.Flusher: cells drawn during a tick are sent as
// one frame when the tick flushes.
type Hub struct {
	// Registered clients, owned by the Run loop
	clients map[*Client]bool
	count   atomic.Int32

	broadcast  chan []byte
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	snapshot  func() engine.Frame
	onCommand CommandHandler
	log       *logrus.Entry

	mu      sync.Mutex
	pending []engine.Cell
}

// NewHub creates a new WebSocket hub
func NewHub(opts Options) *Hub {
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		direct:     make(chan directMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		snapshot:   opts.Snapshot,
		onCommand:  opts.OnCommand,
		log:        log.WithField("component", "websocket"),
	}
}

// Run starts the hub's event loop and blocks until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			h.unregisterClient(client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			for client := range h.clients {
				h.deliver(client, data)
			}

		case msg := <-h.direct:
			if h.clients[msg.client] {
				h.deliver(msg.client, msg.data)
			}
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ServeHTTP upgrades the request and attaches the connection to the hub
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}

	if data := h.snapshotMessage(); data != nil {
		client.send <- data
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// DrawSquare queues a changed cell for the next frame
func (h *Hub) DrawSquare(cell engine.Cell) {
	h.mu.Lock()
	h.pending = append(h.pending, cell)
	h.mu.Unlock()
}

// Flush sends the queued cells as one frame. It never blocks the tick: when
// the hub loop falls behind the frame is dropped and clients can ask for a
// snapshot.
func (h *Hub) Flush(tick uint64) {
	h.mu.Lock()
	cells := h.pending
	h.pending = nil
	h.mu.Unlock()

	if len(cells) == 0 {
		return
	}

	data, err := json.Marshal(&Message{
		Event: EventFrame,
		Frame: &engine.Frame{Tick: tick, Cells: cells},
	})
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal frame")
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.WithField("tick", tick).Warn("Hub busy, frame dropped")
	}
}

// BroadcastEvent sends a custom event to all clients
func (h *Hub) BroadcastEvent(event string, data interface{}) {
	payload, err := json.Marshal(&Message{Event: event, Data: data})
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal broadcast message")
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

func (h *Hub) snapshotMessage() []byte {
	if h.snapshot == nil {
		return nil
	}
	frame := h.snapshot()
	data, err := json.Marshal(&Message{Event: EventSnapshot, Frame: &frame})
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal snapshot")
		return nil
	}
	return data
}

func (h *Hub) sendTo(client *Client, data []byte) {
	select {
	case h.direct <- directMessage{client: client, data: data}:
	case <-h.done:
	}
}

func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		// Client's send channel is full, close it
		h.unregisterClient(client)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	h.count.Store(int32(len(h.clients)))

	h.log.WithField("clients", len(h.clients)).Info("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.count.Store(int32(len(h.clients)))

		h.log.WithField("clients", len(h.clients)).Info("Client unregistered")
	}
}

func (h *Hub) handle(c *Client, raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		h.replyError(c, "malformed command")
		return
	}

	if cmd.Command == EventSnapshot {
		if data := h.snapshotMessage(); data != nil {
			h.sendTo(c, data)
		}
		return
	}

	if h.onCommand == nil {
		h.replyError(c, "commands are not accepted")
		return
	}
	if err := h.onCommand(cmd); err != nil {
		h.replyError(c, err.Error())
	}
}

func (h *Hub) replyError(c *Client, text string) {
	data, err := json.Marshal(&Message{Event: EventError, Data: text})
	if err != nil {
		return
	}
	h.sendTo(c, data)
}

// readPump pumps commands from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("WebSocket error")
			}
			break
		}
		c.hub.handle(c, data)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
