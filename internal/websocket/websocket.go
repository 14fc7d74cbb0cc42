package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/gridpicks/internal/deadline"
	"github.com/abrezinsky/gridpicks/internal/logger"
	"github.com/abrezinsky/gridpicks/internal/models"
	"github.com/abrezinsky/gridpicks/internal/services"
)

// Message types pushed to clients
const (
	TypeDeadline            = "deadline"
	TypePredictionsLocked   = "predictions_locked"
	TypeScoresUpdated       = "scores_updated"
	TypeChampionshipUpdated = "championship_updated"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DeadlineSource finds the next race still open for predictions
type DeadlineSource interface {
	NextDeadline(ctx context.Context, season int) (*services.RaceWithDeadline, error)
}

// DeadlinePayload is the countdown pushed for the next open race
type DeadlinePayload struct {
	RaceID   string          `json:"race_id"`
	RaceName string          `json:"race_name"`
	Round    int             `json:"round"`
	Deadline deadline.Status `json:"deadline"`
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan models.WSMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	deadlines  DeadlineSource
	season     int

	// race whose countdown was last broadcast; only touched by the countdown goroutine
	lastRaceID string
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.WSMessage
}

// New creates a new Hub counting down to season's prediction deadlines
func New(log logger.Logger, deadlines DeadlineSource, season int) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.WSMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deadlines:  deadlines,
		season:     season,
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// sendTo queues msg for a single client. The client may already be gone,
// in which case its send channel is closed and the message is dropped.
func (h *Hub) sendTo(client *Client, msg models.WSMessage) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- msg:
	default:
	}
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", h.ClientCount())

			// Greet the new client with the current countdown
			go func() {
				if payload, ok := h.currentDeadline(context.Background()); ok {
					h.sendTo(client, models.WSMessage{Type: TypeDeadline, Payload: payload})
				}
			}()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", h.ClientCount())

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// BroadcastMessage sends a message to all connected clients
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	h.broadcast <- models.WSMessage{
		Type:    msgType,
		Payload: payload,
	}
}

// BroadcastScoresUpdated implements services.Broadcaster
func (h *Hub) BroadcastScoresUpdated(raceID string) {
	h.BroadcastMessage(TypeScoresUpdated, map[string]interface{}{"race_id": raceID})
}

// BroadcastChampionshipUpdated implements services.Broadcaster
func (h *Hub) BroadcastChampionshipUpdated(season int) {
	h.BroadcastMessage(TypeChampionshipUpdated, map[string]interface{}{"season": season})
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.WSMessage, 256),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// StartDeadlineCountdown broadcasts the next prediction deadline every
// interval until ctx is cancelled
func (h *Hub) StartDeadlineCountdown(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Deadline countdown stopped")
			return
		case <-ticker.C:
			h.checkDeadline(ctx)
		}
	}
}

// checkDeadline broadcasts the countdown, announcing first when the race
// previously counted down to has locked
func (h *Hub) checkDeadline(ctx context.Context) {
	payload, ok := h.currentDeadline(ctx)

	if h.lastRaceID != "" && (!ok || payload.RaceID != h.lastRaceID) {
		h.log.Info("Race predictions locked", "race_id", h.lastRaceID)
		h.BroadcastMessage(TypePredictionsLocked, map[string]interface{}{"race_id": h.lastRaceID})
		h.lastRaceID = ""
	}
	if !ok {
		return
	}

	h.lastRaceID = payload.RaceID
	h.BroadcastMessage(TypeDeadline, payload)
}

func (h *Hub) currentDeadline(ctx context.Context) (*DeadlinePayload, bool) {
	next, err := h.deadlines.NextDeadline(ctx, h.season)
	if err != nil {
		return nil, false
	}
	return &DeadlinePayload{
		RaceID:   next.ID,
		RaceName: next.Name,
		Round:    next.RoundNumber,
		Deadline: next.Deadline,
	}, true
}

var _ services.Broadcaster = (*Hub)(nil)
