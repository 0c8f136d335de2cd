package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avnordli/matchcast/internal/models"
	"github.com/avnordli/matchcast/internal/timeline"
)

// TimelineReader is the read-only store surface exposed to consumers.
// Consumers receive copies; they never mutate the store.
type TimelineReader interface {
	AllEvents() []models.TimelineEvent
	VisibleEvents() []models.TimelineEvent
	VisibleEventsOfType(typ models.EventType) []models.TimelineEvent
	CurrentMinute() int
	LiveMinute() int
	IsLive() bool
	UserTime() float64
	LiveTime() float64
	TimeBehindLive() float64
	CurrentPhase() timeline.Phase
	ExportJSON() ([]byte, error)
}

// Playback is the navigation surface consumers drive
type Playback interface {
	JumpToTimestamp(t float64)
	JumpToMinute(minute int)
	GoToLive()
	JumpToNextEventOfType(typ models.EventType) bool
	JumpToPreviousEventOfType(typ models.EventType) bool
	Score() timeline.Score
	Subscribe() (<-chan timeline.StateChange, func())
}

// ConnectionConfig holds WebSocket tuning for consumer connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// ConnectionManager fans state-change snapshots out to WebSocket
// consumers (score headers, chat lists, overlay cards).
type ConnectionManager struct {
	connections map[*Connection]bool
	mu          sync.RWMutex
	upgrader    websocket.Upgrader
	config      ConnectionConfig
	playback    Playback
}

// Connection represents one consumer WebSocket client
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	ConnectedAt time.Time
	LastPing    time.Time
}

// NewConnectionManager creates a consumer fan-out manager
func NewConnectionManager(playback Playback, config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:   config,
		playback: playback,
	}
}

// Start forwards playback state changes to all connected consumers
// until the context is cancelled.
func (cm *ConnectionManager) Start(ctx context.Context) {
	changes, cancel := cm.playback.Subscribe()
	defer cancel()

	log.Info().Msg("connection manager started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("connection manager shutting down")
			cm.closeAll()
			return
		case change, ok := <-changes:
			if !ok {
				cm.closeAll()
				return
			}
			cm.broadcast(change)
		}
	}
}

// UpgradeConnection upgrades an HTTP request to a consumer WebSocket
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	connection := &Connection{
		ID:          uuid.New().String(),
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	cm.mu.Lock()
	cm.connections[connection] = true
	total := len(cm.connections)
	cm.mu.Unlock()

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID).
		Int("total_connections", total).
		Msg("consumer WebSocket connected")
	return nil
}

func (cm *ConnectionManager) unregister(conn *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if _, ok := cm.connections[conn]; ok {
		delete(cm.connections, conn)
		close(conn.Send)
		log.Info().Str("connection_id", conn.ID).Msg("consumer WebSocket disconnected")
	}
}

func (cm *ConnectionManager) closeAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for conn := range cm.connections {
		delete(cm.connections, conn)
		close(conn.Send)
		conn.Conn.Close()
	}
}

func (cm *ConnectionManager) broadcast(change timeline.StateChange) {
	data, err := json.Marshal(change)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal state change for broadcast")
		return
	}

	// Send while holding the read lock: unregister closes Send under
	// the write lock, so a disconnecting consumer cannot race the send
	// into a closed channel. The sends never block (select/default),
	// so holding the lock here is cheap.
	cm.mu.RLock()
	var slow []*Connection
	for conn := range cm.connections {
		select {
		case conn.Send <- data:
		default:
			slow = append(slow, conn)
		}
	}
	cm.mu.RUnlock()

	// Slow consumers are closed rather than stalling the feed;
	// unregister needs the write lock, so it happens after release.
	for _, conn := range slow {
		log.Warn().Str("connection_id", conn.ID).Msg("consumer send buffer full, closing connection")
		cm.unregister(conn)
		conn.Conn.Close()
	}
}

// ConnectionCount returns the number of active consumers
func (cm *ConnectionManager) ConnectionCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// writePump handles sending messages to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Manager.unregister(c)
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("failed to write to WebSocket")
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump drains client messages to keep pong handling alive;
// consumers drive navigation over HTTP, not the socket.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", c.ID).Msg("unexpected WebSocket close")
			}
			break
		}
		log.Debug().
			Str("connection_id", c.ID).
			RawJSON("message", message).
			Msg("received client message")
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}
